package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	appbazi "octa-bazi-api/internal/application/bazi"
	"octa-bazi-api/internal/application/profile"
	"octa-bazi-api/internal/interfaces/http/dto"
	"octa-bazi-api/internal/wire"
)

type chartFlags struct {
	date     string
	time     string
	tz       string
	lon      float64
	location string
}

func newChartCmd(g *globalFlags) *cobra.Command {
	f := &chartFlags{}

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Compute the four pillars, strength, luck and narrative for a birth moment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := dto.BirthRequest{
				BirthDate:     f.date,
				BirthTime:     f.time,
				Timezone:      f.tz,
				BirthLocation: f.location,
			}
			if cmd.Flags().Changed("lon") {
				lon := f.lon
				req.Longitude = &lon
			}
			return runChart(cmd, g, req)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.date, "date", "", "Birth date YYYY-MM-DD (required)")
	fl.StringVar(&f.time, "time", "", "Birth time HH:MM[:SS]; the hour pillar needs a longitude too")
	fl.StringVar(&f.tz, "tz", "", "IANA time zone, e.g. Asia/Shanghai")
	fl.Float64Var(&f.lon, "lon", 0, "Birth longitude in degrees, east positive")
	fl.StringVar(&f.location, "location", "", "Birth place; used to estimate longitude when --lon is absent")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func runChart(cmd *cobra.Command, g *globalFlags, req dto.BirthRequest) error {
	cfg := g.toConfig()
	calc, err := wire.ProvideCalculator(cfg)
	if err != nil {
		return err
	}
	table, err := wire.ProvideNarrativeTable(cfg)
	if err != nil {
		return err
	}
	svc := appbazi.NewService(calc, table, nil, appbazi.Config{})

	in, err := req.ToBirthInput(func(location string) float64 {
		lon, _ := profile.ResolveLongitude(location, profile.DefaultLongitude)
		return lon
	})
	if err != nil {
		return err
	}

	a, err := svc.Analyze(cmd.Context(), in)
	if err != nil {
		return err
	}
	resp := dto.ToAnalysisResponse(a)

	out := cmd.OutOrStdout()
	if g.asJSON {
		return writeJSON(out, resp)
	}
	printAnalysis(out, resp)
	return nil
}

func printAnalysis(out io.Writer, a *dto.AnalysisResponse) {
	c := a.Chart
	hour := "--"
	if c.HourPillar != nil {
		hour = c.HourPillar.Pillar
	}
	fmt.Fprintf(out, "Pillars:   %s %s %s %s\n", c.YearPillar.Pillar, c.MonthPillar.Pillar, c.DayPillar.Pillar, hour)
	fmt.Fprintf(out, "Day master: %s (%s)\n", c.DayMaster, c.DayMasterElement)
	if c.TrueSolarTime != "" {
		fmt.Fprintf(out, "Solar time: %s\n", c.TrueSolarTime)
	}
	fmt.Fprintf(out, "Strength:  %s (%s) %.1f\n", a.Strength.Label, a.Strength.LabelEn, a.Strength.Score)
	fmt.Fprintf(out, "Lucky:     %s\n", strings.Join(a.Luck.LuckyElements, ", "))
	fmt.Fprintf(out, "Unlucky:   %s\n", strings.Join(a.Luck.UnluckyElements, ", "))
	fmt.Fprintf(out, "Directions: %s\n", strings.Join(a.Luck.LuckyDirections, ", "))
	fmt.Fprintf(out, "Colors:    %s\n", strings.Join(a.Luck.LuckyColors, ", "))

	if a.Narrative == nil {
		fmt.Fprintf(out, "Narrative: not available for %s\n", c.DayPillar.Pillar)
		return
	}
	fmt.Fprintln(out)
	printSections(out, a.Narrative)
}

func printSections(out io.Writer, n *dto.NarrativeResponse) {
	for _, s := range n.Sections {
		fmt.Fprintf(out, "[%s]\n%s\n\n", s.Title, s.Text)
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
