package main

import (
	"strings"

	"github.com/spf13/cobra"

	domainbazi "octa-bazi-api/internal/domain/bazi"
	"octa-bazi-api/internal/interfaces/http/dto"
	"octa-bazi-api/internal/wire"
	apperrors "octa-bazi-api/pkg/errors"
)

func newNarrativeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "narrative <day-pillar> <label>",
		Short: "Look up the four-section narrative for a day pillar and strength label",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := wire.ProvideNarrativeTable(g.toConfig())
			if err != nil {
				return err
			}

			dayPillar := strings.TrimSpace(args[0])
			label, ok := domainbazi.ParseLabel(args[1])
			if !ok {
				return apperrors.ErrInvalidParam.WithDetail("label must be 身强, 身弱, strong or weak")
			}
			entry, err := table.Lookup(dayPillar, string(label))
			if err != nil {
				return err
			}

			resp := dto.ToNarrativeResponse(dayPillar, string(label), entry)
			if g.asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			printSections(cmd.OutOrStdout(), resp)
			return nil
		},
	}
}
