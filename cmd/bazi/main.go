// bazi 是离线排盘命令行工具，与 HTTP 服务共用同一套计算核心与叙述表。
//
// Usage:
//
//	bazi chart --date=1990-05-15 [--time=14:30] [--tz=Asia/Shanghai] [--lon=116.4 | --location=Beijing] [--json]
//	bazi narrative <日柱> <身强|身弱|strong|weak> [--json]
package main

import (
	"context"
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"octa-bazi-api/internal/config"
	domainbazi "octa-bazi-api/internal/domain/bazi"
	"octa-bazi-api/pkg/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// globalFlags 所有子命令共享的数据源与输出选项
type globalFlags struct {
	dayOffset     int
	solarTerms    string
	narrativeFile string
	asJSON        bool
	logLevel      string
}

// toConfig 组装与服务端相同的排盘配置
func (g *globalFlags) toConfig() *config.Config {
	return &config.Config{
		Bazi: config.BaziConfig{
			DayOffset:              g.dayOffset,
			NarrativeFile:          g.narrativeFile,
			SolarTermOverridesFile: g.solarTerms,
		},
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "bazi",
		Short: "BaZi four-pillar calculator",
		Long:  "bazi 计算四柱命盘、日主强弱与喜忌，并查询日柱叙述。",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.InitWithWriter(cmd.ErrOrStderr(), g.logLevel, "text")
		},
	}
	root.Version = version

	pf := root.PersistentFlags()
	pf.IntVar(&g.dayOffset, "day-offset", domainbazi.DefaultDayOffset, "Day pillar calibration offset")
	pf.StringVar(&g.solarTerms, "solar-terms", "", "Solar term overrides file (YAML)")
	pf.StringVar(&g.narrativeFile, "narrative-file", "", "Narrative mapping file (JSON); embedded table when empty")
	pf.BoolVar(&g.asJSON, "json", false, "Print JSON instead of text")
	pf.StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(newChartCmd(g))
	root.AddCommand(newNarrativeCmd(g))
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
