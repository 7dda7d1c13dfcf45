package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/livecss"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report class names the stylesheet cannot account for",
	Long: `Scan the content globs and report every class name that neither
compiles into a utility rule nor matches a plain selector in the entry
stylesheet. Typos like "felx" show up here instead of silently producing
no CSS.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.StringP("input", "i", "", "Entry stylesheet (empty = built-in default)")
	f.StringSlice("content", nil, "Glob patterns for files to scan")
	f.Bool("strict", false, "Exit 1 on any issue (CI mode)")
	f.String("output-format", "", "Output format: text|json")
	f.Int("max-same-issues", 0, "Max repeats of one issue to show (0=unlimited)")
	f.Bool("print-lines", true, "Show source lines with issues")
	f.Bool("print-checker-name", true, "Show (livecss) suffix on issues")
}

func runCheck(_ *cobra.Command, _ []string) error {
	cfg, err := buildCheckConfig()
	if err != nil {
		return err
	}

	result, err := livecss.Check(cfg)
	if err != nil {
		return err
	}

	if !getBool("quiet", false) {
		format := livecss.DetermineOutputFormat(getString("output-format", ""))
		opts := livecss.ReportOptions{
			PrintSourceLines: getBool("print-lines", true),
			PrintCheckerName: getBool("print-checker-name", true),
			UseColors:        getBool("color", false) || livecss.ShouldUseColors(),
		}
		if err := livecss.WriteOutput(os.Stdout, result, format, opts); err != nil {
			return err
		}
	}

	if getBool("strict", false) && len(result.Issues) > 0 {
		os.Exit(1)
	}
	return nil
}
