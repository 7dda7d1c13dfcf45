package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yacobolo/livecss"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Scan content files and write the stylesheet once",
	Long: `Scan the content globs for utility class names, compile a stylesheet
covering every one of them, and write it to the output path. Unknown
class names are skipped; run check to see them.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.StringP("input", "i", "", "Entry stylesheet (empty = built-in default)")
	f.StringP("output", "o", defaultOutputFile, "Output stylesheet path")
	f.StringSlice("content", nil, "Glob patterns for files to scan")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := buildPipelineConfig(defaultOutputFile)
	if err != nil {
		return err
	}

	result, err := livecss.Build(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if !getBool("quiet", false) {
		fmt.Printf("Wrote %s\n", cfg.OutputFile)
		fmt.Printf("  Files scanned: %d\n", result.FilesScanned)
		fmt.Printf("  Classes found: %d (%d unique)\n", result.ClassesFound, result.UniqueClasses)
		fmt.Printf("  Rules emitted: %d (%d bytes)\n", result.RulesEmitted, result.Bytes)

		for _, w := range result.Warnings {
			fmt.Printf("  Warning: %s\n", w)
		}
	}

	return nil
}
