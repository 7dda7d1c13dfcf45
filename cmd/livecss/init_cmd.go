package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .livecss.yaml config file",
	Long:  `Create a .livecss.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".livecss.yaml"); err == nil && !force {
			return fmt.Errorf(".livecss.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".livecss.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Println("Created .livecss.yaml")
		return nil
	},
}

const defaultConfig = `# livecss configuration
# Docs: https://github.com/yacobolo/livecss
# Every key can also be set as a flag (--output) or an environment
# variable (LIVECSS_OUTPUT).

# Entry stylesheet; empty uses the built-in default (preflight + theme).
input: ""

# Where build and watch write the compiled stylesheet.
output: dist/livecss.css

# Files scanned for class names. Generated *_templ.go files and anything
# in .gitignore are skipped automatically.
content:
  - "**/*.templ"
  - "**/*.go"
  - "**/*.html"

# Watch and serve settings
debounce: 150ms          # quiet window before a rebuild
addr: ":8787"            # serve listen address

# Check settings
strict: false            # exit 1 on any unknown class
output-format: text      # text | json
max-same-issues: 0       # 0 = unlimited
print-lines: true
print-checker-name: true
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
