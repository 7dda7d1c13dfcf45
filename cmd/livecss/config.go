package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/yacobolo/livecss"
)

var k = koanf.New(".")

// defaultOutputFile is where build and watch put the stylesheet unless
// configured otherwise. serve defaults to memory only.
const defaultOutputFile = "dist/livecss.css"

func defaultContentGlobs() []string {
	return []string{"**/*.templ", "**/*.go", "**/*.html"}
}

// loadConfig loads configuration with precedence: flags > env > file >
// defaults. It must be called after cobra parses flags (in PreRunE or
// RunE).
//
// The config schema is flat and every setting uses the same key as its
// flag, so an unchanged flag never shadows a value the file or the
// environment set: posflag only merges a flag's default when the key is
// absent everywhere else.
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".livecss.yaml"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// CLI flags last so explicitly set ones win. cmd.Flags() includes the
	// root command's persistent flags once cobra has executed the command.
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment
// variables. Separated from loadConfig so tests can run it without a
// cobra command.
func loadConfigFromPath(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// LIVECSS_OUTPUT -> output
	// LIVECSS_MAX_SAME_ISSUES -> max-same-issues
	if err := k.Load(env.Provider("LIVECSS_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "LIVECSS_")),
			"_", "-",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildPipelineConfig constructs the library's Config from koanf state.
// defaultOutput differs per command: build and watch write a file, serve
// passes "" and keeps the stylesheet in memory unless --output is given.
func buildPipelineConfig(defaultOutput string) (livecss.Config, error) {
	source, err := resolveSource()
	if err != nil {
		return livecss.Config{}, err
	}
	return livecss.Config{
		ContentGlobs: getStrings("content", defaultContentGlobs()),
		Source:       source,
		OutputFile:   getString("output", defaultOutput),
		Logger:       newLogger(),
	}, nil
}

// buildCheckConfig constructs the library's CheckConfig from koanf state.
func buildCheckConfig() (livecss.CheckConfig, error) {
	source, err := resolveSource()
	if err != nil {
		return livecss.CheckConfig{}, err
	}
	return livecss.CheckConfig{
		ContentGlobs:  getStrings("content", defaultContentGlobs()),
		Source:        source,
		MaxSameIssues: getInt("max-same-issues", 0),
		Logger:        newLogger(),
	}, nil
}

// resolveSource reads the configured entry stylesheet. An empty input path
// means the built-in default source.
func resolveSource() (string, error) {
	input := getString("input", "")
	if input == "" {
		return "", nil
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return "", fmt.Errorf("read input stylesheet: %w", err)
	}
	return string(data), nil
}

// newLogger builds the CLI logger from the quiet and verbose settings.
// Commands print their own user-facing output; the logger carries the
// session and pipeline records underneath it.
func newLogger() *slog.Logger {
	if getBool("quiet", false) {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	level := slog.LevelInfo
	if getBool("verbose", false) {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// getString returns the configured value for key, or the default when the
// key is unset or empty.
func getString(key, defaultVal string) string {
	if v := k.String(key); v != "" {
		return v
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	if k.Exists(key) {
		return k.Bool(key)
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if k.Exists(key) {
		return k.Int(key)
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if k.Exists(key) {
		return k.Duration(key)
	}
	return defaultVal
}

// getStrings returns the configured list for key. A plain string value, as
// environment variables produce, is split on commas so
// LIVECSS_CONTENT="a/**/*.go,b/**" works.
func getStrings(key string, defaultVal []string) []string {
	if v := k.Strings(key); len(v) > 0 {
		return v
	}
	if v := k.String(key); v != "" {
		return splitList(v)
	}
	return defaultVal
}

// splitList splits a comma-separated list, trimming whitespace and
// dropping empty entries.
func splitList(list string) []string {
	parts := strings.Split(list, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
