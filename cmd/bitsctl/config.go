package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/branched-services/go-packet"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	file       string
	maxDepth   int
	strict     bool
	logLevel   string
}

// settings is the resolved configuration: defaults, then the config file,
// then flags.
type settings struct {
	MaxDepth      int
	StrictPadding bool
	LogLevel      string
	LogFormat     string
}

func defaultSettings() settings {
	return settings{
		MaxDepth:      packet.DefaultMaxDepth,
		StrictPadding: false,
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

type fileConfig struct {
	MaxDepth      int    `toml:"max_depth"`
	StrictPadding bool   `toml:"strict_padding"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
}

func loadConfig(path string, cfg *settings) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load bitsctl config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load bitsctl config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("max_depth") {
		if raw.MaxDepth < 1 {
			return fmt.Errorf("max_depth must be positive, got %d", raw.MaxDepth)
		}
		cfg.MaxDepth = raw.MaxDepth
	}

	if meta.IsDefined("strict_padding") {
		cfg.StrictPadding = raw.StrictPadding
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(raw.LogLevel))
	}

	if meta.IsDefined("log_format") {
		format := strings.ToLower(strings.TrimSpace(raw.LogFormat))
		if format != "console" && format != "json" {
			return fmt.Errorf("log_format must be console or json, got %q", raw.LogFormat)
		}
		cfg.LogFormat = format
	}

	return nil
}

// resolveSettings layers the config file and explicitly set flags over the defaults.
func resolveSettings(cmd *cobra.Command, opts *rootOptions) (settings, error) {
	cfg := defaultSettings()

	if opts.configPath != "" {
		if err := loadConfig(opts.configPath, &cfg); err != nil {
			return settings{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("max-depth") {
		if opts.maxDepth < 1 {
			return settings{}, fmt.Errorf("--max-depth must be positive, got %d", opts.maxDepth)
		}
		cfg.MaxDepth = opts.maxDepth
	}
	if flags.Changed("strict") {
		cfg.StrictPadding = opts.strict
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(opts.logLevel))
	}

	return cfg, nil
}

// decoderOptions translates settings into library options.
func (s settings) decoderOptions() []packet.DecoderOption {
	return []packet.DecoderOption{
		packet.WithMaxDepth(s.MaxDepth),
		packet.WithStrictPadding(s.StrictPadding),
	}
}
