// Package main provides the aigc CLI application.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/config"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/preset"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/version"
)

// Flags shared across subcommands.
var (
	flagConfig   string
	flagPreset   string
	flagProvider string
	flagModel    string
	flagLanguage string
	flagFormat   string
	flagNoFilter bool
	flagNoCache  bool
	flagVerbose  bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "aigc",
	Short: "AI-generated commit messages from staged changes",
	Long: `aigc reads your staged git changes and writes a commit message for
them. Large diffs are split into chunks, summarized concurrently, and
merged back into a single message.`,
	Version:       version.FullString(),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Running aigc with no subcommand generates a message.
		return runGenerate(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "config file (default searches .aigc.yaml, then ~/.config/aigc/config.yaml)")
	pf.StringVar(&flagPreset, "preset", "", "apply a named preset")
	pf.StringVar(&flagProvider, "provider", "", "LLM provider (openai, deepseek, zhipu, alibaba, ollama, ...)")
	pf.StringVarP(&flagModel, "model", "m", "", "model for the final message")
	pf.StringVarP(&flagLanguage, "language", "l", "", "output language (default English)")
	pf.StringVar(&flagFormat, "format", "", "message format: plain or conventional")
	pf.BoolVar(&flagNoFilter, "no-filter", false, "disable the smart file filter")
	pf.BoolVar(&flagNoCache, "no-cache", false, "disable the response cache")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

// loadConfig assembles configuration in override order: files, env,
// preset, then command-line flags.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if flagConfig != "" {
		cfg, err = config.Load(flagConfig)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	if flagPreset != "" {
		store, err := preset.NewStore("")
		if err != nil {
			return nil, err
		}
		p, err := store.Get(flagPreset)
		if err != nil {
			return nil, err
		}
		p.Apply(cfg)
	}

	if flagProvider != "" {
		cfg.Provider.Name = flagProvider
	}
	if flagModel != "" {
		cfg.Provider.Model = flagModel
	}
	if flagLanguage != "" {
		cfg.Generate.Language = flagLanguage
	}
	if flagFormat != "" {
		cfg.Generate.Format = flagFormat
	}
	if flagNoFilter {
		cfg.Filter.Enabled = false
	}
	if flagNoCache {
		cfg.Cache.Enabled = false
	}
	if flagVerbose {
		cfg.Global.LogLevel = "debug"
	}

	return cfg, cfg.Validate()
}
