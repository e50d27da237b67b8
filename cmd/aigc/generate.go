// Package main provides the aigc CLI application.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/cache"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/changes"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/config"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/filter"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/generate"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/history"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/llm"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/observability"
)

var flagQuiet bool

// generateCmd is also the root command's default action.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a commit message from staged changes",
	Long: `Generate a commit message from the currently staged changes.

The diff is measured against the model's context budget. Small diffs go
to the provider in one call; large diffs are split by file, hunk, and
line, summarized concurrently, and merged into one message.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "print only the message")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := observability.NewLoggerTo(os.Stderr, cfg.Global.LogLevel)
	client, err := llm.New(llm.Settings{
		Provider:  cfg.Provider.Name,
		BaseURL:   cfg.Provider.BaseURL,
		APIKeyEnv: cfg.Provider.APIKeyEnv,
		Timeout:   cfg.Provider.Timeout,
	})
	if err != nil {
		return err
	}

	deps := generate.Deps{
		Source: &changes.GitSource{},
		Client: client,
		Log:    log,
	}
	if cfg.Cache.Enabled {
		deps.Cache = cache.NewDiskCache(cacheDir(cfg))
	}
	if cfg.History.Enabled {
		store, err := history.NewStore(cfg.History.Path, cfg.History.Keep)
		if err != nil {
			log.Warn("history disabled", observability.Err(err))
		} else {
			deps.History = store
		}
	}

	gen, err := generate.New(cfg, deps)
	if err != nil {
		return err
	}

	var progress generate.Progress
	if !flagQuiet {
		progress = func(stage, detail string) {
			if stage != "done" {
				fmt.Fprintf(os.Stderr, "%s: %s\n", stage, detail)
			}
		}
	}

	res, err := gen.Run(cmd.Context(), progress)
	if err != nil {
		return err
	}

	fmt.Println(res.Message)
	if !flagQuiet {
		printRunSummary(os.Stderr, res)
	}
	return nil
}

func printRunSummary(w *os.File, res *generate.Result) {
	if res.Cached {
		fmt.Fprintln(w, "(cached)")
		return
	}
	if res.Chunks > 1 {
		fmt.Fprintf(w, "(%d chunks via %s", res.Chunks, res.MapModel)
		if res.FailedChunks > 0 {
			fmt.Fprintf(w, ", %d failed", res.FailedChunks)
		}
		fmt.Fprintf(w, ", %.1fs)\n", res.Duration.Seconds())
	}
	if res.FilterStats.Status == filter.StatusApplied {
		fmt.Fprintf(w, "(filtered %d of %d files)\n", res.FilterStats.Ignored, res.FilterStats.Total)
	}
}

func cacheDir(cfg *config.Config) string {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return ".aigc-cache"
	}
	return filepath.Join(base, "aigc")
}
