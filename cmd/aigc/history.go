// Package main provides the aigc CLI application.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past generation runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := historyStore()
		if err != nil {
			return err
		}
		entries, err := store.Recent(historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no history recorded")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %s  %s  %s\n",
				e.ID, e.Timestamp.Format("2006-01-02 15:04"), e.Model, firstLine(e.Message))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one run in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := historyStore()
		if err != nil {
			return err
		}
		e, err := store.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("id:       %s\n", e.ID)
		fmt.Printf("time:     %s\n", e.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Printf("provider: %s\n", e.Provider)
		fmt.Printf("model:    %s\n", e.Model)
		if e.Chunks > 0 {
			fmt.Printf("chunks:   %d (%d failed)\n", e.Chunks, e.FailedChunks)
		}
		for _, f := range e.Files {
			fmt.Printf("file:     %s\n", f)
		}
		fmt.Printf("\n%s\n", e.Message)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := historyStore()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("history cleared")
		return nil
	},
}

func historyStore() (*history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return history.NewStore(cfg.History.Path, cfg.History.Keep)
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "entries to show")
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
