// Package main provides the aigc CLI application.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/preset"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage configuration presets",
	Long: `Presets are named configuration bundles stored as TOML files. Apply
one with the global --preset flag.`,
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := preset.NewStore("")
		if err != nil {
			return err
		}
		names, err := store.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("no presets saved")
			return nil
		}
		for _, name := range names {
			p, err := store.Get(name)
			if err != nil {
				return err
			}
			if p.Description != "" {
				fmt.Printf("%s\t%s\n", name, p.Description)
			} else {
				fmt.Println(name)
			}
		}
		return nil
	},
}

var (
	presetSaveDescription string
	presetSaveTimeout     time.Duration
)

var presetSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current flag values as a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := preset.NewStore("")
		if err != nil {
			return err
		}
		p := &preset.Preset{
			Description: presetSaveDescription,
			Provider:    flagProvider,
			Model:       flagModel,
			Language:    flagLanguage,
			Format:      flagFormat,
			Timeout:     presetSaveTimeout,
		}
		if err := store.Save(args[0], p); err != nil {
			return err
		}
		fmt.Printf("saved preset %q to %s\n", args[0], store.Dir())
		return nil
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := preset.NewStore("")
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted preset %q\n", args[0])
		return nil
	},
}

func init() {
	presetSaveCmd.Flags().StringVar(&presetSaveDescription, "description", "", "preset description")
	presetSaveCmd.Flags().DurationVar(&presetSaveTimeout, "timeout", 0, "request timeout to store in the preset")
	presetCmd.AddCommand(presetListCmd, presetSaveCmd, presetDeleteCmd)
	rootCmd.AddCommand(presetCmd)
}
