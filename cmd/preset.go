package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/menu-studio/internal/audit"
	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/presets"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "List and apply brand presets",
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the brand presets by category",
	Run: func(cmd *cobra.Command, args []string) {
		for _, c := range presets.Default().Categories {
			fmt.Printf("%s\n", c.Title)
			for _, p := range c.Presets {
				fmt.Printf("  %-14s %s\n", p.ID, p.Name)
			}
		}
	},
}

var presetApplyCmd = &cobra.Command{
	Use:   "apply <id>",
	Short: "Apply a brand preset to the menu",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ok := presets.Default().Find(args[0])
		if !ok {
			return fmt.Errorf("unknown preset %q (see `menustudio preset list`)", args[0])
		}
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = a.session.Apply(cmd.Context(), func(st menu.AppState) menu.AppState {
			return a.session.Mutator().ApplyPreset(st, p.Brand)
		})
		if err := a.warnPersist(err); err != nil {
			return err
		}
		a.record(cmd.Context(), audit.Entry{Action: audit.ActionApplyPreset, Target: p.ID, Summary: "Applied preset " + p.Name})
		fmt.Printf("Applied preset %s.\n", p.Name)
		return nil
	},
}

func init() {
	presetCmd.AddCommand(presetListCmd, presetApplyCmd)
	rootCmd.AddCommand(presetCmd)
}
