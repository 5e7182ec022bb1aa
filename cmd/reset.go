package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/menu-studio/internal/audit"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the menu and start over",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			ok, err := confirm("Discard the current menu and brand")
			if err != nil || !ok {
				return err
			}
		}
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = a.session.Reset(cmd.Context())
		if err := a.warnPersist(err); err != nil {
			return err
		}
		a.record(cmd.Context(), audit.Entry{Action: audit.ActionReset, Summary: "Reset the menu"})
		fmt.Println("Menu reset. Run `menustudio init` to start a new one.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(resetCmd)
}
