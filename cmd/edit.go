package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/menu-studio/internal/audit"
	"github.com/ziadkadry99/menu-studio/internal/mutator"
)

var editCmd = &cobra.Command{
	Use:   "edit <command-json>",
	Short: "Apply one edit command to the menu",
	Long: `Applies an edit command given as JSON, or read from stdin when the
argument is "-". Examples:

  menustudio edit '{"op":"set_menu_field","field":"title","value":"Da Mario"}'
  menustudio edit '{"op":"move_section","section":2,"toSection":0}'
  menustudio edit '{"op":"set_highlight","section":0,"item":1,"value":true}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := []byte(args[0])
		if args[0] == "-" {
			var err error
			if raw, err = io.ReadAll(os.Stdin); err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
		}
		var c mutator.Command
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("parsing command: %w", err)
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = a.session.Execute(cmd.Context(), c)
		if errors.Is(err, mutator.ErrInvalidCommand) {
			return err
		}
		if err := a.warnPersist(err); err != nil {
			return err
		}
		a.record(cmd.Context(), audit.Command(audit.SourceCLI, c))
		fmt.Printf("Applied %s.\n", c.Op)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
