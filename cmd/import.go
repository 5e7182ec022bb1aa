package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/menu-studio/internal/audit"
	"github.com/ziadkadry99/menu-studio/internal/menu"
)

var importAI bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the menu content with a menu parsed from a text file",
	Long: `Reads a plain-text menu, one dish per line with its price, and replaces
the sections and items of the current menu. Upper-case lines and lines
ending with ":" start a new section. With --ai the configured LLM
structures the text, falling back to the line rules if it fails.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		imp, err := a.importer(importAI)
		if err != nil {
			return err
		}
		fm, err := imp.Import(cmd.Context(), string(data))
		if err != nil {
			return fmt.Errorf("importing %s: %w", args[0], err)
		}
		st, err := a.session.Apply(cmd.Context(), func(st menu.AppState) menu.AppState {
			return a.session.Mutator().ReplaceMenu(st, fm)
		})
		if err := a.warnPersist(err); err != nil {
			return err
		}

		items := 0
		for _, s := range st.Menu.Sections {
			items += len(s.Items)
		}
		summary := fmt.Sprintf("Imported %d section(s) and %d item(s)", len(st.Menu.Sections), items)
		a.record(cmd.Context(), audit.Entry{Action: audit.ActionImport, Target: args[0], Summary: summary})
		fmt.Println(summary + ".")
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importAI, "ai", false, "structure the text with the configured LLM")
	rootCmd.AddCommand(importCmd)
}
