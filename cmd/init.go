package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/menu-studio/internal/audit"
	"github.com/ziadkadry99/menu-studio/internal/config"
	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/onboarding"
	"github.com/ziadkadry99/menu-studio/internal/presets"
)

var (
	initReconfigure bool
	initAI          bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Configure menustudio and create your first menu",
	Long: `Runs an interactive wizard. It writes .menustudio.yml when there is none
(or with --reconfigure), then starts the menu from scratch or from a text
file, optionally styled with a restaurant type and a seasonal vibe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); initReconfigure || errors.Is(err, os.ErrNotExist) {
			if _, err := config.RunWizard(cfgFile); err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.session.State().HasOnboarded {
			ok, err := confirm("A menu already exists. Replace it")
			if err != nil || !ok {
				return err
			}
		}

		cat := presets.Default()
		plan, err := onboarding.AskPlan(ctx, onboarding.Terminal{}, cat)
		if err != nil {
			return err
		}
		imp, err := a.importer(initAI)
		if err != nil {
			return err
		}

		// Import runs outside the session so a slow LLM call holds no lock.
		flow := onboarding.Flow{Importer: imp, Presets: cat, Mutator: a.session.Mutator()}
		next, err := flow.Complete(ctx, a.session.State(), plan)
		if err != nil {
			return err
		}
		st, err := a.session.Apply(ctx, func(menu.AppState) menu.AppState { return next })
		if err := a.warnPersist(err); err != nil {
			return err
		}

		a.record(ctx, audit.Entry{
			Action:  audit.ActionOnboarding,
			Target:  strings.Trim(plan.Restaurant+" "+plan.Vibe, " "),
			Summary: fmt.Sprintf("Onboarded with %d section(s)", len(st.Menu.Sections)),
		})
		fmt.Printf("Menu %q ready with %d section(s).\n", st.Menu.Title, len(st.Menu.Sections))
		fmt.Println("Run `menustudio server` to open the editor or `menustudio export all` to export it.")
		return nil
	},
}

// confirm asks a yes/no question. Ctrl-C and "n" both answer no.
func confirm(label string) (bool, error) {
	_, err := (&promptui.Prompt{Label: label, IsConfirm: true}).Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort), errors.Is(err, promptui.ErrInterrupt):
		return false, nil
	}
	return false, err
}

func init() {
	initCmd.Flags().BoolVar(&initReconfigure, "reconfigure", false, "run the config wizard even if a config file exists")
	initCmd.Flags().BoolVar(&initAI, "ai", false, "structure imported text with the configured LLM")
	rootCmd.AddCommand(initCmd)
}
