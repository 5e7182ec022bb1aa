package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		st := a.session.State()

		if showJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}

		m := st.Menu
		fmt.Printf("%s\n", m.Title)
		if m.Subtitle != "" {
			fmt.Printf("  %s\n", m.Subtitle)
		}
		if m.FixedPrice != "" {
			fmt.Printf("  Fixed price: %s\n", m.FixedPrice)
		}
		for i, sec := range m.Sections {
			fmt.Printf("\n[%d] %s\n", i, sec.Title)
			for j, it := range sec.Items {
				star := " "
				if it.Highlight {
					star = "*"
				}
				fmt.Printf("  %s[%d] %-40s %s\n", star, j, it.Name, it.Price)
			}
		}
		b := st.Brand
		fmt.Printf("\nBrand: background %s, text %s, primary %s, accent %s\n", b.BackgroundColor, b.TextColor, b.PrimaryColor, b.AccentColor)
		fmt.Printf("Fonts: title %s, body %s\n", b.FontTitle, b.FontBody)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the full document as JSON")
	rootCmd.AddCommand(showCmd)
}
