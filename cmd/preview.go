package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/menu-studio/internal/preview"
	"github.com/ziadkadry99/menu-studio/internal/render"
)

var (
	previewMode     string
	previewViewport float64
	previewSlide    string
	previewIndex    int
	previewJSON     bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the visual tree of the menu in a display mode",
	Long: `Renders the menu the way the editor shows it and prints the tree, one
node per line. Use --mode to pick normal, print, story or carousel, and
--slide/--index to pick a carousel slide.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		q := a.previewRequest()
		if previewMode != "" {
			q.Mode = render.Mode(previewMode)
		}
		if previewViewport > 0 {
			q.Viewport = previewViewport
		}
		if previewSlide != "" {
			q.Slide = render.Slide{Kind: render.SlideKind(previewSlide), Index: previewIndex}
		}

		tree, err := preview.Render(a.session.State(), q)
		if err != nil {
			return err
		}
		if previewJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(tree)
		}
		fmt.Print(render.Dump(tree))
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewMode, "mode", "", "display mode: normal, print, story or carousel")
	previewCmd.Flags().Float64Var(&previewViewport, "viewport", 0, "viewport width for normal mode")
	previewCmd.Flags().StringVar(&previewSlide, "slide", "", "carousel slide: cover, section or contacts")
	previewCmd.Flags().IntVar(&previewIndex, "index", 0, "section index of a section slide")
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "print the tree as JSON")
	rootCmd.AddCommand(previewCmd)
}
