package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/menu-studio/internal/export"
	"github.com/ziadkadry99/menu-studio/internal/progress"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the menu as images or HTML",
	Long: `Writes export files into the export directory (export_dir in the config,
or --out):

  story     menu-export-storia.png, 1080x1920
  print     menu-export-a4.png, A4 portrait with QR code
  carousel  01-copertina.png, one slide per section, 99-contatti.png
  html      menu-export.html, a standalone page
  all       every format above`,
}

func exportKindCmd(use string, kinds ...export.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Export the %s", use),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, kinds)
		},
	}
}

func runExport(cmd *cobra.Command, kinds []export.Kind) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	dir := exportDir
	if dir == "" {
		dir = a.cfg.ExportDir
	}
	cs, err := a.capture()
	if err != nil {
		return err
	}
	st := a.session.State()

	for _, kind := range kinds {
		e := a.exporter(cs, export.DirSink{Dir: dir}, progress.NewReporter(fmt.Sprintf("Exporting %s", kind)))
		files, err := e.Run(ctx, kind, st)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Printf("  %s\n", filepath.Join(dir, f.Name))
		}
	}
	return nil
}

func init() {
	exportCmd.PersistentFlags().StringVarP(&exportDir, "out", "o", "", "directory to write files into (default export_dir)")
	exportCmd.AddCommand(
		exportKindCmd("story", export.KindStory),
		exportKindCmd("print", export.KindPrint),
		exportKindCmd("carousel", export.KindCarousel),
		exportKindCmd("html", export.KindHTML),
		exportKindCmd("all", export.Kinds...),
	)
	rootCmd.AddCommand(exportCmd)
}
