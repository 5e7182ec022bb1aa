package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/menu-studio/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "menustudio",
	Short: "Design restaurant menus and export them for print and social media",
	Long: `Menu Studio keeps one restaurant menu and its brand profile, renders it
as a phone page, an A4 print page, a 9:16 story or a carousel, and exports
PNG images and a standalone HTML page. Edit it from the command line, the
browser editor served by "menustudio server", or an AI agent over MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
