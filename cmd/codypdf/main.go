// Package main is the entry point for the codypdf CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the codypdf CLI.
var rootCmd = &cobra.Command{
	Use:   "codypdf",
	Short: "Convert documents and images to PDF",
	Long: `codypdf converts documents, images, and markup files to PDF.

Each input file produces one PDF named after its source. Office and
OpenDocument formats are converted through LibreOffice, HTML and Markdown
are rendered in a headless browser, and text and images are laid out
directly. Produced PDFs can optionally be concatenated into a single file.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./codypdf.yaml or ~/.config/codypdf/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("codypdf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "codypdf"))
		}
	}

	viper.SetEnvPrefix("CODYPDF")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
