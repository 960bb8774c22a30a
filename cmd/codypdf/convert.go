package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codypdf/internal/config"
	"codypdf/internal/converter"
	"codypdf/internal/manager"
	"codypdf/internal/security"
	"codypdf/internal/util"
	"codypdf/internal/worker"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert the given files to PDF",
	Long: `Convert produces one PDF per input file, named after its source with a
" (N)" suffix on collision. Unsupported and infected files are skipped with
a warning; a failed conversion does not abort the rest of the run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromViper()
		start := time.Now()

		if !cfg.BesideSource {
			if cfg.OutputDir == "" {
				return errors.New("an output directory is required unless --beside-source is set")
			}
			info, err := os.Stat(cfg.OutputDir)
			if err != nil {
				return fmt.Errorf("output directory: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("output directory %s is not a directory", cfg.OutputDir)
			}
		}

		var scanner *security.Scanner
		if cfg.Scan {
			scanner = security.NewScanner(cfg.ClamdAddress)
			if !scanner.IsEnabled() {
				fmt.Fprintf(os.Stderr, "warning: clamd not reachable at %s, scanning disabled\n", cfg.ClamdAddress)
			}
		}

		registry := converter.NewRegistry(converter.NewChromeRenderer())
		runner := worker.NewRunner(registry, scanner)
		mgr := manager.NewManager(cfg, runner, os.Stdout)

		_, err := mgr.Run(args)

		if cfg.Diagnose {
			util.LogDiagnostics(start)
		}
		return err
	},
}

func init() {
	convertCmd.Flags().StringP("out-dir", "o", "", "directory for produced PDFs")
	convertCmd.Flags().Bool("beside-source", false, "write each PDF next to its source file")
	convertCmd.Flags().Bool("merge", false, "concatenate all produced PDFs into one file")
	convertCmd.Flags().Bool("scan", false, "scan source files with ClamAV before converting")
	convertCmd.Flags().String("clamd", "localhost:3310", "address of the clamd daemon")
	convertCmd.Flags().Bool("verbose", false, "report each produced PDF as it is written")
	convertCmd.Flags().Bool("diagnose", false, "log runtime diagnostics after the run")

	viper.BindPFlag("out-dir", convertCmd.Flags().Lookup("out-dir"))
	viper.BindPFlag("beside-source", convertCmd.Flags().Lookup("beside-source"))
	viper.BindPFlag("merge", convertCmd.Flags().Lookup("merge"))
	viper.BindPFlag("scan", convertCmd.Flags().Lookup("scan"))
	viper.BindPFlag("clamd", convertCmd.Flags().Lookup("clamd"))
	viper.BindPFlag("verbose", convertCmd.Flags().Lookup("verbose"))
	viper.BindPFlag("diagnose", convertCmd.Flags().Lookup("diagnose"))

	rootCmd.AddCommand(convertCmd)
}
