// Package config holds the resolved application configuration.
package config

import "github.com/spf13/viper"

// Config holds application configuration, resolved once per invocation.
type Config struct {
	OutputDir    string // destination directory for produced PDFs
	BesideSource bool   // write each PDF next to its source file
	Merge        bool   // concatenate all produced PDFs after conversion
	Verbose      bool
	Diagnose     bool // log runtime diagnostics around the run

	// Security options
	Scan         bool   // scan source files with ClamAV before converting
	ClamdAddress string // address of the clamd daemon
}

// FromViper builds a Config from the bound flag/env/file values.
func FromViper() *Config {
	return &Config{
		OutputDir:    viper.GetString("out-dir"),
		BesideSource: viper.GetBool("beside-source"),
		Merge:        viper.GetBool("merge"),
		Verbose:      viper.GetBool("verbose"),
		Diagnose:     viper.GetBool("diagnose"),
		Scan:         viper.GetBool("scan"),
		ClamdAddress: viper.GetString("clamd"),
	}
}
