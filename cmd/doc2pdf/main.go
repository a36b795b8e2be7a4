// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doc2pdf CLI. The serve subcommand
// runs the HTTP conversion service; convert performs a single local
// conversion with the same backend.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc2pdf/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the doc2pdf CLI.
var rootCmd = &cobra.Command{
	Use:   "doc2pdf",
	Short: "Convert office documents to PDF over HTTP",
	Long: `doc2pdf accepts base64-encoded documents on POST /convert, renders them to
PDF with LibreOffice (or a Gotenberg instance) and answers with the PDF as
base64 text.

Configuration is read from doc2pdf.yaml in the working directory or
~/.config/doc2pdf/, and every key can be overridden with a DOC2PDF_ variable,
for example DOC2PDF_SERVER_ADDR=:8080.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./doc2pdf.yaml or ~/.config/doc2pdf/doc2pdf.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doc2pdf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doc2pdf"))
		}
	}

	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("DOC2PDF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults registers every configuration key so that environment
// variables are honoured by Unmarshal even when no config file sets them.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.max_body_size", d.Server.MaxBodySize)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("conversion.backend", string(d.Conversion.Backend))
	v.SetDefault("conversion.work_dir", d.Conversion.WorkDir)
	v.SetDefault("conversion.timeout", d.Conversion.Timeout)
	v.SetDefault("conversion.max_concurrent", d.Conversion.MaxConcurrent)
	v.SetDefault("conversion.soffice_path", d.Conversion.SofficePath)
	v.SetDefault("conversion.gotenberg_url", d.Conversion.GotenbergURL)
	v.SetDefault("conversion.secrets_dir", d.Conversion.SecretsDir)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.dir", d.Logging.Dir)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", d.Logging.Compress)
	v.SetDefault("logging.disable_file", d.Logging.DisableFile)
}

// loadConfig resolves the effective configuration from defaults, the config
// file, environment variables and bound flags, in increasing precedence.
func loadConfig(v *viper.Viper) (types.Config, error) {
	setDefaults(v)

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
