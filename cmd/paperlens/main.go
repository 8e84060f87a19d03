// Package main is the entry point for the paperlens terminal client.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/csheth/paperlens/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd runs the wizard.
var rootCmd = &cobra.Command{
	Use:   "paperlens",
	Short: "Search, visualize and export research papers",
	Long: `paperlens is a terminal client for a local paper-search host. It walks
through three steps: search the literature, generate charts from the results,
and export them as CSV, Excel, JSON or PDF.

The host is reached over HTTP at bridge.endpoint. Preferences and search
history persist in the backend chosen by state.backend.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperlens.yaml or ~/.config/paperlens/paperlens.yaml)")
	rootCmd.PersistentFlags().String("endpoint", "", "bridge host URL (overrides bridge.endpoint)")
	rootCmd.PersistentFlags().String("state-backend", "", "where preferences persist: file, sqlite, redis or memory")
	rootCmd.Flags().Bool("no-alt-screen", false, "disable the alternate screen buffer")

	_ = viper.BindPFlag("bridge.endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))
	_ = viper.BindPFlag("state.backend", rootCmd.PersistentFlags().Lookup("state-backend"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperlens")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperlens"))
		}
	}

	v := viper.GetViper()
	config.SetDefaults(v)
	config.BindEnv(v)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "config:", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
