/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"github.com/spf13/viper"
	"os"
	"strings"

	"casebook/config"
	"casebook/logging"
	"github.com/spf13/cobra"
)

var cfgFile string

// activeConfig is the validated config of the running command, set before
// RunE of every command for which requiresConfig is true.
var activeConfig *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "casebook",
	Short: "Bulk-load clinic clients and assessors from CSV and Excel files.",
	Long: `
**********************************************
*                CASEBOOK                    *
**********************************************

This CLI imports client and assessor lists (CSV, Excel) into the local SQLite
case database, reports every rejected or duplicate row, and exports stored
records back to CSV or Excel.

Supported input formats:
- CSV: .csv (UTF-8, optional BOM, first non-blank line is the header row)
- Excel: .xlsx, .xlsm (first sheet)
`,
	Example: `
  # Create configuration file
  casebook config create

  # Import clients and write a report of rejected rows
  casebook import --entity client -i clients.csv --report ./clients-report.csv

  # Import assessors from Excel
  casebook import --entity assessor -i assessors.xlsx

  # Export stored clients
  casebook export --entity client --output ./clients.xlsx
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.casebook.yaml, then ./.casebook.yaml)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !requiresConfig(cmd) {
			return nil
		}

		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		activeConfig = cfg
		return nil
	}
}

// requiresConfig reports whether cmd is a top-level command that works on
// the database and therefore needs a validated config.
func requiresConfig(cmd *cobra.Command) bool {
	if cmd == nil || cmd.Parent() != rootCmd {
		return false
	}
	switch cmd.Name() {
	case "import", "export", "delete":
		return true
	default:
		return false
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".casebook" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".casebook")
	}

	viper.SetEnvPrefix("CASEBOOK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: casebook config create")
	}
}

// resolveDBPath prefers an explicit --db flag over the configured path.
func resolveDBPath(flagValue string, cfg *config.Config) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	return cfg.Database.Path
}

func newLogger(cfg *config.Config) logging.Logger {
	return logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
}
