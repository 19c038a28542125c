package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage casebook configuration file values.",
	Long: `Create, edit, display, and delete the casebook configuration file.

The configuration stores application-wide values:
- database.path
- log.level / log.format
- import.strict_durability / import.report_format`,
	Example: `
  # Create default config in $HOME/.casebook.yaml
  casebook config create

  # Show active config and source file
  casebook config show

  # Open active config in editor (creates example if missing)
  casebook config edit

  # Delete active config file
  casebook config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
