package cmd

import (
	"casebook/config"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configCreateForce bool
	configDeleteYes   bool
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Write the example casebook configuration to the active config path.

An existing file is kept unless --force is given.`,
	Example: `
  # Create default config at $HOME/.casebook.yaml
  casebook config create

  # Reset a custom config to the template
  casebook --configFile ./casebook.yaml config create --force
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return createConfigFile(cfgFile, viper.ConfigFileUsed(), configCreateForce)
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active casebook config file in $VISUAL, $EDITOR or vi.

A missing config file is created from the example template first.
The edited content is validated before the command returns.`,
	Example: `
  # Edit active config
  casebook config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configFilePath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		created, err := writeConfigTemplate(path, false)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("No config file found. Created example config at: %s\n", path)
		}

		editor, err := editorCommand(editorFromEnv(os.Getenv("VISUAL"), os.Getenv("EDITOR")), path)
		if err != nil {
			return err
		}
		editor.Stdin = os.Stdin
		editor.Stdout = os.Stdout
		editor.Stderr = os.Stderr
		if err := editor.Run(); err != nil {
			return fmt.Errorf("run editor: %w", err)
		}

		if err := validateConfigFile(path); err != nil {
			return err
		}
		fmt.Printf("Configuration saved and validated: %s\n", path)
		return nil
	},
}

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently loaded by casebook.

The command asks for confirmation unless --yes is given.`,
	Example: `
  # Delete active config
  casebook config delete

  # Delete a custom config without prompting
  casebook --configFile ./casebook.yaml config delete --yes
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.ConfigFileUsed()
		if path == "" {
			return fmt.Errorf("no configuration file found")
		}

		if !configDeleteYes {
			confirmed, err := confirmPrompt(deletePromptInput, deletePromptOutput, fmt.Sprintf("Delete configuration file %q? Type Y to confirm: ", path))
			if err != nil {
				return err
			}
			if !confirmed {
				return fmt.Errorf("config delete aborted: confirmation was not 'Y'")
			}
		}

		if err := os.Remove(path); err != nil {
			return fmt.Errorf("delete configuration file: %w", err)
		}
		fmt.Printf("Configuration file deleted: %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configCreateCmd, configEditCmd, configDeleteCmd)

	configCreateCmd.Flags().BoolVar(&configCreateForce, "force", false, "Overwrite an existing config file with the template")
	configDeleteCmd.Flags().BoolVarP(&configDeleteYes, "yes", "y", false, "Delete without confirmation")
}

func createConfigFile(flagPath, usedPath string, force bool) error {
	path, err := configFilePath(flagPath, usedPath)
	if err != nil {
		return err
	}

	created, err := writeConfigTemplate(path, force)
	if err != nil {
		return err
	}
	if !created {
		fmt.Printf("Config file already exists at: %s\n", path)
		return nil
	}
	fmt.Printf("Config file written to: %s\n", path)
	return nil
}

// configFilePath picks --configFile, then the file viper loaded, then
// $HOME/.casebook.yaml.
func configFilePath(flagPath, usedPath string) (string, error) {
	if strings.TrimSpace(flagPath) != "" {
		return flagPath, nil
	}
	if strings.TrimSpace(usedPath) != "" {
		return usedPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".casebook.yaml"), nil
}

func writeConfigTemplate(path string, force bool) (bool, error) {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return false, nil
		}
		if !os.IsNotExist(err) {
			return false, fmt.Errorf("stat config file: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("write config template: %w", err)
	}
	return true, nil
}

func validateConfigFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if _, err := config.ValidateYAMLContent(content); err != nil {
		return fmt.Errorf("config validation failed in %s: %w", path, err)
	}
	return nil
}

func editorFromEnv(visual, editor string) string {
	if strings.TrimSpace(visual) != "" {
		return visual
	}
	if strings.TrimSpace(editor) != "" {
		return editor
	}
	return "vi"
}

// editorCommand splits an editor value like "code --wait" and appends path.
func editorCommand(editor, path string) (*exec.Cmd, error) {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}
	args := append(fields[1:], path)
	return exec.Command(fields[0], args...), nil
}
