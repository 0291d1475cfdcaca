package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/scriv/internal/config"
	clierrors "github.com/ariel-frischer/scriv/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect scriv settings",
	Long: `Inspect scriv settings.

Settings are loaded with the following priority (highest to lowest):
  1. Environment variables (SCRIV_*)
  2. scriv.ini in the fragment directory
  3. [tool.scriv] in pyproject.toml
  4. [scriv] or [tool.scriv] in tox.ini
  5. [scriv] or [tool.scriv] in setup.cfg
  6. Built-in defaults`,
	Example: `  # Show the effective settings
  scriv config show

  # Show one setting
  scriv config show categories

  # List every setting
  scriv config keys`,
}

var configShowCmd = &cobra.Command{
	Use:   "show [key]",
	Short: "Show the effective settings as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigShow,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the available settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, key := range config.SortedKeys() {
			schema := config.KnownKeys[key]
			typ := schema.Type.String()
			if len(schema.AllowedValues) > 0 {
				typ = strings.Join(schema.AllowedValues, "|")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-22s %-7s %s\n", key, typ, schema.Description)
		}
		return nil
	},
}

var configTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print a [scriv] section with every default",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprint(cmd.OutOrStdout(), config.GetDefaultConfigTemplate())
		return nil
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration
	configCmd.AddCommand(configShowCmd, configKeysCmd, configTemplateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var value any = cfg
	if len(args) == 1 {
		key := args[0]
		if _, err := config.GetKeySchema(key); err != nil {
			return clierrors.NewArgumentError(err.Error(), "List the settings with: scriv config keys")
		}
		values, err := configMap(cfg)
		if err != nil {
			return toCLIError(err)
		}
		value = values[key]
	}

	out, err := yaml.Marshal(value)
	if err != nil {
		return toCLIError(fmt.Errorf("encoding settings: %w", err))
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// configMap returns the settings keyed by their names in config files.
func configMap(cfg *config.Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
