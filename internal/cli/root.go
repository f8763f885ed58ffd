// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/oxcheck/internal/config"
	"github.com/aidanlsb/oxcheck/internal/paths"
	"github.com/aidanlsb/oxcheck/internal/ui"
)

var (
	// Global flags
	modFlag     string // mod root or a name from [mods]
	vanillaFlag string // explicit vanilla ruleset directory
	configPath  string

	// Resolved values
	resolvedModPath    string
	resolvedConfigPath string
	cfg                *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "oxc",
	Short: "oxcheck - cross-reference checker for OpenXcom mods",
	Long: `oxcheck validates OpenXcom ruleset mods against their vanilla base.

It reports references to things that do not exist, duplicate definitions and
rule combinations the engine is known to reject, with exact file positions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Fix or remove the file passed with --config")
		}
		ui.ConfigureTheme(cfg.UI.Accent)

		// Commands that never touch a mod.
		switch cmd.Name() {
		case "version", "help", "completion", "config":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}

		mod := strings.TrimSpace(modFlag)
		if mod == "" {
			mod = "."
		}
		resolvedModPath, err = paths.Clean(cfg.ResolveMod(mod))
		if err != nil {
			return handleError(ErrModNotFound, err, "")
		}

		// init may create the directory.
		if cmd.Name() == "init" {
			return nil
		}
		if info, err := os.Stat(resolvedModPath); err != nil || !info.IsDir() {
			return handleErrorMsg(ErrModNotFound,
				fmt.Sprintf("mod not found: %s", resolvedModPath),
				"Pass --mod <path> or run oxc from inside the mod directory")
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !isSilent(err) {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&modFlag, "mod", "m", "", "Mod directory or configured mod name (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&vanillaFlag, "vanilla", "", "Vanilla ruleset directory (overrides oxcheck.yaml and config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for editor/script use)")
}

// getModPath returns the resolved mod root.
func getModPath() string {
	return resolvedModPath
}

// getConfig returns the loaded global config.
func getConfig() *config.Config {
	return cfg
}

// getConfigPath returns the resolved global config path.
func getConfigPath() string {
	return resolvedConfigPath
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)

	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	return loadedCfg, resolvedPath, nil
}
