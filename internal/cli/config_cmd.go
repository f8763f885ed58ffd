package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/oxcheck/internal/config"
	"github.com/aidanlsb/oxcheck/internal/paths"
)

type globalConfigContext struct {
	cfg          *config.Config
	configPath   string
	configExists bool
}

var (
	configSetVanilla  string
	configSetUIAccent string
	configSetMods     []string

	configUnsetVanilla  bool
	configUnsetUIAccent bool
	configUnsetMods     []string
)

func loadGlobalConfigContextAllowMissing() (*globalConfigContext, error) {
	path := config.ResolveConfigPath(configPath)
	_, statErr := os.Stat(path)
	if statErr != nil && !os.IsNotExist(statErr) {
		return nil, statErr
	}

	loadedCfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	return &globalConfigContext{
		cfg:          loadedCfg,
		configPath:   path,
		configExists: statErr == nil,
	}, nil
}

func configData(ctx *globalConfigContext) map[string]interface{} {
	mods := make(map[string]string)
	for name, path := range ctx.cfg.Mods {
		mods[name] = path
	}

	return map[string]interface{}{
		"config_path":  ctx.configPath,
		"exists":       ctx.configExists,
		"vanilla_path": strings.TrimSpace(ctx.cfg.VanillaPath),
		"mods":         mods,
		"ui": map[string]interface{}{
			"accent": strings.TrimSpace(ctx.cfg.UI.Accent),
		},
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	ctx, err := loadGlobalConfigContextAllowMissing()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}

	if isJSONOutput() {
		outputSuccess(configData(ctx), nil)
		return nil
	}

	if !ctx.configExists {
		fmt.Printf("Config file does not exist: %s\n", ctx.configPath)
		fmt.Println("Run 'oxc config init' to create it.")
		return nil
	}

	fmt.Printf("config: %s\n", ctx.configPath)
	if v := strings.TrimSpace(ctx.cfg.VanillaPath); v != "" {
		fmt.Printf("vanilla_path: %s\n", v)
	}
	if v := strings.TrimSpace(ctx.cfg.UI.Accent); v != "" {
		fmt.Printf("ui.accent: %s\n", v)
	}

	if len(ctx.cfg.Mods) == 0 {
		fmt.Println("mods: (none)")
		return nil
	}
	names := make([]string, 0, len(ctx.cfg.Mods))
	for name := range ctx.cfg.Mods {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("mods:")
	for _, name := range names {
		fmt.Printf("  %s = %s\n", name, ctx.cfg.Mods[name])
	}
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage global oxcheck config.toml settings",
	Long: `Manage global oxcheck config.toml settings.

The global config holds the default vanilla ruleset, short names for mods and
UI preferences. Per-mod settings live in oxcheck.yaml.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default global config.toml if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		targetPath := config.ResolveConfigPath(configPath)
		created, err := config.CreateDefault(targetPath)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": targetPath,
				"created":     created,
			}, nil)
			return nil
		}

		if created {
			fmt.Printf("Created config: %s\n", targetPath)
		} else {
			fmt.Printf("Config already exists: %s\n", targetPath)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set one or more global config.toml fields",
	Long: `Set one or more global config.toml fields.

Examples:
  oxc config set --vanilla-path ~/openxcom/standard/xcom1
  oxc config set --mod-name piratez=~/openxcom/user/mods/Piratez
  oxc config set --ui-accent 39`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadGlobalConfigContextAllowMissing()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		changed := make([]string, 0, 3)

		if cmd.Flags().Changed("vanilla-path") {
			value := strings.TrimSpace(configSetVanilla)
			if value == "" {
				return handleErrorMsg(ErrInvalidInput, "vanilla cannot be empty; use 'oxc config unset --vanilla-path' to clear it", "")
			}
			abs, err := paths.Clean(value)
			if err != nil {
				return handleError(ErrInvalidInput, err, "")
			}
			ctx.cfg.VanillaPath = abs
			changed = append(changed, "vanilla_path")
		}

		for _, pair := range configSetMods {
			name, path, ok := strings.Cut(pair, "=")
			name, path = strings.TrimSpace(name), strings.TrimSpace(path)
			if !ok || name == "" || path == "" {
				return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("invalid --mod-name %q", pair), "Use --mod-name name=/path/to/mod")
			}
			abs, err := paths.Clean(path)
			if err != nil {
				return handleError(ErrInvalidInput, err, "")
			}
			if ctx.cfg.Mods == nil {
				ctx.cfg.Mods = make(map[string]string)
			}
			ctx.cfg.Mods[name] = abs
			changed = append(changed, "mods."+name)
		}

		if cmd.Flags().Changed("ui-accent") {
			value := strings.TrimSpace(configSetUIAccent)
			if value == "" {
				return handleErrorMsg(ErrInvalidInput, "ui-accent cannot be empty; use 'oxc config unset --ui-accent' to clear it", "")
			}
			ctx.cfg.UI.Accent = value
			changed = append(changed, "ui.accent")
		}

		if len(changed) == 0 {
			return handleErrorMsg(ErrMissingArgument, "no fields provided; set at least one --vanilla-path/--mod-name/--ui-accent", "")
		}

		if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		ctx.configExists = true
		if isJSONOutput() {
			data := configData(ctx)
			data["changed"] = changed
			outputSuccess(data, nil)
			return nil
		}

		fmt.Printf("Updated config: %s\n", ctx.configPath)
		fmt.Printf("changed: %s\n", strings.Join(changed, ", "))
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset",
	Short: "Clear one or more global config.toml fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadGlobalConfigContextAllowMissing()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if !ctx.configExists {
			return handleErrorMsg(ErrFileReadError, fmt.Sprintf("config file not found: %s", ctx.configPath), "Run 'oxc config init' first")
		}

		changed := make([]string, 0, 3)
		if configUnsetVanilla {
			ctx.cfg.VanillaPath = ""
			changed = append(changed, "vanilla_path")
		}
		for _, name := range configUnsetMods {
			if _, ok := ctx.cfg.Mods[name]; !ok {
				return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("mod %q is not configured", name), "Run 'oxc config show' to list mods")
			}
			delete(ctx.cfg.Mods, name)
			changed = append(changed, "mods."+name)
		}
		if configUnsetUIAccent {
			ctx.cfg.UI.Accent = ""
			changed = append(changed, "ui.accent")
		}

		if len(changed) == 0 {
			return handleErrorMsg(ErrMissingArgument, "no fields selected; pass one or more unset flags", "")
		}

		if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			data := configData(ctx)
			data["changed"] = changed
			outputSuccess(data, nil)
			return nil
		}

		fmt.Printf("Updated config: %s\n", ctx.configPath)
		fmt.Printf("cleared: %s\n", strings.Join(changed, ", "))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current global config.toml values",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})

	configSetCmd.Flags().StringVar(&configSetVanilla, "vanilla-path", "", "Set the default vanilla ruleset directory")
	configSetCmd.Flags().StringArrayVar(&configSetMods, "mod-name", nil, "Add a mod short name (name=/path/to/mod, repeatable)")
	configSetCmd.Flags().StringVar(&configSetUIAccent, "ui-accent", "", "Set UI accent color (ANSI 0-255 or #RRGGBB)")

	configUnsetCmd.Flags().BoolVar(&configUnsetVanilla, "vanilla-path", false, "Clear vanilla_path")
	configUnsetCmd.Flags().StringArrayVar(&configUnsetMods, "mod-name", nil, "Remove a mod short name (repeatable)")
	configUnsetCmd.Flags().BoolVar(&configUnsetUIAccent, "ui-accent", false, "Clear ui.accent")

	rootCmd.AddCommand(configCmd)
}
