package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/oxcheck/internal/atomicfile"
	"github.com/aidanlsb/oxcheck/internal/config"
	"github.com/aidanlsb/oxcheck/internal/paths"
	"github.com/aidanlsb/oxcheck/internal/ui"
)

var initGlobal bool

// InitResult is the JSON payload of `oxc init`.
type InitResult struct {
	Mod           string `json:"mod"`
	ProjectConfig bool   `json:"project_config_created"`
	GlobalConfig  bool   `json:"global_config_created,omitempty"`
	Gitignore     string `json:"gitignore"`
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up oxcheck for a mod",
	Long: `Creates the oxcheck files for the mod selected with --mod (default: the
current directory).

Creates:
  - oxcheck.yaml  (project configuration)
  - .oxcheck/     (run history)
  - .gitignore    (ignores .oxcheck/)

With --global the global config.toml is created too.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		modPath := getModPath()

		if err := os.MkdirAll(filepath.Join(modPath, paths.DataDir), 0o755); err != nil {
			return handleError(ErrFileWriteError, fmt.Errorf("failed to create %s directory: %w", paths.DataDir, err), "")
		}

		gitignoreStatus, err := ensureGitignore(modPath)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		createdConfig, err := config.CreateDefaultProjectConfig(modPath)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		result := InitResult{Mod: modPath, ProjectConfig: createdConfig, Gitignore: gitignoreStatus}
		if initGlobal {
			result.GlobalConfig, err = config.CreateDefault(getConfigPath())
			if err != nil {
				return handleError(ErrFileWriteError, err, "")
			}
		}

		if isJSONOutput() {
			outputSuccess(result, nil)
			return nil
		}

		fmt.Printf("Initializing oxcheck in: %s\n", ui.FilePath(modPath))
		if createdConfig {
			fmt.Println(ui.Success("Created " + config.ProjectFile))
		} else {
			fmt.Println("• " + config.ProjectFile + " already exists (kept)")
		}
		fmt.Println(ui.Success("Ensured " + paths.DataDir + "/ directory exists"))

		switch gitignoreStatus {
		case "created":
			fmt.Println(ui.Success("Created .gitignore"))
		case "updated":
			fmt.Println(ui.Success("Updated .gitignore (added " + paths.DataDir + "/)"))
		default:
			fmt.Println("• .gitignore already ignores " + paths.DataDir + "/")
		}

		if initGlobal {
			if result.GlobalConfig {
				fmt.Println(ui.Success("Created " + getConfigPath()))
			} else {
				fmt.Println("• " + getConfigPath() + " already exists (kept)")
			}
		}

		fmt.Println()
		fmt.Println(ui.Hint("Set vanilla_path in " + config.ProjectFile + ", then run 'oxc check'"))
		return nil
	},
}

// ensureGitignore makes sure the mod's .gitignore ignores the data dir.
// Returns "created", "updated" or "unchanged".
func ensureGitignore(modPath string) (string, error) {
	gitignorePath := filepath.Join(modPath, ".gitignore")
	entry := paths.DataDir + "/"

	existing := ""
	if data, err := os.ReadFile(gitignorePath); err == nil {
		existing = string(data)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read .gitignore: %w", err)
	}

	for _, line := range strings.Split(existing, "\n") {
		if strings.TrimSpace(line) == entry {
			return "unchanged", nil
		}
	}

	status := "updated"
	var content string
	if existing == "" {
		status = "created"
		content = "# oxcheck run history\n" + entry + "\n"
	} else {
		content = strings.TrimRight(existing, "\n") + "\n\n# oxcheck\n" + entry + "\n"
	}
	if err := atomicfile.WriteFile(gitignorePath, []byte(content), 0); err != nil {
		return "", fmt.Errorf("failed to write .gitignore: %w", err)
	}
	return status, nil
}

func init() {
	initCmd.Flags().BoolVar(&initGlobal, "global", false, "Also create the global config file")
	rootCmd.AddCommand(initCmd)
}
