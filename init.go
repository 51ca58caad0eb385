package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phobologic/rustlint/internal/config"
)

const configHeader = `# rustlint configuration.
# Rule severities are error, warning or off. exclude takes gitignore-style
# patterns relative to the crate root.
`

func newInitCmd(stdout, stderr io.Writer) *cobra.Command {
	var dryRun, force bool
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default " + config.DefaultFileName,
		Long: `Write a config file holding every setting at its default value to dir
(default: the current directory). An existing config is left alone unless
--force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(dir, dryRun, force, stdout, stderr)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the config without writing it")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func runInit(dir string, dryRun, force bool, stdout, stderr io.Writer) error {
	content, err := generateConfig()
	if err != nil {
		return err
	}

	if dryRun {
		_, _ = fmt.Fprint(stdout, content)
		return nil
	}

	path := filepath.Join(dir, config.DefaultFileName)
	if existing := config.Discover(dir); existing != "" && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", existing)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("writing %s: directory does not exist", path)
		}
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote default config to %s\n", path)
	return nil
}

// generateConfig returns the default configuration as commented YAML.
func generateConfig() (string, error) {
	data, err := config.Marshal(config.DefaultConfig())
	if err != nil {
		return "", err
	}
	return configHeader + string(data), nil
}
