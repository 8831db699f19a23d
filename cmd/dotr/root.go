package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotr/pkg/logging"
)

const banner = `
 ██████╗  ██████╗ ████████╗██████╗
 ██╔══██╗██╔═══██╗╚══██╔══╝██╔══██╗
 ██║  ██║██║   ██║   ██║   ██████╔╝
 ██║  ██║██║   ██║   ██║   ██╔══██╗
 ██████╔╝╚██████╔╝   ██║   ██║  ██║
 ╚═════╝  ╚═════╝    ╚═╝   ╚═╝  ╚═╝

`

// NewRootCmd builds the dotr command tree
func NewRootCmd() *cobra.Command {
	var (
		verbosity  int
		workingDir string
	)

	rootCmd := &cobra.Command{
		Use:   "dotr",
		Short: "A dotfiles manager with templates, profiles and granular deploys",
		Long: `dotr manages a repository of dotfiles: it imports files into a
version-controlled store, deploys them to their target locations and
synchronizes local edits back. Files are only written when their content
actually changed, and every overwritten destination gets a backup first.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVarP(&workingDir, "working-dir", "w", "", "Repository root (defaults to the current directory)")

	rootCmd.AddCommand(newInitCmd(&workingDir))
	rootCmd.AddCommand(newImportCmd(&workingDir))
	rootCmd.AddCommand(newDeployCmd(&workingDir))
	rootCmd.AddCommand(newUpdateCmd(&workingDir))
	rootCmd.AddCommand(newDiffCmd(&workingDir))
	rootCmd.AddCommand(newVarsCmd(&workingDir))

	return rootCmd
}

// resolveRoot turns the --working-dir flag into an absolute repository root
func resolveRoot(workingDir string) (string, error) {
	if workingDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("cannot determine current directory: %w", err)
		}
		return cwd, nil
	}
	abs, err := filepath.Abs(workingDir)
	if err != nil {
		return "", fmt.Errorf("invalid working directory %q: %w", workingDir, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("working directory %q does not exist", workingDir)
	}
	return abs, nil
}

func printBanner(show bool) {
	if show {
		pterm.Print(banner)
	}
}
