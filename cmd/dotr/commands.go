package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotr/pkg/config"
	"github.com/arthur-debert/dotr/pkg/deploy"
	"github.com/arthur-debert/dotr/pkg/filesystem"
	"github.com/arthur-debert/dotr/pkg/uservars"
	"github.com/arthur-debert/dotr/pkg/variables"
)

func newInitCmd(workingDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a dotfiles repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveRoot(*workingDir)
			if err != nil {
				return err
			}
			fsys := filesystem.NewOS()
			if filesystem.Exists(fsys, root+"/"+config.FileName) {
				pterm.Info.Println("config.toml already exists, initialization skipped")
				return nil
			}
			if _, err := config.Init(fsys, root); err != nil {
				return err
			}
			pterm.Success.Println("repository initialized")
			return nil
		},
	}
}

func newImportCmd(workingDir *string) *cobra.Command {
	var (
		name    string
		profile string
	)
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import a dotfile into the store and register it as a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveRoot(*workingDir)
			if err != nil {
				return err
			}
			cfg, err := config.Load(filesystem.NewOS(), root)
			if err != nil {
				return err
			}
			printBanner(cfg.Banner)
			pkg, err := deploy.Import(deploy.ImportOptions{
				Root:    root,
				Config:  cfg,
				Path:    args[0],
				Name:    name,
				Profile: profile,
			})
			if err != nil {
				return err
			}
			pterm.Success.Printfln("package %q imported", pkg.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Package name (derived from the path by default)")
	cmd.Flags().StringVar(&profile, "profile", "", "Record the destination as this profile's target override")
	return cmd
}

// pipelineOptions builds the options shared by deploy, update and diff
func pipelineOptions(workingDir string, packages []string, profile string) (deploy.Options, *config.Config, error) {
	root, err := resolveRoot(workingDir)
	if err != nil {
		return deploy.Options{}, nil, err
	}
	cfg, err := config.Load(filesystem.NewOS(), root)
	if err != nil {
		return deploy.Options{}, nil, err
	}
	return deploy.Options{
		Root:     root,
		Config:   cfg,
		Packages: packages,
		Profile:  profile,
		Colorize: isatty.IsTerminal(os.Stdout.Fd()),
		Input:    uservars.NewLineReader(os.Stdin),
	}, cfg, nil
}

func reportResult(result *deploy.Result) error {
	for _, unit := range result.Failed() {
		pterm.Error.Printfln("%s: %v", unit.Unit, unit.Err)
	}
	return result.Err()
}

func newDeployCmd(workingDir *string) *cobra.Command {
	var (
		packages []string
		profile  string
	)
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy dotfiles from the store to the filesystem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := pipelineOptions(*workingDir, packages, profile)
			if err != nil {
				return err
			}
			printBanner(cfg.Banner)
			result, err := deploy.Deploy(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := reportResult(result); err != nil {
				return err
			}
			pterm.Success.Printfln("%d file(s) written", result.Written())
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&packages, "packages", "p", nil, "Packages to deploy (all non-skip packages by default)")
	cmd.Flags().StringVar(&profile, "profile", "", "Active deployment profile")
	return cmd
}

func newUpdateCmd(workingDir *string) *cobra.Command {
	var (
		packages []string
		profile  string
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Pull local edits back into the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := pipelineOptions(*workingDir, packages, profile)
			if err != nil {
				return err
			}
			printBanner(cfg.Banner)
			result, err := deploy.Update(opts)
			if err != nil {
				return err
			}
			if err := reportResult(result); err != nil {
				return err
			}
			pterm.Success.Printfln("%d file(s) updated", result.Written())
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&packages, "packages", "p", nil, "Packages to update (all non-skip packages by default)")
	cmd.Flags().StringVar(&profile, "profile", "", "Active deployment profile")
	return cmd
}

func newDiffCmd(workingDir *string) *cobra.Command {
	var (
		packages []string
		profile  string
	)
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Preview what a deploy would change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, _, err := pipelineOptions(*workingDir, packages, profile)
			if err != nil {
				return err
			}
			result, err := deploy.Diff(opts)
			if err != nil {
				return err
			}
			return reportResult(result)
		},
	}
	cmd.Flags().StringSliceVarP(&packages, "packages", "p", nil, "Packages to diff (all non-skip packages by default)")
	cmd.Flags().StringVar(&profile, "profile", "", "Active deployment profile")
	return cmd
}

func newVarsCmd(workingDir *string) *cobra.Command {
	var profile string
	cmd := &cobra.Command{
		Use:   "vars",
		Short: "Print the resolved variable context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveRoot(*workingDir)
			if err != nil {
				return err
			}
			fsys := filesystem.NewOS()
			cfg, err := config.Load(fsys, root)
			if err != nil {
				return err
			}
			var activeProfile *config.Profile
			if profile != "" {
				activeProfile, err = cfg.Profile(profile)
				if err != nil {
					return err
				}
			}
			store, err := uservars.Load(fsys, root)
			if err != nil {
				return err
			}
			ctx, err := variables.Resolve(cfg, nil, activeProfile, store.Values())
			if err != nil {
				return err
			}
			cmd.Println("Variables:")
			ctx.Fprint(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "", "Resolve with this profile active")
	return cmd
}
