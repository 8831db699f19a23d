package deploy_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotr/pkg/deploy"
	"github.com/arthur-debert/dotr/pkg/errors"
	"github.com/arthur-debert/dotr/pkg/testutil"
)

const resolverConfig = `
[packages.bashrc]
src = "dotfiles/bashrc"
dest = "~/.bashrc"

[packages.vimrc]
src = "dotfiles/vimrc"
dest = "~/.vimrc"

[packages.ssh]
src = "dotfiles/ssh"
dest = "~/.ssh/config"
skip = true

[packages.ssh.targets]
work = "~/.ssh/config.work"

[profiles.work]
dependencies = ["ssh"]
`

func selectNames(t *testing.T, repo *testutil.Repo, requested []string, profile string) []string {
	t.Helper()
	cfg := repo.LoadConfig()
	pkgs, _, err := deploy.SelectPackages(cfg, requested, profile)
	require.NoError(t, err)
	out := make([]string, len(pkgs))
	for i, pkg := range pkgs {
		out[i] = pkg.Name
	}
	return out
}

func TestSelectPackagesDefaultExcludesSkip(t *testing.T) {
	repo := testutil.NewRepo(t)
	repo.WriteConfig(resolverConfig)

	require.Equal(t, []string{"bashrc", "vimrc"}, selectNames(t, repo, nil, ""))
}

func TestSelectPackagesProfileDependencyOverridesSkip(t *testing.T) {
	repo := testutil.NewRepo(t)
	repo.WriteConfig(resolverConfig)

	require.Equal(t, []string{"bashrc", "vimrc", "ssh"}, selectNames(t, repo, nil, "work"))
}

func TestSelectPackagesExplicitOrderPreserved(t *testing.T) {
	repo := testutil.NewRepo(t)
	repo.WriteConfig(resolverConfig)

	require.Equal(t, []string{"vimrc", "bashrc"}, selectNames(t, repo, []string{"vimrc", "bashrc"}, ""))
}

func TestSelectPackagesDeduplicatesFirstSeen(t *testing.T) {
	repo := testutil.NewRepo(t)
	repo.WriteConfig(resolverConfig)

	require.Equal(t, []string{"ssh", "bashrc"}, selectNames(t, repo, []string{"ssh", "bashrc", "ssh"}, "work"))
}

func TestSelectPackagesDeterministic(t *testing.T) {
	repo := testutil.NewRepo(t)
	repo.WriteConfig(resolverConfig)

	first := selectNames(t, repo, nil, "work")
	for i := 0; i < 5; i++ {
		require.Equal(t, first, selectNames(t, repo, nil, "work"))
	}
}

func TestSelectPackagesUnknownPackage(t *testing.T) {
	repo := testutil.NewRepo(t)
	repo.WriteConfig(resolverConfig)

	_, _, err := deploy.SelectPackages(repo.LoadConfig(), []string{"nope"}, "")
	require.Error(t, err)
	require.True(t, errors.IsErrorCode(err, errors.ErrUnknownPackage))
}

func TestSelectPackagesUnknownProfile(t *testing.T) {
	repo := testutil.NewRepo(t)
	repo.WriteConfig(resolverConfig)

	_, _, err := deploy.SelectPackages(repo.LoadConfig(), nil, "nope")
	require.Error(t, err)
	require.True(t, errors.IsErrorCode(err, errors.ErrUnknownProfile))
}

func TestExpandUnitsSingleFile(t *testing.T) {
	repo := testutil.NewRepo(t)
	repo.WriteConfig(resolverConfig)
	repo.WriteStoreFile("bashrc", "export PATH=$PATH\n")

	cfg := repo.LoadConfig()
	pkg, err := cfg.Package("bashrc")
	require.NoError(t, err)

	units, err := deploy.ExpandUnits(repo.FS, repo.Root, pkg, nil)
	require.NoError(t, err)
	require.Len(t, units, 1)
	require.Equal(t, "bashrc", units[0].Name())
	require.Equal(t, repo.StorePath("bashrc"), units[0].Source)
	require.Equal(t, repo.HomePath(".bashrc"), units[0].Dest)
	require.False(t, units[0].IsTemplate)
}

func TestExpandUnitsDirectory(t *testing.T) {
	repo := testutil.NewRepo(t)
	repo.WriteConfig(`
[packages.nvim]
src = "dotfiles/nvim"
dest = "~/.config/nvim"
`)
	repo.WriteStoreFile("nvim/init.lua", "-- init\n")
	repo.WriteStoreFile("nvim/lua/opts.lua", "-- {{editor}}\n")

	cfg := repo.LoadConfig()
	pkg, err := cfg.Package("nvim")
	require.NoError(t, err)

	units, err := deploy.ExpandUnits(repo.FS, repo.Root, pkg, nil)
	require.NoError(t, err)
	require.Len(t, units, 2)

	require.Equal(t, "nvim/init.lua", units[0].Name())
	require.Equal(t, repo.HomePath(filepath.Join(".config", "nvim", "init.lua")), units[0].Dest)
	require.False(t, units[0].IsTemplate)

	require.Equal(t, "nvim/lua/opts.lua", units[1].Name())
	require.True(t, units[1].IsTemplate)
}

func TestExpandUnitsProfileTarget(t *testing.T) {
	repo := testutil.NewRepo(t)
	repo.WriteConfig(resolverConfig)
	repo.WriteStoreFile("ssh", "Host *\n")

	cfg := repo.LoadConfig()
	pkg, err := cfg.Package("ssh")
	require.NoError(t, err)
	profile, err := cfg.Profile("work")
	require.NoError(t, err)

	units, err := deploy.ExpandUnits(repo.FS, repo.Root, pkg, profile)
	require.NoError(t, err)
	require.Equal(t, repo.HomePath(filepath.Join(".ssh", "config.work")), units[0].Dest)
}
