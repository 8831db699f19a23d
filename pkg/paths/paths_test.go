package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotr/pkg/paths"
)

func TestResolve(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	root := t.TempDir()

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "absolute_passthrough", path: "/etc/hosts", want: "/etc/hosts"},
		{name: "home_relative", path: "~/.bashrc", want: filepath.Join(home, ".bashrc")},
		{name: "home_alone", path: "~", want: home},
		{name: "repo_relative", path: "dotfiles/bashrc", want: filepath.Join(root, "dotfiles", "bashrc")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := paths.Resolve(tt.path, root)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.Equal(t, "~/.ssh/config", paths.NormalizeHome(filepath.Join(home, ".ssh", "config")))
	require.Equal(t, "~", paths.NormalizeHome(home))
	require.Equal(t, "/etc/hosts", paths.NormalizeHome("/etc/hosts"))
}

func TestBackupPath(t *testing.T) {
	require.Equal(t, "/home/u/.bashrc.dotrbak", paths.BackupPath("/home/u/.bashrc"))
	require.True(t, paths.IsBackup("/home/u/.bashrc.dotrbak"))
	require.False(t, paths.IsBackup("/home/u/.bashrc"))
}

func TestPackageName(t *testing.T) {
	tests := []struct {
		path  string
		isDir bool
		want  string
	}{
		{path: "~/.bashrc", isDir: false, want: "f_bashrc"},
		{path: "~/.tmux.conf", isDir: false, want: "f_tmux_conf"},
		{path: "~/.config/nvim", isDir: true, want: "d_nvim"},
		{path: "/opt/tool-1.2", isDir: true, want: "d_tool"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, paths.PackageName(tt.path, tt.isDir))
		})
	}
}
