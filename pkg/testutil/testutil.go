// Package testutil provides shared fixtures: a temporary dotfiles
// repository with a fake home directory, and a scripted prompt reader.
package testutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotr/pkg/config"
	"github.com/arthur-debert/dotr/pkg/filesystem"
)

// Repo is an isolated dotfiles repository rooted in a temp directory.
// HOME is pointed at the fake home so ~ destinations resolve inside the
// sandbox.
type Repo struct {
	Root string
	Home string
	FS   filesystem.FS

	t *testing.T
}

// NewRepo creates an initialized repository and fake home directory
func NewRepo(t *testing.T) *Repo {
	t.Helper()

	tempDir := t.TempDir()
	repo := &Repo{
		Root: filepath.Join(tempDir, "repo"),
		Home: filepath.Join(tempDir, "home"),
		FS:   filesystem.NewOS(),
		t:    t,
	}
	if err := os.MkdirAll(repo.Root, 0755); err != nil {
		t.Fatalf("cannot create repo root: %v", err)
	}
	if err := os.MkdirAll(repo.Home, 0755); err != nil {
		t.Fatalf("cannot create home dir: %v", err)
	}
	t.Setenv("HOME", repo.Home)

	if _, err := config.Init(repo.FS, repo.Root); err != nil {
		t.Fatalf("cannot init repository: %v", err)
	}
	return repo
}

// WriteConfig replaces config.toml with the given TOML document
func (r *Repo) WriteConfig(content string) {
	r.t.Helper()
	r.WriteFile(filepath.Join(r.Root, config.FileName), content)
}

// LoadConfig parses the repository configuration
func (r *Repo) LoadConfig() *config.Config {
	r.t.Helper()
	cfg, err := config.Load(r.FS, r.Root)
	if err != nil {
		r.t.Fatalf("cannot load config: %v", err)
	}
	return cfg
}

// WriteStoreFile writes a file under the repository's dotfiles directory
func (r *Repo) WriteStoreFile(rel, content string) {
	r.t.Helper()
	r.WriteFile(filepath.Join(r.Root, config.DotfilesDir, rel), content)
}

// WriteHomeFile writes a file under the fake home directory
func (r *Repo) WriteHomeFile(rel, content string) {
	r.t.Helper()
	r.WriteFile(filepath.Join(r.Home, rel), content)
}

// WriteFile writes an arbitrary file, creating parent directories
func (r *Repo) WriteFile(path, content string) {
	r.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.t.Fatalf("cannot create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.t.Fatalf("cannot write %s: %v", path, err)
	}
}

// ReadFile reads a file and fails the test if it is missing
func (r *Repo) ReadFile(path string) string {
	r.t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		r.t.Fatalf("cannot read %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether a path exists
func (r *Repo) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// HomePath returns an absolute path inside the fake home
func (r *Repo) HomePath(rel string) string {
	return filepath.Join(r.Home, rel)
}

// StorePath returns an absolute path inside the dotfiles store
func (r *Repo) StorePath(rel string) string {
	return filepath.Join(r.Root, config.DotfilesDir, rel)
}

// ScriptedReader replays a fixed list of prompt answers
type ScriptedReader struct {
	answers []string
	pos     int
}

// NewScriptedReader builds a reader that returns the given answers in order
func NewScriptedReader(answers ...string) *ScriptedReader {
	return &ScriptedReader{answers: answers}
}

// ReadLine returns the next scripted answer, or io.EOF when exhausted
func (s *ScriptedReader) ReadLine() (string, error) {
	if s.pos >= len(s.answers) {
		return "", io.EOF
	}
	answer := s.answers[s.pos]
	s.pos++
	return answer, nil
}
