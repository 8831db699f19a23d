// Package config holds the repository configuration tree: global variables
// and prompts, packages and profiles. The tree is loaded once per command
// invocation and treated as immutable afterwards; init and import are the
// only writers, through explicit Save calls.
package config

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/dotr/pkg/errors"
	"github.com/arthur-debert/dotr/pkg/filesystem"
)

const (
	// FileName is the repository configuration document
	FileName = "config.toml"

	// UserVariablesFile holds prompt answers, excluded from version control
	UserVariablesFile = ".uservariables.toml"

	// DotfilesDir is the default directory for package sources
	DotfilesDir = "dotfiles"
)

// Config is the root configuration tree for a dotfiles repository
type Config struct {
	Banner    bool                   `toml:"banner"`
	Variables map[string]interface{} `toml:"variables,omitempty"`
	Prompts   map[string]string      `toml:"prompts,omitempty"`
	Packages  map[string]*Package    `toml:"packages,omitempty"`
	Profiles  map[string]*Profile    `toml:"profiles,omitempty"`
}

// Package is a named, independently deployable source/destination mapping
type Package struct {
	Name        string                 `toml:"-"`
	Src         string                 `toml:"src"`
	Dest        string                 `toml:"dest"`
	Variables   map[string]interface{} `toml:"variables,omitempty"`
	Prompts     map[string]string      `toml:"prompts,omitempty"`
	PreActions  []string               `toml:"pre_actions,omitempty"`
	PostActions []string               `toml:"post_actions,omitempty"`
	Targets     map[string]string      `toml:"targets,omitempty"`
	Skip        bool                   `toml:"skip,omitempty"`
}

// Profile is a named bundle of variable overrides, dependencies and target
// overrides representing one deployment environment
type Profile struct {
	Name         string                 `toml:"-"`
	Dependencies []string               `toml:"dependencies,omitempty"`
	Variables    map[string]interface{} `toml:"variables,omitempty"`
	Prompts      map[string]string      `toml:"prompts,omitempty"`
}

// New returns an empty configuration with defaults
func New() *Config {
	return &Config{
		Banner:   true,
		Packages: make(map[string]*Package),
		Profiles: make(map[string]*Profile),
	}
}

// Load reads and parses config.toml from the repository root
func Load(fsys filesystem.FS, root string) (*Config, error) {
	path := filepath.Join(root, FileName)
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrConfigLoad, "%s not found in %s", FileName, root)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", path)
	}

	cfg := Config{Banner: true}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", path)
	}

	// Map keys are the authoritative names
	for name, pkg := range cfg.Packages {
		pkg.Name = name
	}
	for name, profile := range cfg.Profiles {
		profile.Name = name
	}

	return &cfg, nil
}

// Save writes the configuration back to config.toml
func (c *Config) Save(fsys filesystem.FS, root string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot serialize configuration")
	}
	path := filepath.Join(root, FileName)
	if err := fsys.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot write %s", path)
	}
	return nil
}

// Package looks up a package by name
func (c *Config) Package(name string) (*Package, error) {
	pkg, ok := c.Packages[name]
	if !ok {
		return nil, errors.Newf(errors.ErrUnknownPackage, "package %q not found in configuration", name)
	}
	return pkg, nil
}

// Profile looks up a profile by name
func (c *Config) Profile(name string) (*Profile, error) {
	profile, ok := c.Profiles[name]
	if !ok {
		return nil, errors.Newf(errors.ErrUnknownProfile, "profile %q not found in configuration", name)
	}
	return profile, nil
}

// ResolveDest returns the package's effective destination: the profile's
// target override when present, the package's own dest otherwise.
func (p *Package) ResolveDest(profile *Profile) string {
	if profile != nil {
		if override, ok := p.Targets[profile.Name]; ok {
			return override
		}
	}
	return p.Dest
}

// Init creates a fresh repository in root: a default config.toml, the
// dotfiles directory and a .gitignore that keeps prompt answers out of
// version control. An existing config.toml is left untouched.
func Init(fsys filesystem.FS, root string) (*Config, error) {
	path := filepath.Join(root, FileName)
	if filesystem.Exists(fsys, path) {
		return Load(fsys, root)
	}

	cfg := New()
	if err := cfg.Save(fsys, root); err != nil {
		return nil, err
	}
	if err := fsys.MkdirAll(filepath.Join(root, DotfilesDir), 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrIO, "cannot create dotfiles directory")
	}
	gitignore := filepath.Join(root, ".gitignore")
	if err := fsys.WriteFile(gitignore, []byte(UserVariablesFile+"\n"), fs.FileMode(0644)); err != nil {
		return nil, errors.Wrap(err, errors.ErrIO, "cannot write .gitignore")
	}
	return cfg, nil
}
