// Package deploy orchestrates the three pipeline directions: deploy
// (store to filesystem), update (filesystem to store) and diff (read-only
// preview). Units run strictly one at a time; prompting happens in a
// dedicated phase before any file I/O.
package deploy

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotr/pkg/config"
	"github.com/arthur-debert/dotr/pkg/errors"
	"github.com/arthur-debert/dotr/pkg/filesystem"
	"github.com/arthur-debert/dotr/pkg/logging"
	"github.com/arthur-debert/dotr/pkg/uservars"
	"github.com/arthur-debert/dotr/pkg/variables"
)

// Options defines the parameters shared by the pipeline commands
type Options struct {
	// Root is the repository root (holds config.toml)
	Root string
	// Config is the loaded configuration tree; loaded from Root when nil
	Config *config.Config
	// Packages is the explicit selection; nil means all non-skip packages
	Packages []string
	// Profile is the active profile name, empty for none
	Profile string
	// FS is the filesystem to operate on; defaults to the OS
	FS filesystem.FS
	// Out receives user-facing output; defaults to stdout
	Out io.Writer
	// Colorize enables styled diff output
	Colorize bool
	// Input answers prompts; defaults to stdin
	Input uservars.LineReader
}

// pipeline carries the resolved state for one command run
type pipeline struct {
	fsys     filesystem.FS
	out      io.Writer
	root     string
	cfg      *config.Config
	packages []*config.Package
	profile  *config.Profile
	store    *uservars.Store
	colorize bool
	logger   zerolog.Logger
}

// newPipeline validates the invocation, loads the user variable store and
// runs the prompt phase. Resolution errors (unknown package or profile) are
// fatal here, before any file I/O.
func newPipeline(opts Options, component string) (*pipeline, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	input := opts.Input
	if input == nil {
		input = uservars.NewLineReader(os.Stdin)
	}

	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load(fsys, opts.Root)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	packages, profile, err := SelectPackages(cfg, opts.Packages, opts.Profile)
	if err != nil {
		return nil, err
	}

	store, err := uservars.Load(fsys, opts.Root)
	if err != nil {
		return nil, err
	}

	specs := uservars.MergeSpecs(cfg, packages, profile)
	if err := store.Ensure(specs, input, out); err != nil {
		return nil, err
	}

	return &pipeline{
		fsys:     fsys,
		out:      out,
		root:     opts.Root,
		cfg:      cfg,
		packages: packages,
		profile:  profile,
		store:    store,
		colorize: opts.Colorize,
		logger:   logging.GetLogger(component),
	}, nil
}

// resolveVars builds the evaluation context for one package
func (p *pipeline) resolveVars(pkg *config.Package) (*variables.Context, error) {
	return variables.Resolve(p.cfg, pkg, p.profile, p.store.Values())
}

// readDest reads a destination file, distinguishing absence from real
// errors so a missing file is not reported as a failure.
func (p *pipeline) readDest(path string) (content []byte, exists bool, err error) {
	content, readErr := p.fsys.ReadFile(path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(readErr, errors.ErrIO, "cannot read %s", path)
	}
	return content, true, nil
}
