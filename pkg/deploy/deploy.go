package deploy

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/dotr/pkg/actions"
	"github.com/arthur-debert/dotr/pkg/config"
	"github.com/arthur-debert/dotr/pkg/diff"
	"github.com/arthur-debert/dotr/pkg/errors"
	"github.com/arthur-debert/dotr/pkg/filesystem"
	"github.com/arthur-debert/dotr/pkg/paths"
	"github.com/arthur-debert/dotr/pkg/template"
)

// pending is a unit whose destination needs to be written
type pending struct {
	unit    Unit
	content []byte
	exists  bool
}

// Deploy copies the selected packages from the store to the filesystem.
// Unchanged files are skipped, changed destinations are backed up first,
// and pre/post actions run only for packages that actually write something.
// Per-unit errors are isolated: the pipeline continues with the next unit.
func Deploy(ctx context.Context, opts Options) (*Result, error) {
	p, err := newPipeline(opts, "deploy")
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, pkg := range p.packages {
		p.deployPackage(ctx, pkg, result)
	}
	return result, nil
}

func (p *pipeline) deployPackage(ctx context.Context, pkg *config.Package, result *Result) {
	vars, err := p.resolveVars(pkg)
	if err != nil {
		result.record(pkg.Name, StatusFailed, err)
		return
	}
	units, err := ExpandUnits(p.fsys, p.root, pkg, p.profile)
	if err != nil {
		result.record(pkg.Name, StatusFailed, err)
		return
	}

	var toWrite []pending
	for _, unit := range units {
		content, err := p.fsys.ReadFile(unit.Source)
		if err != nil {
			result.record(unit.Name(), StatusFailed, errors.Wrapf(err, errors.ErrIO, "cannot read %s", unit.Source))
			continue
		}

		effective := content
		if unit.IsTemplate {
			rendered, err := template.Render(string(content), vars)
			if err != nil {
				result.record(unit.Name(), StatusFailed, err)
				continue
			}
			effective = []byte(rendered)
		}

		destContent, destExists, err := p.readDest(unit.Dest)
		if err != nil {
			result.record(unit.Name(), StatusFailed, err)
			continue
		}

		res := diff.Compute(
			diff.File{Content: effective, Exists: true},
			diff.File{Content: destContent, Exists: destExists},
		)
		if res.Kind == diff.Identical {
			p.logger.Debug().Str("unit", unit.Name()).Msg("Destination unchanged, skipping")
			result.record(unit.Name(), StatusUnchanged, nil)
			continue
		}
		toWrite = append(toWrite, pending{unit: unit, content: effective, exists: destExists})
	}

	// Packages with nothing to write run no actions
	if len(toWrite) == 0 {
		return
	}

	runner := &actions.Runner{Dir: p.root, Stdout: p.out, Stderr: p.out}
	for _, action := range pkg.PreActions {
		if err := runner.Run(ctx, action, vars); err != nil {
			result.record(pkg.Name, StatusFailed, err)
			return
		}
	}

	written := 0
	for _, item := range toWrite {
		if err := p.writeUnit(item); err != nil {
			result.record(item.unit.Name(), StatusFailed, err)
			continue
		}
		fmt.Fprintf(p.out, "deployed %s -> %s\n", item.unit.Name(), item.unit.Dest)
		result.record(item.unit.Name(), StatusDeployed, nil)
		written++
	}

	if written == 0 {
		return
	}
	for _, action := range pkg.PostActions {
		if err := runner.Run(ctx, action, vars); err != nil {
			result.record(pkg.Name, StatusFailed, err)
		}
	}
}

// writeUnit backs up an existing destination and replaces it whole-file.
// Backups are single-generation: any prior backup is overwritten.
func (p *pipeline) writeUnit(item pending) error {
	if item.exists {
		backup := paths.BackupPath(item.unit.Dest)
		if err := filesystem.CopyFile(p.fsys, item.unit.Dest, backup); err != nil {
			return errors.Wrapf(err, errors.ErrIO, "cannot back up %s", item.unit.Dest)
		}
		p.logger.Debug().Str("backup", backup).Msg("Backed up destination")
	}
	if err := p.fsys.MkdirAll(filepath.Dir(item.unit.Dest), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot create parent directory for %s", item.unit.Dest)
	}
	if err := p.fsys.WriteFile(item.unit.Dest, item.content, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot write %s", item.unit.Dest)
	}
	return nil
}
