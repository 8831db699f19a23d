package deploy

import (
	"fmt"

	"github.com/arthur-debert/dotr/pkg/config"
	"github.com/arthur-debert/dotr/pkg/diff"
	"github.com/arthur-debert/dotr/pkg/errors"
	"github.com/arthur-debert/dotr/pkg/template"
)

// Diff computes and reports the changes a deploy would make. It never
// mutates the filesystem or the store.
func Diff(opts Options) (*Result, error) {
	p, err := newPipeline(opts, "diff")
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, pkg := range p.packages {
		p.diffPackage(pkg, result)
	}

	if result.Written() == 0 && len(result.Failed()) == 0 && !hasChanges(result) {
		fmt.Fprintln(p.out, "no changes")
	}
	return result, nil
}

func hasChanges(result *Result) bool {
	for _, u := range result.Units {
		if u.Status == StatusChanged || u.Status == StatusMissing {
			return true
		}
	}
	return false
}

func (p *pipeline) diffPackage(pkg *config.Package, result *Result) {
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
		diff.Fprint(p.out, unit.Name(), res, p.colorize)

		switch res.Kind {
		case diff.Identical:
			result.record(unit.Name(), StatusUnchanged, nil)
		case diff.Changed:
			result.record(unit.Name(), StatusChanged, nil)
		default:
			result.record(unit.Name(), StatusMissing, nil)
		}
	}
}
