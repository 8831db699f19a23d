package deploy

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/dotr/pkg/config"
	"github.com/arthur-debert/dotr/pkg/diff"
	"github.com/arthur-debert/dotr/pkg/errors"
	"github.com/arthur-debert/dotr/pkg/filesystem"
	"github.com/arthur-debert/dotr/pkg/paths"
	"github.com/arthur-debert/dotr/pkg/template"
)

// Update synchronizes local edits back into the store: for every non-template
// unit whose destination differs from the stored source, the stored source is
// overwritten with the destination's content. No backup of the store is taken;
// the store is presumed version-controlled externally. Template sources are
// never overwritten: the repository's template is always the authority.
func Update(opts Options) (*Result, error) {
	p, err := newPipeline(opts, "update")
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, pkg := range p.packages {
		p.updatePackage(pkg, result)
	}
	return result, nil
}

func (p *pipeline) updatePackage(pkg *config.Package, result *Result) {
	source, err := paths.Resolve(pkg.Src, p.root)
	if err != nil {
		result.record(pkg.Name, StatusFailed, err)
		return
	}
	dest, err := paths.Resolve(pkg.ResolveDest(p.profile), p.root)
	if err != nil {
		result.record(pkg.Name, StatusFailed, err)
		return
	}

	if !filesystem.Exists(p.fsys, dest) {
		result.record(pkg.Name, StatusMissing, nil)
		return
	}

	if !filesystem.IsDir(p.fsys, dest) {
		p.updateFile(pkg.Name, source, dest, result)
		return
	}

	// Walking the destination picks up files created there since the last
	// deploy; our own backups are left behind.
	err = filesystem.WalkFiles(p.fsys, dest, func(rel string, _ fs.FileInfo) error {
		if paths.IsBackup(rel) {
			return nil
		}
		name := pkg.Name + "/" + filepath.ToSlash(rel)
		p.updateFile(name, filepath.Join(source, rel), filepath.Join(dest, rel), result)
		return nil
	})
	if err != nil {
		result.record(pkg.Name, StatusFailed, errors.Wrapf(err, errors.ErrIO, "cannot walk %s", dest))
	}
}

func (p *pipeline) updateFile(name, source, dest string, result *Result) {
	storeContent, storeExists, err := p.readDest(source)
	if err != nil {
		result.record(name, StatusFailed, err)
		return
	}
	if storeExists && template.Detect(storeContent) {
		result.record(name, StatusSkipped, nil)
		return
	}

	destContent, err := p.fsys.ReadFile(dest)
	if err != nil {
		result.record(name, StatusFailed, errors.Wrapf(err, errors.ErrIO, "cannot read %s", dest))
		return
	}

	res := diff.Compute(
		diff.File{Content: storeContent, Exists: storeExists},
		diff.File{Content: destContent, Exists: true},
	)
	if res.Kind == diff.Identical {
		result.record(name, StatusUnchanged, nil)
		return
	}

	if err := p.fsys.MkdirAll(filepath.Dir(source), 0755); err != nil {
		result.record(name, StatusFailed, errors.Wrapf(err, errors.ErrIO, "cannot create parent directory for %s", source))
		return
	}
	if err := p.fsys.WriteFile(source, destContent, 0644); err != nil {
		result.record(name, StatusFailed, errors.Wrapf(err, errors.ErrIO, "cannot write %s", source))
		return
	}
	fmt.Fprintf(p.out, "updated %s <- %s\n", name, dest)
	result.record(name, StatusUpdated, nil)
}
