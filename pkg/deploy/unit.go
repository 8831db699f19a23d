package deploy

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/dotr/pkg/config"
	"github.com/arthur-debert/dotr/pkg/errors"
	"github.com/arthur-debert/dotr/pkg/filesystem"
	"github.com/arthur-debert/dotr/pkg/paths"
	"github.com/arthur-debert/dotr/pkg/template"
)

// Unit is one resolved file-level work item: a single source file mapped to
// its fully resolved destination. Created fresh per invocation, never
// persisted.
type Unit struct {
	// Package is the owning package
	Package *config.Package
	// RelPath is the path relative to the package source for directory
	// packages, empty for single-file packages
	RelPath string
	// Source is the absolute path of the stored file
	Source string
	// Dest is the absolute destination, profile target override applied
	Dest string
	// IsTemplate marks sources containing template syntax
	IsTemplate bool
}

// Name identifies the unit in reports: the package name plus the relative
// path for directory packages.
func (u Unit) Name() string {
	if u.RelPath == "" {
		return u.Package.Name
	}
	return u.Package.Name + "/" + filepath.ToSlash(u.RelPath)
}

// SelectPackages expands the requested package set. An explicit request is
// kept in its own order; otherwise all packages with skip = false are taken
// in name order. The active profile's dependencies are unioned in even when
// skip = true. Duplicates keep their first-seen position.
func SelectPackages(cfg *config.Config, requested []string, profileName string) ([]*config.Package, *config.Profile, error) {
	var profile *config.Profile
	if profileName != "" {
		found, err := cfg.Profile(profileName)
		if err != nil {
			return nil, nil, err
		}
		profile = found
	}

	var names []string
	if len(requested) > 0 {
		names = append(names, requested...)
	} else {
		for name, pkg := range cfg.Packages {
			if !pkg.Skip {
				names = append(names, name)
			}
		}
		sort.Strings(names)
	}
	if profile != nil {
		names = append(names, profile.Dependencies...)
	}

	seen := make(map[string]bool, len(names))
	selected := make([]*config.Package, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		pkg, err := cfg.Package(name)
		if err != nil {
			return nil, nil, err
		}
		selected = append(selected, pkg)
	}
	return selected, profile, nil
}

// ExpandUnits turns one package into its file-level units. Directory
// sources expand recursively, one unit per contained file with the relative
// sub-path appended to the destination.
func ExpandUnits(fsys filesystem.FS, root string, pkg *config.Package, profile *config.Profile) ([]Unit, error) {
	source, err := paths.Resolve(pkg.Src, root)
	if err != nil {
		return nil, err
	}
	dest, err := paths.Resolve(pkg.ResolveDest(profile), root)
	if err != nil {
		return nil, err
	}

	if !filesystem.IsDir(fsys, source) {
		return []Unit{{
			Package:    pkg,
			Source:     source,
			Dest:       dest,
			IsTemplate: fileIsTemplate(fsys, source),
		}}, nil
	}

	var units []Unit
	err = filesystem.WalkFiles(fsys, source, func(rel string, _ fs.FileInfo) error {
		srcFile := filepath.Join(source, rel)
		units = append(units, Unit{
			Package:    pkg,
			RelPath:    rel,
			Source:     srcFile,
			Dest:       filepath.Join(dest, rel),
			IsTemplate: fileIsTemplate(fsys, srcFile),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "cannot expand package %q", pkg.Name)
	}
	return units, nil
}

// fileIsTemplate probes the source content for template syntax. A missing
// or unreadable file is simply not a template; the pipeline reports the
// real error when it processes the unit.
func fileIsTemplate(fsys filesystem.FS, path string) bool {
	content, err := fsys.ReadFile(path)
	if err != nil {
		return false
	}
	return template.Detect(content)
}
