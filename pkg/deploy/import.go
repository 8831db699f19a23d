package deploy

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotr/pkg/config"
	"github.com/arthur-debert/dotr/pkg/errors"
	"github.com/arthur-debert/dotr/pkg/filesystem"
	"github.com/arthur-debert/dotr/pkg/logging"
	"github.com/arthur-debert/dotr/pkg/paths"
)

// ImportOptions defines the parameters for importing a dotfile into the store
type ImportOptions struct {
	// Root is the repository root
	Root string
	// Config is the loaded configuration tree; loaded from Root when nil
	Config *config.Config
	// Path is the file or directory to import, absolute, ~ or relative
	Path string
	// Name overrides the derived package name
	Name string
	// Profile records the imported destination as that profile's target
	// override
	Profile string
	// FS is the filesystem to operate on; defaults to the OS
	FS filesystem.FS
	// Out receives user-facing output; defaults to stdout
	Out io.Writer
}

// Import copies an existing dotfile or directory into the store, registers
// it as a package and saves the configuration. The destination is recorded
// with a ~ prefix when it lives under the home directory, so the repository
// stays portable.
func Import(opts ImportOptions) (*config.Package, error) {
	logger := logging.GetLogger("import")

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load(fsys, opts.Root)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	resolved, err := paths.Resolve(opts.Path, opts.Root)
	if err != nil {
		return nil, err
	}
	info, err := fsys.Stat(resolved)
	if err != nil {
		return nil, errors.Newf(errors.ErrIO, "path %q does not exist", resolved)
	}

	name := opts.Name
	if name == "" {
		name = paths.PackageName(opts.Path, info.IsDir())
	}
	src := filepath.Join(config.DotfilesDir, name)

	if err := copyIntoStore(fsys, resolved, filepath.Join(opts.Root, src), info.IsDir()); err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "cannot copy %q into the store", resolved)
	}

	dest := opts.Path
	if !strings.HasPrefix(dest, "~") {
		dest = paths.NormalizeHome(resolved)
	}

	pkg := &config.Package{
		Name: name,
		Src:  filepath.ToSlash(src),
		Dest: dest,
	}
	if opts.Profile != "" {
		if _, err := cfg.Profile(opts.Profile); err != nil {
			return nil, err
		}
		pkg.Targets = map[string]string{opts.Profile: dest}
	}

	if cfg.Packages == nil {
		cfg.Packages = make(map[string]*config.Package)
	}
	cfg.Packages[name] = pkg
	if err := cfg.Save(fsys, opts.Root); err != nil {
		return nil, err
	}

	logger.Info().Str("package", name).Str("dest", dest).Msg("Package imported")
	fmt.Fprintf(out, "imported %s as package %q\n", dest, name)
	return pkg, nil
}

func copyIntoStore(fsys filesystem.FS, from, to string, isDir bool) error {
	if !isDir {
		return filesystem.CopyFile(fsys, from, to)
	}
	return filesystem.WalkFiles(fsys, from, func(rel string, _ fs.FileInfo) error {
		if paths.IsBackup(rel) {
			return nil
		}
		return filesystem.CopyFile(fsys, filepath.Join(from, rel), filepath.Join(to, rel))
	})
}
