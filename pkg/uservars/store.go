// Package uservars owns the persisted secret store of prompt answers
// (.uservariables.toml). A value is requested at most once: keys already
// present are never prompted for again, and only a new prompt answer may
// update a key.
package uservars

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/dotr/pkg/config"
	"github.com/arthur-debert/dotr/pkg/errors"
	"github.com/arthur-debert/dotr/pkg/filesystem"
)

// Store is the persisted key->value mapping of previously answered prompts
type Store struct {
	fsys   filesystem.FS
	path   string
	values map[string]interface{}
}

// Load reads the user variables file from the repository root. A missing
// file is not an error: it is created on the first answered prompt.
func Load(fsys filesystem.FS, root string) (*Store, error) {
	store := &Store{
		fsys:   fsys,
		path:   filepath.Join(root, config.UserVariablesFile),
		values: make(map[string]interface{}),
	}

	data, err := fsys.ReadFile(store.path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, errors.Wrapf(err, errors.ErrIO, "cannot read %s", store.path)
	}
	if err := toml.Unmarshal(data, &store.values); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", store.path)
	}
	return store, nil
}

// Has reports whether the key already holds an answer
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Get returns the stored answer for a key, or nil
func (s *Store) Get(key string) interface{} {
	return s.values[key]
}

// Values returns a copy of the stored answers for variable resolution
func (s *Store) Values() map[string]interface{} {
	out := make(map[string]interface{}, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Set stores an answer and persists the file immediately, so a crash after
// prompt N does not re-prompt for keys 1..N-1 on retry.
func (s *Store) Set(key string, value interface{}) error {
	s.values[key] = value
	return s.save()
}

func (s *Store) save() error {
	data, err := toml.Marshal(s.values)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot serialize user variables")
	}
	if err := s.fsys.WriteFile(s.path, data, 0600); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot write %s", s.path)
	}
	return nil
}
