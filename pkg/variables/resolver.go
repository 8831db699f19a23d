// Package variables merges the configuration scopes into one evaluation
// context per (package, profile) pair.
//
// Precedence, lowest to highest: process environment, global variables,
// package variables, profile variables, user variables (prompt answers).
// Nested tables merge key by key; arrays are replaced wholesale by the
// higher-precedence source.
package variables

import (
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/dotr/pkg/config"
	"github.com/arthur-debert/dotr/pkg/errors"
)

// Delim separates nested keys in flattened form, e.g. "user.email"
const Delim = "."

// Context is the resolved, nested-key-addressable variable mapping for one
// (package, profile) pair. It is immutable once built.
type Context struct {
	k *koanf.Koanf
}

// Resolve merges the variable scopes for the given package and profile.
// Both pkg and profile may be nil. The configuration tree is never mutated.
func Resolve(cfg *config.Config, pkg *config.Package, profile *config.Profile, user map[string]interface{}) (*Context, error) {
	k := koanf.New(Delim)

	// Process environment first so every config scope can override it.
	// Keys are kept verbatim: the environment is a flat namespace.
	if err := k.Load(env.Provider("", Delim, func(s string) string { return s }), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot load environment variables")
	}

	layers := []map[string]interface{}{cfg.Variables}
	if pkg != nil {
		layers = append(layers, pkg.Variables)
	}
	if profile != nil {
		layers = append(layers, profile.Variables)
	}
	layers = append(layers, user)

	for _, layer := range layers {
		if len(layer) == 0 {
			continue
		}
		if err := k.Load(confmap.Provider(layer, Delim), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "cannot merge variable scope")
		}
	}

	return &Context{k: k}, nil
}

// Get returns the value at a possibly nested key ("user.email"), or nil
func (c *Context) Get(key string) interface{} {
	return c.k.Get(key)
}

// Exists reports whether the key is defined in any scope
func (c *Context) Exists(key string) bool {
	return c.k.Exists(key)
}

// Map returns the context as a nested map, suitable for template rendering
func (c *Context) Map() map[string]interface{} {
	return c.k.Raw()
}

// Flat returns the context flattened to delimited keys
func (c *Context) Flat() map[string]interface{} {
	return c.k.All()
}
