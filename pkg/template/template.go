// Package template wraps the template engine behind a small adapter: a
// syntactic probe for template delimiters and a render call. Files without
// delimiters are copied byte-for-byte by the pipeline; render failures are
// per-unit and never abort a whole run.
package template

import (
	"regexp"
	"unicode/utf8"

	"github.com/aymerick/raymond"

	"github.com/arthur-debert/dotr/pkg/errors"
	"github.com/arthur-debert/dotr/pkg/variables"
)

// delimRe matches the engine delimiter tokens, including the
// whitespace-trimming variants.
var delimRe = regexp.MustCompile(`(\{\{-?|-?\}\}|\{%-?|-?%\}|\{#-?|-?#\})`)

// Detect reports whether the content looks like a template. Binary content
// is never a template: it is deployed as-is.
func Detect(content []byte) bool {
	if !utf8.Valid(content) {
		return false
	}
	return delimRe.Match(content)
}

// DetectString is Detect for already-decoded text
func DetectString(content string) bool {
	return delimRe.MatchString(content)
}

// Render evaluates the template against the resolved variable context.
// A missing variable is not an error here: the engine substitutes its empty
// value, per its own contract.
func Render(content string, ctx *variables.Context) (string, error) {
	out, err := raymond.Render(content, ctx.Map())
	if err != nil {
		return "", errors.Wrap(err, errors.ErrRender, "template rendering failed")
	}
	return out, nil
}
