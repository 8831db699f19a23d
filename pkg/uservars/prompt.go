package uservars

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/dotr/pkg/config"
	"github.com/arthur-debert/dotr/pkg/errors"
	"github.com/arthur-debert/dotr/pkg/logging"
)

// LineReader reads a single line of user input. The console implementation
// blocks; tests substitute a scripted source.
type LineReader interface {
	ReadLine() (string, error)
}

type bufioReader struct {
	r *bufio.Reader
}

// NewLineReader wraps an io.Reader (usually os.Stdin) as a LineReader
func NewLineReader(r io.Reader) LineReader {
	return &bufioReader{r: bufio.NewReader(r)}
}

func (b *bufioReader) ReadLine() (string, error) {
	line, err := b.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// MergeSpecs merges prompt specifications from the configuration scopes:
// global first, then each processed package, then the active profile. All
// keys apply; when two scopes define the same key, the later-merged prompt
// text wins but the stored answer is a single shared value.
func MergeSpecs(cfg *config.Config, packages []*config.Package, profile *config.Profile) map[string]string {
	specs := make(map[string]string)
	for key, text := range cfg.Prompts {
		specs[key] = text
	}
	for _, pkg := range packages {
		for key, text := range pkg.Prompts {
			specs[key] = text
		}
	}
	if profile != nil {
		for key, text := range profile.Prompts {
			specs[key] = text
		}
	}
	return specs
}

// Ensure collects answers for every prompt key not already present in the
// store. Each answer is persisted before the next prompt is shown. Keys are
// asked in sorted order so runs are reproducible.
func (s *Store) Ensure(specs map[string]string, reader LineReader, out io.Writer) error {
	logger := logging.GetLogger("uservars")

	keys := make([]string, 0, len(specs))
	for key := range specs {
		if !s.Has(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(out, "%s: ", specs[key])
		answer, err := reader.ReadLine()
		if err != nil {
			return errors.Wrapf(err, errors.ErrPromptAborted, "no input available for prompt %q", key)
		}
		if err := s.Set(key, answer); err != nil {
			return err
		}
		logger.Debug().Str("key", key).Msg("Stored prompt answer")
	}
	return nil
}
