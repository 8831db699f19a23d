// Package actions executes the pre/post shell commands declared by
// packages. Commands are interpolated against the unit's resolved variable
// context before execution and run through an embedded POSIX shell
// interpreter, so behavior does not depend on the user's login shell.
package actions

import (
	"context"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/arthur-debert/dotr/pkg/errors"
	"github.com/arthur-debert/dotr/pkg/logging"
	"github.com/arthur-debert/dotr/pkg/template"
	"github.com/arthur-debert/dotr/pkg/variables"
)

// Runner executes action command strings for one deployment unit
type Runner struct {
	// Dir is the working directory for every command (the repository root)
	Dir string
	// Stdout and Stderr receive the command's output; nil means the
	// process's own streams
	Stdout io.Writer
	Stderr io.Writer
}

// Run interpolates the command against ctx and executes it. The resolved
// variables are also exported into the command environment, on top of the
// process environment. A non-zero exit is returned as an ACTION_EXECUTE
// error carrying the status code.
func (r *Runner) Run(ctx context.Context, command string, vars *variables.Context) error {
	logger := logging.GetLogger("actions")

	compiled := command
	if template.DetectString(command) {
		rendered, err := template.Render(command, vars)
		if err != nil {
			return errors.Wrapf(err, errors.ErrActionExecute, "cannot interpolate action %q", command)
		}
		compiled = rendered
	}

	file, err := syntax.NewParser().Parse(strings.NewReader(compiled), "action")
	if err != nil {
		return errors.Wrapf(err, errors.ErrActionExecute, "action %q has a syntax error", command)
	}

	stdout := r.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	env := append(os.Environ(), vars.Environ()...)
	runner, err := interp.New(
		interp.Dir(r.Dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, stdout, stderr),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrActionExecute, "cannot create shell interpreter")
	}

	logger.Debug().Str("action", compiled).Str("dir", r.Dir).Msg("Executing action")
	if err := runner.Run(ctx, file); err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return errors.Newf(errors.ErrActionExecute, "action %q exited with status %d", command, status)
		}
		return errors.Wrapf(err, errors.ErrActionExecute, "action %q failed", command)
	}
	return nil
}
