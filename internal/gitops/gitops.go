// Package gitops shells out to git for the few operations repair needs.
// When the task directory lives inside a repository, file moves go through
// git mv so history follows the rename.
package gitops

import (
	"os/exec"
	"strings"
)

// IsRepo reports whether dir is inside a git work tree. A missing git
// binary simply means no repository handling.
func IsRepo(dir string) bool {
	out, err := run(dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// Move renames a tracked file with git mv. Paths are relative to dir or
// absolute; git resolves either.
func Move(dir, from, to string) error {
	_, err := run(dir, "mv", from, to)
	return err
}

// IsTracked reports whether path is known to git. Untracked files fall back
// to a plain filesystem rename.
func IsTracked(dir, path string) bool {
	_, err := run(dir, "ls-files", "--error-unmatch", path)
	return err == nil
}

// run executes one git command in dir and returns its combined output.
func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", &gitError{args: args, output: output, err: err}
	}
	return string(output), nil
}

type gitError struct {
	args   []string
	output []byte
	err    error
}

func (e *gitError) Error() string {
	return "git " + strings.Join(e.args, " ") + ": " + e.err.Error() + "\n" + string(e.output)
}

func (e *gitError) Unwrap() error {
	return e.err
}
