// Package gitx shells out to the installed git binary and parses its
// output. It is the only package in git-trim that invokes git directly;
// every other package depends on its Runner interface, never on exec
// directly, so it can be mocked in tests.
package gitx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/foriequal0/git-trim/internal/model"
)

// Runner executes git commands in a given repo directory and returns
// combined stdout/stderr output.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
	// RunWithStdin is like Run but feeds stdin to the subprocess, for the
	// one place git-trim needs a pipe: `git log -p <range> | git patch-id`.
	RunWithStdin(ctx context.Context, dir, stdin string, args ...string) (string, error)
}

// GitRunner is the default Runner, shelling out to the git binary.
type GitRunner struct {
	// GitBin is the path to the git binary. Defaults to "git".
	GitBin string
}

func (g *GitRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := g.command(ctx, dir, args...)
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

func (g *GitRunner) RunWithStdin(ctx context.Context, dir, stdin string, args ...string) (string, error) {
	cmd := g.command(ctx, dir, args...)
	cmd.Stdin = strings.NewReader(stdin)
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

func (g *GitRunner) command(ctx context.Context, dir string, args ...string) *exec.Cmd {
	bin := g.GitBin
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	return cmd
}

// ErrNotFound marks an object/ref lookup that git reported as missing
// rather than failing outright. Callers treat this as "not merged", never
// as a fatal error.
var ErrNotFound = errors.New("git: not found")

// RevParse resolves a revision expression to a commit object id.
func RevParse(ctx context.Context, r Runner, dir, rev string) (model.ObjectID, error) {
	out, err := r.Run(ctx, dir, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, rev)
	}
	return model.ObjectID(strings.TrimSpace(out)), nil
}

// SymbolicRefHead returns the short branch name HEAD points at, or ok=false
// when HEAD is detached.
func SymbolicRefHead(ctx context.Context, r Runner, dir string) (branch string, ok bool) {
	out, err := r.Run(ctx, dir, "symbolic-ref", "--quiet", "--short", "HEAD")
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(out), true
}

// ResolveHead builds model.Head for the current repository state.
func ResolveHead(ctx context.Context, r Runner, dir string) (model.Head, error) {
	if branch, ok := SymbolicRefHead(ctx, r, dir); ok {
		tip, err := RevParse(ctx, r, dir, "HEAD")
		if err != nil {
			return model.Head{}, err
		}
		return model.Head{Branch: branch, Commit: tip}, nil
	}
	tip, err := RevParse(ctx, r, dir, "HEAD")
	if err != nil {
		return model.Head{}, err
	}
	return model.Head{Detached: true, Commit: tip}, nil
}

// GitDir resolves the repository's administrative directory (".git", or
// the bare repository root).
func GitDir(ctx context.Context, r Runner, dir string) (string, error) {
	out, err := r.Run(ctx, dir, "rev-parse", "--git-dir")
	if err != nil {
		return "", fmt.Errorf("git rev-parse --git-dir: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Remotes lists configured remotes and their fetch URLs.
func Remotes(ctx context.Context, r Runner, dir string) ([]model.Remote, error) {
	out, err := r.Run(ctx, dir, "remote")
	if err != nil {
		return nil, fmt.Errorf("git remote: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return nil, nil
	}
	var remotes []model.Remote
	for _, name := range strings.Split(strings.TrimSpace(out), "\n") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		url, err := r.Run(ctx, dir, "remote", "get-url", name)
		if err != nil {
			continue
		}
		remotes = append(remotes, model.Remote{Name: name, URL: strings.TrimSpace(url)})
	}
	return remotes, nil
}

// RemoteHeadSymref resolves the short branch name that
// refs/remotes/<remote>/HEAD points to, e.g. "master". ok is false when the
// symref is absent or unresolvable.
func RemoteHeadSymref(ctx context.Context, r Runner, dir, remote string) (branch string, ok bool) {
	out, err := r.Run(ctx, dir, "symbolic-ref", "--quiet", "--short", "refs/remotes/"+remote+"/HEAD")
	if err != nil {
		return "", false
	}
	trimmed := strings.TrimSpace(out)
	prefix := remote + "/"
	if !strings.HasPrefix(trimmed, prefix) {
		return "", false
	}
	return strings.TrimPrefix(trimmed, prefix), true
}

// ForEachLocalBranch lists every refs/heads/* ref with its tip and, when
// present, its upstream and push-target short names.
type LocalBranchEntry struct {
	ShortName  string
	Tip        model.ObjectID
	Upstream   string // "" when none
	PushTarget string // "" when none
}

func ForEachLocalBranch(ctx context.Context, r Runner, dir string) ([]LocalBranchEntry, error) {
	out, err := r.Run(ctx, dir, "for-each-ref",
		"--format=%(refname:short)|%(objectname)|%(upstream:short)|%(push:short)",
		"refs/heads")
	if err != nil {
		return nil, fmt.Errorf("git for-each-ref: %w", err)
	}
	return parseLocalBranchEntries(out), nil
}

func parseLocalBranchEntries(out string) []LocalBranchEntry {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil
	}
	var entries []LocalBranchEntry
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 4)
		for len(parts) < 4 {
			parts = append(parts, "")
		}
		entries = append(entries, LocalBranchEntry{
			ShortName:  parts[0],
			Tip:        model.ObjectID(parts[1]),
			Upstream:   parts[2],
			PushTarget: parts[3],
		})
	}
	return entries
}

// ForEachRemoteTrackingBranch lists every refs/remotes/<remote>/* ref,
// excluding the remote's HEAD symref.
type RemoteTrackingEntry struct {
	Remote    string
	ShortName string
	Tip       model.ObjectID
}

func ForEachRemoteTrackingBranch(ctx context.Context, r Runner, dir string) ([]RemoteTrackingEntry, error) {
	out, err := r.Run(ctx, dir, "for-each-ref", "--format=%(refname)|%(objectname)", "refs/remotes")
	if err != nil {
		return nil, fmt.Errorf("git for-each-ref: %w", err)
	}
	return parseRemoteTrackingEntries(out), nil
}

func parseRemoteTrackingEntries(out string) []RemoteTrackingEntry {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil
	}
	var entries []RemoteTrackingEntry
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 2)
		if len(parts) != 2 {
			continue
		}
		refname := strings.TrimPrefix(parts[0], "refs/remotes/")
		segs := strings.SplitN(refname, "/", 2)
		if len(segs) != 2 {
			continue
		}
		if segs[1] == "HEAD" {
			continue
		}
		entries = append(entries, RemoteTrackingEntry{
			Remote:    segs[0],
			ShortName: segs[1],
			Tip:       model.ObjectID(parts[1]),
		})
	}
	return entries
}

// MergedTips lists the tip object ids of every ref under prefix (e.g.
// "refs/heads" or "refs/remotes") that git's own native ancestor check
// considers merged into base. Used only to pre-warm the oracle's cache: a
// listed tip is an ancestor of base, so the oracle's ancestor test would
// answer true for it as well.
func MergedTips(ctx context.Context, r Runner, dir, prefix, base string) ([]model.ObjectID, error) {
	out, err := r.Run(ctx, dir, "for-each-ref", "--format=%(objectname)", "--merged="+base, prefix)
	if err != nil {
		return nil, fmt.Errorf("git for-each-ref --merged: %w", err)
	}
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil, nil
	}
	lines := strings.Split(out, "\n")
	tips := make([]model.ObjectID, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		tips = append(tips, model.ObjectID(line))
	}
	return tips, nil
}

// UpdateRemote runs a pruning remote update across every remote.
func UpdateRemote(ctx context.Context, r Runner, dir string) error {
	_, err := r.Run(ctx, dir, "remote", "update", "--prune")
	return err
}

// DetachHead detaches HEAD at the given commit via "git checkout --detach",
// which also checks that commit out into the worktree.
func DetachHead(ctx context.Context, r Runner, dir string, commit model.ObjectID) error {
	_, err := r.Run(ctx, dir, "checkout", "--detach", string(commit))
	return err
}

// DeleteLocalBranch force-deletes refs/heads/<name>.
func DeleteLocalBranch(ctx context.Context, r Runner, dir, name string) error {
	_, err := r.Run(ctx, dir, "branch", "-D", name)
	return err
}

// DeleteRemoteTrackingBranch removes the local bookkeeping ref
// refs/remotes/<remote>/<name> without contacting the remote.
func DeleteRemoteTrackingBranch(ctx context.Context, r Runner, dir, remote, name string) error {
	_, err := r.Run(ctx, dir, "update-ref", "-d", "refs/remotes/"+remote+"/"+name)
	return err
}

// PushDelete pushes a deletion of one or more branch names to remote in a
// single invocation: one push per remote.
func PushDelete(ctx context.Context, r Runner, dir, remote string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	args := []string{"push", remote, "--delete"}
	args = append(args, names...)
	_, err := r.Run(ctx, dir, args...)
	return err
}
