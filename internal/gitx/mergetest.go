package gitx

import (
	"context"
	"fmt"
	"strings"

	"github.com/foriequal0/git-trim/internal/model"
)

// IsAncestor reports whether tip is an ancestor of base, i.e. a classic
// merge or fast-forward.
func IsAncestor(ctx context.Context, r Runner, dir string, tip, base model.ObjectID) (bool, error) {
	_, err := r.Run(ctx, dir, "merge-base", "--is-ancestor", string(tip), string(base))
	if err == nil {
		return true, nil
	}
	// git merge-base --is-ancestor exits 1 for "no", and >1 for errors
	// (e.g. unknown object). Either way, the conservative answer is false;
	// callers never promote a branch to Merged on missing data.
	return false, nil
}

// MergeBase resolves the best common ancestor of a and b. ok is false when
// the two histories share no common ancestor.
func MergeBase(ctx context.Context, r Runner, dir string, a, b model.ObjectID) (base model.ObjectID, ok bool) {
	out, err := r.Run(ctx, dir, "merge-base", string(a), string(b))
	if err != nil {
		return "", false
	}
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return "", false
	}
	return model.ObjectID(trimmed), true
}

// MergeCommitsBetween lists the two-parent (merge) commits reachable from
// base but not from mergeBase, oldest first. A branch is merged if its tip
// is reachable through either parent of one of these commits.
type MergeCommit struct {
	Commit       model.ObjectID
	FirstParent  model.ObjectID
	SecondParent model.ObjectID
}

func MergeCommitsBetween(ctx context.Context, r Runner, dir string, mergeBase, base model.ObjectID) ([]MergeCommit, error) {
	out, err := r.Run(ctx, dir, "rev-list", "--merges", "--reverse",
		"--format=%H %P", string(mergeBase)+".."+string(base))
	if err != nil {
		return nil, fmt.Errorf("git rev-list --merges: %w", err)
	}
	return parseMergeCommits(out), nil
}

func parseMergeCommits(out string) []MergeCommit {
	var commits []MergeCommit
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "commit ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		commits = append(commits, MergeCommit{
			Commit:       model.ObjectID(fields[0]),
			FirstParent:  model.ObjectID(fields[1]),
			SecondParent: model.ObjectID(fields[2]),
		})
	}
	return commits
}

// PatchIDsBetween computes the patch-id of every commit in the range
// mergeBase..tip against its first parent, by piping `git log -p`'s diff
// text into `git patch-id --stable`. The multiset is returned as a map from
// patch-id to occurrence count since a degenerate history can repeat an
// identical diff.
func PatchIDsBetween(ctx context.Context, r Runner, dir string, mergeBase, tip model.ObjectID) (map[string]int, error) {
	diff, err := r.Run(ctx, dir, "log", "-p", "--no-color", string(mergeBase)+".."+string(tip))
	if err != nil {
		return nil, fmt.Errorf("git log -p: %w", err)
	}
	if strings.TrimSpace(diff) == "" {
		return map[string]int{}, nil
	}
	out, err := r.RunWithStdin(ctx, dir, diff, "patch-id", "--stable")
	if err != nil {
		return nil, fmt.Errorf("git patch-id: %w", err)
	}
	return parsePatchIDs(out), nil
}

func parsePatchIDs(out string) map[string]int {
	ids := make(map[string]int)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		ids[fields[0]]++
	}
	return ids
}
