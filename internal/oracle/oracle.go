// Package oracle answers "is tip's content already present in base?" under
// three merge styles, and memoizes the answer per (tip, base) pair so the
// classifier can query it freely without repeating expensive commit-graph
// walks.
package oracle

import (
	"context"
	"sync"

	"github.com/foriequal0/git-trim/internal/concurrency"
	"github.com/foriequal0/git-trim/internal/gitx"
	"github.com/foriequal0/git-trim/internal/model"
)

type pairKey struct {
	tip, base model.ObjectID
}

// Oracle evaluates isMerged(tip, base) and caches results across calls. The
// zero value is not usable; construct with New.
type Oracle struct {
	runner gitx.Runner
	dir    string

	mu    sync.Mutex
	cache map[pairKey]bool
}

func New(runner gitx.Runner, dir string) *Oracle {
	return &Oracle{runner: runner, dir: dir, cache: make(map[pairKey]bool)}
}

// Seed records a known answer without evaluating it, e.g. from git's own
// native "branch --merged" detection. It only warms the cache: IsMerged
// returns a seeded answer as is, without running the three tests below.
func (o *Oracle) Seed(tip, base model.ObjectID, merged bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cache[pairKey{tip, base}] = merged
}

// IsMerged answers whether tip's content is already present in base, per
// the ancestor, merge-commit, and squash tests, in that order. The first
// test that succeeds wins. A cancelled ctx or a missing object degrades to
// false rather than propagating an error: the oracle never promotes a
// branch to Merged on insufficient data.
func (o *Oracle) IsMerged(ctx context.Context, tip, base model.ObjectID) bool {
	if tip == base {
		return true
	}

	key := pairKey{tip, base}
	o.mu.Lock()
	if v, ok := o.cache[key]; ok {
		o.mu.Unlock()
		return v
	}
	o.mu.Unlock()

	merged := o.evaluate(ctx, tip, base)

	o.mu.Lock()
	o.cache[key] = merged
	o.mu.Unlock()
	return merged
}

func (o *Oracle) evaluate(ctx context.Context, tip, base model.ObjectID) bool {
	if ctx.Err() != nil {
		return false
	}

	if ok, err := gitx.IsAncestor(ctx, o.runner, o.dir, tip, base); err == nil && ok {
		return true
	}

	mergeBase, ok := gitx.MergeBase(ctx, o.runner, o.dir, tip, base)
	if !ok {
		return false
	}

	if o.mergeCommitTest(ctx, tip, base, mergeBase) {
		return true
	}
	return o.squashTest(ctx, tip, base, mergeBase)
}

func (o *Oracle) mergeCommitTest(ctx context.Context, tip, base, mergeBase model.ObjectID) bool {
	commits, err := gitx.MergeCommitsBetween(ctx, o.runner, o.dir, mergeBase, base)
	if err != nil {
		return false
	}
	for _, c := range commits {
		if ctx.Err() != nil {
			return false
		}
		for _, parent := range []model.ObjectID{c.FirstParent, c.SecondParent} {
			if ok, err := gitx.IsAncestor(ctx, o.runner, o.dir, tip, parent); err == nil && ok {
				return true
			}
		}
	}
	return false
}

func (o *Oracle) squashTest(ctx context.Context, tip, base, mergeBase model.ObjectID) bool {
	tipIDs, err := gitx.PatchIDsBetween(ctx, o.runner, o.dir, mergeBase, tip)
	if err != nil {
		return false
	}
	if len(tipIDs) == 0 {
		// An empty tip-side range means tip == mergeBase, already caught by
		// the ancestor test; reaching here with no ids is vacuously true.
		return true
	}
	baseIDs, err := gitx.PatchIDsBetween(ctx, o.runner, o.dir, mergeBase, base)
	if err != nil {
		return false
	}
	for id := range tipIDs {
		if baseIDs[id] == 0 {
			return false
		}
	}
	return true
}

// SeedFromGit warms the cache for every base upstream using git's own
// native "for-each-ref --merged" ancestor detection, across both
// refs/heads and refs/remotes. It only ever seeds a positive ("true")
// answer: a tip git reports as merged genuinely is an ancestor, so this is
// always safe to fold into the three-test cache. It never seeds false,
// since the squash test can still find a match git's ancestor check missed.
func (o *Oracle) SeedFromGit(ctx context.Context, baseUpstreamTips []model.ObjectID) {
	for _, base := range baseUpstreamTips {
		for _, prefix := range []string{"refs/heads", "refs/remotes"} {
			tips, err := gitx.MergedTips(ctx, o.runner, o.dir, prefix, string(base))
			if err != nil {
				continue
			}
			for _, tip := range tips {
				o.Seed(tip, base, true)
			}
		}
	}
}

// Pair is one (tip, base) evaluation request, identified by the branch
// short name the result belongs to so callers can re-associate results
// after a concurrent batch.
type Pair struct {
	BranchName string
	Tip, Base  model.ObjectID
}

// PairResult is the merged/not-merged answer for one Pair.
type PairResult struct {
	Pair
	Merged bool
}

// EvaluateAll runs IsMerged across every pair concurrently, bounded by
// workers, and returns one PairResult per input Pair in the same order.
func (o *Oracle) EvaluateAll(ctx context.Context, workers int, pairs []Pair) []PairResult {
	return concurrency.Run(ctx, workers, pairs, func(ctx context.Context, p Pair) PairResult {
		return PairResult{Pair: p, Merged: o.IsMerged(ctx, p.Tip, p.Base)}
	})
}
