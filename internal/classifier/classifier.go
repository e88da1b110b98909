// Package classifier computes each branch's terminal classification from a
// snapshot and the oracle's merge answers.
package classifier

import (
	"context"
	"sort"

	"github.com/foriequal0/git-trim/internal/model"
	"github.com/foriequal0/git-trim/internal/oracle"
)

// Result is the classifier's full output: one BranchResult per local
// branch, plus one RemoteTrackingResult per remote-tracking branch that no
// local branch follows.
type Result struct {
	Branches        []model.BranchResult
	RemoteTrackings []model.RemoteTrackingResult
}

// Classify runs the per-branch classification rules over snap, using o to
// answer merge queries.
func Classify(ctx context.Context, o *oracle.Oracle, snap model.Snapshot) Result {
	bases := make(map[string]bool, len(snap.Bases))
	for _, b := range snap.Bases {
		bases[b] = true
	}

	followed := make(map[string]bool)

	var result Result
	for name, local := range snap.LocalBranches {
		tracking := snap.Tracking[name]
		if tracking.Upstream != nil {
			followed[tracking.Upstream.Refname()] = true
		}

		isHead := !snap.Head.Detached && snap.Head.Branch == name
		isBase := bases[name]

		localClass, remote, remoteClass := classifyLocal(ctx, o, snap, local, tracking, isBase)

		result.Branches = append(result.Branches, model.BranchResult{
			Local:       local,
			LocalClass:  localClass,
			Remote:      remote,
			RemoteClass: remoteClass,
			IsHead:      isHead,
			IsBase:      isBase,
		})
	}

	for _, remotesByName := range snap.RemoteTrackingBranches {
		for _, rtb := range remotesByName {
			if followed[rtb.Refname()] {
				continue
			}
			class := model.Kept
			if isMergedIntoAnyBase(ctx, o, snap, rtb.Tip) {
				class = model.MergedRemoteTracking
			}
			result.RemoteTrackings = append(result.RemoteTrackings, model.RemoteTrackingResult{
				Remote: rtb,
				Class:  class,
			})
		}
	}

	sort.Slice(result.Branches, func(i, j int) bool {
		return result.Branches[i].Local.ShortName < result.Branches[j].Local.ShortName
	})
	sort.Slice(result.RemoteTrackings, func(i, j int) bool {
		a, b := result.RemoteTrackings[i].Remote, result.RemoteTrackings[j].Remote
		if a.Remote != b.Remote {
			return a.Remote < b.Remote
		}
		return a.ShortName < b.ShortName
	})

	return result
}

// classifyLocal implements the per-branch rules: a base branch is always
// Kept; a tracking branch is jointly classified with its upstream; a
// non-tracking branch stands alone.
func classifyLocal(ctx context.Context, o *oracle.Oracle, snap model.Snapshot, local model.LocalBranch, tracking model.Tracking, isBase bool) (model.Classification, *model.RemoteTrackingBranch, model.Classification) {
	if isBase {
		return model.Kept, nil, ""
	}

	if tracking.UpstreamName == "" {
		// No upstream was ever configured: not a Stray candidate.
		if isMergedIntoAnyBase(ctx, o, snap, local.Tip) {
			return model.MergedNonTracking, nil, ""
		}
		return model.Kept, nil, ""
	}

	mergedLocal := isMergedIntoAnyBase(ctx, o, snap, local.Tip)

	if tracking.Upstream == nil {
		// An upstream was configured but its ref is gone: Stray candidate.
		if mergedLocal {
			return model.MergedLocal, nil, ""
		}
		return model.Stray, nil, ""
	}

	target := tracking.Upstream
	if tracking.PushTarget != nil {
		target = tracking.PushTarget
	}
	mergedRemote := isMergedIntoAnyBase(ctx, o, snap, target.Tip)

	switch {
	case mergedLocal && mergedRemote:
		return model.MergedLocal, target, model.MergedRemote
	case mergedLocal && !mergedRemote:
		return model.Diverged, target, model.Diverged
	default:
		return model.Kept, target, model.Kept
	}
}

func isMergedIntoAnyBase(ctx context.Context, o *oracle.Oracle, snap model.Snapshot, tip model.ObjectID) bool {
	for _, name := range snap.Bases {
		baseUpstream, ok := snap.BaseUpstreams[name]
		if !ok {
			continue
		}
		if o.IsMerged(ctx, tip, baseUpstream.Tip) {
			return true
		}
	}
	return false
}
