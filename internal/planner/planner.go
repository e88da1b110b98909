// Package planner turns a classified, filtered snapshot into an ordered
// list of ref mutations: an optional HEAD detach, followed by batched
// remote pushes, then remote-tracking cleanup, then local branch deletion.
package planner

import (
	"github.com/foriequal0/git-trim/internal/classifier"
	"github.com/foriequal0/git-trim/internal/filter"
	"github.com/foriequal0/git-trim/internal/model"
)

// StepKind tags the kind of mutation a Step performs.
type StepKind string

const (
	Detach               StepKind = "detach"
	DeleteRemote         StepKind = "delete-remote"
	DeleteRemoteTracking StepKind = "delete-remote-tracking"
	DeleteLocal          StepKind = "delete-local"
)

// Step is one planned mutation. Only the fields relevant to Kind are set.
type Step struct {
	Kind StepKind

	// DetachTo is set on a Detach step.
	DetachTo model.ObjectID

	// Remote is set on DeleteRemote and DeleteRemoteTracking steps.
	Remote string
	// Names holds every short name to push-delete on Remote in one batch,
	// set on DeleteRemote steps.
	Names []string
	// RemoteTrackingName is set on DeleteRemoteTracking steps.
	RemoteTrackingName string

	// LocalName is set on DeleteLocal steps.
	LocalName string
}

// Plan is the ordered list of mutations the Executor applies.
type Plan struct {
	Steps []Step
}

type trackingDelete struct {
	remote string
	name   string
}

// Build decides, for every branch in cls, whether it passes df and the
// protected-glob list, then assembles the resulting mutations into plan
// order. detachEnabled mirrors trim.detach.
func Build(snap model.Snapshot, cls classifier.Result, df filter.DeleteFilter, protected []string, detachEnabled bool) Plan {
	var localDeletes []string
	var trackingDeletes []trackingDelete
	pushByRemote := make(map[string][]string)
	var pushOrder []string

	for _, br := range cls.Branches {
		d := filter.ApplyLocal(br, df, protected)
		if d.DeleteRemote && br.Remote != nil {
			remote := br.Remote.Remote
			if _, ok := pushByRemote[remote]; !ok {
				pushOrder = append(pushOrder, remote)
			}
			pushByRemote[remote] = append(pushByRemote[remote], br.Remote.ShortName)
			trackingDeletes = append(trackingDeletes, trackingDelete{remote, br.Remote.ShortName})
		}
		if d.DeleteLocal {
			localDeletes = append(localDeletes, br.Local.ShortName)
		}
	}

	for _, rt := range cls.RemoteTrackings {
		if filter.ApplyRemoteTracking(rt, df, protected) {
			trackingDeletes = append(trackingDeletes, trackingDelete{rt.Remote.Remote, rt.Remote.ShortName})
		}
	}

	var steps []Step
	if to, ok := detachTarget(snap, localDeletes, detachEnabled); ok {
		steps = append(steps, Step{Kind: Detach, DetachTo: to})
	}
	for _, remote := range pushOrder {
		steps = append(steps, Step{Kind: DeleteRemote, Remote: remote, Names: pushByRemote[remote]})
	}
	for _, td := range trackingDeletes {
		steps = append(steps, Step{Kind: DeleteRemoteTracking, Remote: td.remote, RemoteTrackingName: td.name})
	}
	for _, name := range localDeletes {
		steps = append(steps, Step{Kind: DeleteLocal, LocalName: name})
	}

	return Plan{Steps: steps}
}

// detachTarget decides whether a detach step is needed, and if so the
// commit to detach to: the tip of the first available base, falling back
// to HEAD's current commit when there is none.
func detachTarget(snap model.Snapshot, localDeletes []string, detachEnabled bool) (model.ObjectID, bool) {
	if !detachEnabled || snap.Head.Detached || snap.Head.Branch == "" {
		return "", false
	}
	scheduled := false
	for _, name := range localDeletes {
		if name == snap.Head.Branch {
			scheduled = true
			break
		}
	}
	if !scheduled {
		return "", false
	}
	for _, baseName := range snap.Bases {
		if base, ok := snap.LocalBranches[baseName]; ok {
			return base.Tip, true
		}
	}
	return snap.Head.Commit, true
}
