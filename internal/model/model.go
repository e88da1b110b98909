// Package model defines the core data types shared across git-trim's
// snapshot, oracle, classifier, filter, planner, and executor stages.
package model

// ObjectID is a commit object identifier. Equality is by identifier, never
// by pointer value.
type ObjectID string

// RefKind distinguishes local branches from remote-tracking branches.
type RefKind int

const (
	RefLocal RefKind = iota
	RefRemoteTracking
)

// LocalBranch is a fully-qualified refs/heads/<name> reference.
type LocalBranch struct {
	// ShortName is the branch name without the refs/heads/ prefix.
	ShortName string
	// Tip is the commit the branch currently points at.
	Tip ObjectID
}

func (b LocalBranch) Refname() string { return "refs/heads/" + b.ShortName }

// RemoteTrackingBranch is a fully-qualified refs/remotes/<remote>/<name> reference.
type RemoteTrackingBranch struct {
	Remote string
	// ShortName is the branch name without the remote prefix, e.g. "master"
	// for refs/remotes/origin/master.
	ShortName string
	Tip       ObjectID
}

func (b RemoteTrackingBranch) Refname() string {
	return "refs/remotes/" + b.Remote + "/" + b.ShortName
}

// Tracking describes a local branch's upstream (fetch) and push target. In
// the simple workflow the two coincide; in the triangular workflow they can
// differ. Either may be unconfigured.
//
// UpstreamName/PushTargetName hold the raw configured short name (e.g.
// "origin/feature") independent of whether that ref currently resolves;
// Upstream/PushTarget are nil both when nothing is configured and when a
// configured ref has been pruned away. Distinguishing those two cases is
// what tells a Stray branch (configured upstream, now gone) apart from a
// MergedNonTracking one (no upstream ever configured).
type Tracking struct {
	UpstreamName string
	Upstream     *RemoteTrackingBranch

	PushTargetName string
	PushTarget     *RemoteTrackingBranch
}

// Classification is a branch's terminal classification tag.
type Classification string

const (
	MergedLocal          Classification = "MergedLocal"
	MergedRemote         Classification = "MergedRemote"
	MergedRemoteTracking Classification = "MergedRemoteTracking"
	MergedNonTracking    Classification = "MergedNonTracking"
	Stray                Classification = "Stray"
	Diverged             Classification = "Diverged"
	Kept                 Classification = "Kept"
)

// BranchResult is the classifier's per-local-branch output: the local side's
// classification and, when the branch tracks a remote, the remote side's
// paired classification.
type BranchResult struct {
	Local LocalBranch
	// LocalClass is always set.
	LocalClass Classification
	// Remote is set when Local is not a base and tracks an upstream that
	// still exists in the snapshot. It is the ref the remote side was
	// classified against: the push target when one resolves, else the
	// upstream.
	Remote *RemoteTrackingBranch
	// RemoteClass is set iff Remote is set.
	RemoteClass Classification
	// IsHead marks the branch currently checked out.
	IsHead bool
	// IsBase marks a branch in the resolved base set.
	IsBase bool
}

// RemoteTrackingResult is the classifier's output for a remote-tracking
// branch with no local follower.
type RemoteTrackingResult struct {
	Remote RemoteTrackingBranch
	Class  Classification
}

// Remote is a configured remote.
type Remote struct {
	Name string
	URL  string
}

// Head describes the repository's current HEAD.
type Head struct {
	// Branch is the checked-out branch's short name. Empty when detached.
	Branch   string
	Detached bool
	// Commit is HEAD's resolved commit, used for the detach target when
	// HEAD is already detached.
	Commit ObjectID
}

// Snapshot is the immutable read of ref state produced by the Repo Snapshot
// stage. It is the sole input to classification.
type Snapshot struct {
	Head Head

	// LocalBranches is every refs/heads/* branch, keyed by short name.
	LocalBranches map[string]LocalBranch
	// RemoteTrackingBranches is every refs/remotes/<remote>/* branch, keyed
	// by remote and short name.
	RemoteTrackingBranches map[string]map[string]RemoteTrackingBranch
	// Tracking maps a local branch's short name to its tracking relation.
	Tracking map[string]Tracking

	Remotes []Remote

	// Bases is the resolved, ordered set of base local branch short names.
	Bases []string
	// BaseUpstreams maps a base's short name to its remote-tracking
	// counterpart. A base without a resolvable upstream is absent here
	// A base whose upstream could not be resolved is dropped with a warning.
	BaseUpstreams map[string]RemoteTrackingBranch
}
