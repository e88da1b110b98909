// Package snapshot builds the immutable read of ref state that the rest of
// the pipeline classifies against: HEAD, every local and remote-tracking
// branch, tracking relations, and the resolved base set.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foriequal0/git-trim/internal/config"
	"github.com/foriequal0/git-trim/internal/gitx"
	"github.com/foriequal0/git-trim/internal/model"
	"github.com/foriequal0/git-trim/internal/state"
)

// Updater performs the pre-run pruning remote update. Kept behind an
// interface so Build can be exercised against fixture repositories without
// talking to a real remote.
type Updater interface {
	Update(ctx context.Context, dir string) error
}

// GitUpdater is the real Updater: a pruning "git remote update".
type GitUpdater struct {
	Runner gitx.Runner
}

func (u GitUpdater) Update(ctx context.Context, dir string) error {
	return gitx.UpdateRemote(ctx, u.Runner, dir)
}

// NoopUpdater never touches the remote. Used where the caller has already
// updated, or in tests.
type NoopUpdater struct{}

func (NoopUpdater) Update(ctx context.Context, dir string) error { return nil }

// ErrEmptyBaseSet is returned when no base branch could be resolved at all.
var ErrEmptyBaseSet = errors.New("snapshot: no base branches could be resolved")

// ErrAmbiguousBase is returned when a base's upstream is itself a remote's
// HEAD symref, but that remote's HEAD symref cannot be resolved. The
// original tool's behavior here is undocumented; this surfaces as a
// configuration error rather than guessing.
var ErrAmbiguousBase = errors.New("snapshot: base upstream is an unresolvable remote HEAD")

// Result is a snapshot together with any non-fatal warnings collected while
// building it (e.g. a base dropped for lacking a resolvable upstream).
type Result struct {
	Snapshot model.Snapshot
	Warnings []string
}

// Build reads dir's repository once and produces a Result. now is injected
// for deterministic update-interval tests.
func Build(ctx context.Context, r gitx.Runner, updater Updater, dir string, cfg config.Config, now time.Time) (Result, error) {
	gitDir, err := gitx.GitDir(ctx, r, dir)
	if err != nil {
		return Result{}, fmt.Errorf("snapshot: %w", err)
	}

	if cfg.Update && state.Overdue(gitDir, cfg.UpdateInterval, now) {
		if err := updater.Update(ctx, dir); err != nil {
			return Result{}, fmt.Errorf("snapshot: remote update: %w", err)
		}
		if err := state.RecordUpdate(gitDir, now); err != nil {
			return Result{}, fmt.Errorf("snapshot: recording update time: %w", err)
		}
	}

	head, err := gitx.ResolveHead(ctx, r, dir)
	if err != nil {
		return Result{}, fmt.Errorf("snapshot: %w", err)
	}

	localEntries, err := gitx.ForEachLocalBranch(ctx, r, dir)
	if err != nil {
		return Result{}, fmt.Errorf("snapshot: %w", err)
	}
	remoteEntries, err := gitx.ForEachRemoteTrackingBranch(ctx, r, dir)
	if err != nil {
		return Result{}, fmt.Errorf("snapshot: %w", err)
	}
	remotes, err := gitx.Remotes(ctx, r, dir)
	if err != nil {
		return Result{}, fmt.Errorf("snapshot: %w", err)
	}

	localByName := make(map[string]gitx.LocalBranchEntry, len(localEntries))
	snap := model.Snapshot{
		Head:                   head,
		LocalBranches:          make(map[string]model.LocalBranch, len(localEntries)),
		RemoteTrackingBranches: make(map[string]map[string]model.RemoteTrackingBranch),
		Tracking:               make(map[string]model.Tracking, len(localEntries)),
		Remotes:                remotes,
		BaseUpstreams:          make(map[string]model.RemoteTrackingBranch),
	}

	for _, e := range localEntries {
		localByName[e.ShortName] = e
		snap.LocalBranches[e.ShortName] = model.LocalBranch{ShortName: e.ShortName, Tip: e.Tip}
	}
	for _, e := range remoteEntries {
		if snap.RemoteTrackingBranches[e.Remote] == nil {
			snap.RemoteTrackingBranches[e.Remote] = make(map[string]model.RemoteTrackingBranch)
		}
		snap.RemoteTrackingBranches[e.Remote][e.ShortName] = model.RemoteTrackingBranch{
			Remote: e.Remote, ShortName: e.ShortName, Tip: e.Tip,
		}
	}

	remoteNames := make([]string, len(remotes))
	for i, rm := range remotes {
		remoteNames[i] = rm.Name
	}

	for _, e := range localEntries {
		snap.Tracking[e.ShortName] = model.Tracking{
			UpstreamName:   e.Upstream,
			Upstream:       lookupRemoteBranch(snap, remoteNames, e.Upstream),
			PushTargetName: e.PushTarget,
			PushTarget:     lookupRemoteBranch(snap, remoteNames, e.PushTarget),
		}
	}

	var warnings []string
	candidates := cfg.Bases
	if len(candidates) == 0 {
		for _, rm := range remotes {
			branch, ok := gitx.RemoteHeadSymref(ctx, r, dir, rm.Name)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("remote %q has no resolvable HEAD symref, skipping", rm.Name))
				continue
			}
			candidates = append(candidates, branch)
		}
	}

	seen := make(map[string]bool, len(candidates))
	for _, name := range candidates {
		if seen[name] {
			continue
		}
		seen[name] = true

		entry, found := localByName[name]
		if !found {
			warnings = append(warnings, fmt.Sprintf("base %q: no local branch with that name, dropping", name))
			continue
		}
		upstream, ok, err := resolveUpstream(ctx, r, dir, entry.Upstream, remoteNames, snap)
		if err != nil {
			return Result{}, fmt.Errorf("snapshot: %w", err)
		}
		if !ok {
			warnings = append(warnings, fmt.Sprintf("base %q: no resolvable upstream, dropping", name))
			continue
		}

		snap.Bases = append(snap.Bases, name)
		snap.BaseUpstreams[name] = upstream
	}

	if len(snap.Bases) == 0 {
		return Result{}, ErrEmptyBaseSet
	}

	return Result{Snapshot: snap, Warnings: warnings}, nil
}

func lookupRemoteBranch(snap model.Snapshot, remoteNames []string, upstreamShort string) *model.RemoteTrackingBranch {
	if upstreamShort == "" {
		return nil
	}
	remote, rest, ok := splitRemoteShort(upstreamShort, remoteNames)
	if !ok {
		return nil
	}
	rtb, ok := snap.RemoteTrackingBranches[remote][rest]
	if !ok {
		return nil
	}
	return &rtb
}

// resolveUpstream turns a local branch's raw %(upstream:short) value into
// the model.RemoteTrackingBranch it names, following a remote HEAD symref
// if the upstream points at one. ok is false when the upstream is absent or
// its ref has been pruned away.
func resolveUpstream(ctx context.Context, r gitx.Runner, dir, upstreamShort string, remoteNames []string, snap model.Snapshot) (model.RemoteTrackingBranch, bool, error) {
	if upstreamShort == "" {
		return model.RemoteTrackingBranch{}, false, nil
	}
	remote, rest, ok := splitRemoteShort(upstreamShort, remoteNames)
	if !ok {
		return model.RemoteTrackingBranch{}, false, nil
	}
	if rest == "HEAD" {
		target, ok := gitx.RemoteHeadSymref(ctx, r, dir, remote)
		if !ok {
			return model.RemoteTrackingBranch{}, false, fmt.Errorf("%w: remote %q", ErrAmbiguousBase, remote)
		}
		rest = target
	}
	rtb, ok := snap.RemoteTrackingBranches[remote][rest]
	if !ok {
		return model.RemoteTrackingBranch{}, false, nil
	}
	return rtb, true, nil
}

// splitRemoteShort splits a "<remote>/<name>" short ref into its remote and
// remainder, picking the longest matching configured remote name so a
// remote whose own name contains a slash is still handled correctly.
func splitRemoteShort(shortRef string, remoteNames []string) (remote, rest string, ok bool) {
	best := ""
	for _, name := range remoteNames {
		prefix := name + "/"
		if strings.HasPrefix(shortRef, prefix) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return "", "", false
	}
	return best, strings.TrimPrefix(shortRef, best+"/"), true
}
