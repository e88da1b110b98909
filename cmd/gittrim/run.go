package gittrim

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/foriequal0/git-trim/internal/classifier"
	"github.com/foriequal0/git-trim/internal/cliio"
	"github.com/foriequal0/git-trim/internal/config"
	"github.com/foriequal0/git-trim/internal/executor"
	"github.com/foriequal0/git-trim/internal/filter"
	"github.com/foriequal0/git-trim/internal/gitx"
	"github.com/foriequal0/git-trim/internal/model"
	"github.com/foriequal0/git-trim/internal/oracle"
	"github.com/foriequal0/git-trim/internal/planner"
	"github.com/foriequal0/git-trim/internal/snapshot"
)

// promptConfirmer adapts cliio.Confirm to executor.Confirmer, printing a
// one-line plan summary before asking.
type promptConfirmer struct{ cmd *cobra.Command }

func (p promptConfirmer) Confirm(plan planner.Plan) (bool, error) {
	return cliio.Confirm(p.cmd.InOrStdin(), p.cmd.ErrOrStderr(),
		fmt.Sprintf("Delete %d ref(s)? [y/N]: ", len(plan.Steps)))
}

// mergePairs builds the cartesian product of every tip the classifier will
// ask the oracle about (local branches, their tracking targets, and every
// remote-tracking branch) against every base upstream tip, so EvaluateAll
// can warm the oracle's cache with one bounded worker-pool pass instead of
// Classify querying IsMerged one pair at a time, serially.
func mergePairs(snap model.Snapshot) []oracle.Pair {
	baseTips := make(map[model.ObjectID]bool)
	for _, bu := range snap.BaseUpstreams {
		baseTips[bu.Tip] = true
	}

	tips := make(map[model.ObjectID]bool)
	for _, local := range snap.LocalBranches {
		tips[local.Tip] = true
	}
	for _, tracking := range snap.Tracking {
		if tracking.Upstream != nil {
			tips[tracking.Upstream.Tip] = true
		}
		if tracking.PushTarget != nil {
			tips[tracking.PushTarget.Tip] = true
		}
	}
	for _, byName := range snap.RemoteTrackingBranches {
		for _, rtb := range byName {
			tips[rtb.Tip] = true
		}
	}

	pairs := make([]oracle.Pair, 0, len(tips)*len(baseTips))
	for tip := range tips {
		for base := range baseTips {
			pairs = append(pairs, oracle.Pair{Tip: tip, Base: base})
		}
	}
	return pairs
}

func runTrim(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	overrides, err := cliOverridesFromFlags(cmd)
	if err != nil {
		return err
	}

	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	runner := &gitx.GitRunner{}

	cfg, err := config.Resolve(ctx, runner, dir, overrides)
	if err != nil {
		raiseExitCode(1)
		return err
	}
	setColorOutputMode(cmd)

	df, err := filter.ParseDeleteFilter(cfg.Delete)
	if err != nil {
		raiseExitCode(1)
		return fmt.Errorf("--delete: %w", err)
	}

	updater := snapshot.Updater(snapshot.NoopUpdater{})
	if cfg.Update {
		updater = snapshot.GitUpdater{Runner: runner}
	}

	snapResult, err := snapshot.Build(ctx, runner, updater, dir, cfg, time.Now())
	if err != nil {
		raiseExitCode(1)
		return err
	}
	for _, w := range snapResult.Warnings {
		infof(cmd, "warning: %s", w)
	}
	snap := snapResult.Snapshot

	o := oracle.New(runner, dir)
	baseTips := make([]model.ObjectID, 0, len(snap.BaseUpstreams))
	for _, rtb := range snap.BaseUpstreams {
		baseTips = append(baseTips, rtb.Tip)
	}
	o.SeedFromGit(ctx, baseTips)
	o.EvaluateAll(ctx, workerCount(), mergePairs(snap))

	result := classifier.Classify(ctx, o, snap)

	plan := planner.Build(snap, result, df, cfg.Protected, cfg.Detach)

	printReport(cmd, result)
	printPlan(cmd, plan)

	if len(plan.Steps) == 0 {
		infof(cmd, "nothing to do")
		return nil
	}

	var confirmer executor.Confirmer = executor.AutoConfirm{}
	if cfg.Confirm && !cfg.DryRun {
		confirmer = promptConfirmer{cmd: cmd}
	}

	results, err := executor.Execute(ctx, runner, dir, plan, cfg.DryRun, cfg.Confirm, confirmer)
	if err != nil {
		raiseExitCode(1)
		return err
	}
	if results == nil {
		infof(cmd, "aborted")
		return nil
	}

	for _, res := range results {
		if !res.OK {
			infof(cmd, "failed: %s: %s", res.Step.Kind, res.Error)
		}
	}
	if !executor.Succeeded(results) {
		raiseExitCode(1)
	}
	debugf(cmd, "ran %d step(s)", len(results))
	return nil
}
