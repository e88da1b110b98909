// Package executor applies a planner.Plan against a repository: reporting
// every step OK without applying it in dry-run mode, prompting for
// confirmation, and otherwise running every step sequentially regardless
// of earlier failures. Printing the plan is left to the caller.
package executor

import (
	"context"
	"fmt"

	"github.com/foriequal0/git-trim/internal/gitx"
	"github.com/foriequal0/git-trim/internal/planner"
)

// Result records one step's outcome.
type Result struct {
	Step       planner.Step
	OK         bool
	Error      string
	ErrorClass gitx.ErrorClass
}

// Confirmer prompts the user before any destructive step runs. Returning
// false aborts the whole run without applying anything.
type Confirmer interface {
	Confirm(plan planner.Plan) (bool, error)
}

// AutoConfirm never prompts; used when confirmation is disabled.
type AutoConfirm struct{}

func (AutoConfirm) Confirm(planner.Plan) (bool, error) { return true, nil }

// Execute applies plan's steps against dir using r.
//
// In dry-run mode every step is reported OK without being applied. Outside
// dry-run, if confirm is set and the plan is non-empty, confirmer is asked
// before anything runs; declining returns a nil Result slice. Every step
// then runs in plan order regardless of earlier failures, matching §4.6's
// continue-past-failure rule. A nil Result slice with a nil error means the
// run was declined at confirmation, distinct from an empty plan.
func Execute(ctx context.Context, r gitx.Runner, dir string, plan planner.Plan, dryRun, confirm bool, confirmer Confirmer) ([]Result, error) {
	if dryRun {
		results := make([]Result, len(plan.Steps))
		for i, s := range plan.Steps {
			results[i] = Result{Step: s, OK: true}
		}
		return results, nil
	}

	if confirm && len(plan.Steps) > 0 {
		if confirmer == nil {
			confirmer = AutoConfirm{}
		}
		ok, err := confirmer.Confirm(plan)
		if err != nil {
			return nil, fmt.Errorf("executor: confirmation: %w", err)
		}
		if !ok {
			return nil, nil
		}
	}

	results := make([]Result, 0, len(plan.Steps))
	for _, s := range plan.Steps {
		results = append(results, applyStep(ctx, r, dir, s))
	}
	return results, nil
}

func applyStep(ctx context.Context, r gitx.Runner, dir string, s planner.Step) Result {
	var err error
	switch s.Kind {
	case planner.Detach:
		err = gitx.DetachHead(ctx, r, dir, s.DetachTo)
	case planner.DeleteRemote:
		err = gitx.PushDelete(ctx, r, dir, s.Remote, s.Names)
	case planner.DeleteRemoteTracking:
		err = gitx.DeleteRemoteTrackingBranch(ctx, r, dir, s.Remote, s.RemoteTrackingName)
	case planner.DeleteLocal:
		err = gitx.DeleteLocalBranch(ctx, r, dir, s.LocalName)
	}
	if err != nil {
		return Result{Step: s, OK: false, Error: err.Error(), ErrorClass: gitx.ClassifyError(err)}
	}
	return Result{Step: s, OK: true}
}

// Succeeded reports whether every result succeeded, the condition for the
// process's exit code to be 0.
func Succeeded(results []Result) bool {
	for _, res := range results {
		if !res.OK {
			return false
		}
	}
	return true
}
