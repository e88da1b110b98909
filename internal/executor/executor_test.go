package executor_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/foriequal0/git-trim/internal/executor"
	"github.com/foriequal0/git-trim/internal/gitxtest"
	"github.com/foriequal0/git-trim/internal/planner"
)

type denyConfirmer struct{}

func (denyConfirmer) Confirm(planner.Plan) (bool, error) { return false, nil }

type erroringConfirmer struct{ err error }

func (c erroringConfirmer) Confirm(planner.Plan) (bool, error) { return false, c.err }

var _ = Describe("Execute", func() {
	plan := planner.Plan{Steps: []planner.Step{
		{Kind: planner.DeleteLocal, LocalName: "feature"},
		{Kind: planner.DeleteRemoteTracking, Remote: "origin", RemoteTrackingName: "feature"},
		{Kind: planner.DeleteRemote, Remote: "origin", Names: []string{"feature"}},
	}}

	It("applies no mutation in dry-run mode and reports every step OK", func() {
		r := gitxtest.NewMockRunner()
		results, err := executor.Execute(context.Background(), r, "/repo", plan, true, true, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(executor.Succeeded(results)).To(BeTrue())
		Expect(r.Calls).To(BeEmpty())
	})

	It("runs every step in order when confirmation is granted", func() {
		r := gitxtest.NewMockRunner()
		r.On("/repo", []string{"branch", "-D", "feature"}, "", nil)
		r.On("/repo", []string{"update-ref", "-d", "refs/remotes/origin/feature"}, "", nil)
		r.On("/repo", []string{"push", "origin", "--delete", "feature"}, "", nil)

		results, err := executor.Execute(context.Background(), r, "/repo", plan, false, true, executor.AutoConfirm{})
		Expect(err).NotTo(HaveOccurred())
		Expect(executor.Succeeded(results)).To(BeTrue())
		Expect(r.Calls).To(HaveLen(3))
	})

	It("applies nothing and returns a nil result slice when confirmation is declined", func() {
		r := gitxtest.NewMockRunner()
		results, err := executor.Execute(context.Background(), r, "/repo", plan, false, true, denyConfirmer{})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(BeNil())
		Expect(r.Calls).To(BeEmpty())
	})

	It("propagates a confirmer error", func() {
		r := gitxtest.NewMockRunner()
		wantErr := errors.New("no tty")
		_, err := executor.Execute(context.Background(), r, "/repo", plan, false, true, erroringConfirmer{wantErr})
		Expect(err).To(HaveOccurred())
	})

	It("continues past a failed step and reports it in the results", func() {
		r := gitxtest.NewMockRunner()
		r.On("/repo", []string{"branch", "-D", "feature"}, "", errors.New("branch not fully merged"))
		r.On("/repo", []string{"update-ref", "-d", "refs/remotes/origin/feature"}, "", nil)
		r.On("/repo", []string{"push", "origin", "--delete", "feature"}, "", nil)

		results, err := executor.Execute(context.Background(), r, "/repo", plan, false, false, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(executor.Succeeded(results)).To(BeFalse())
		Expect(results[0].OK).To(BeFalse())
		Expect(results[1].OK).To(BeTrue())
		Expect(results[2].OK).To(BeTrue())
	})

	It("skips confirmation entirely for an empty plan", func() {
		r := gitxtest.NewMockRunner()
		results, err := executor.Execute(context.Background(), r, "/repo", planner.Plan{}, false, true, denyConfirmer{})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(BeEmpty())
	})
})
