package oracle_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/foriequal0/git-trim/internal/gitxtest"
	"github.com/foriequal0/git-trim/internal/model"
	"github.com/foriequal0/git-trim/internal/oracle"
)

type exitErr struct{}

func (exitErr) Error() string { return "exit status 1" }

var errExit1 = exitErr{}

var _ = Describe("IsMerged", func() {
	It("is trivially true when tip equals base", func() {
		r := gitxtest.NewMockRunner()
		o := oracle.New(r, "/repo")
		Expect(o.IsMerged(context.Background(), "aaaa", "aaaa")).To(BeTrue())
		Expect(r.Calls).To(BeEmpty())
	})

	It("succeeds via the ancestor test", func() {
		r := gitxtest.NewMockRunner()
		r.On("/repo", []string{"merge-base", "--is-ancestor", "tip", "base"}, "", nil)

		o := oracle.New(r, "/repo")
		Expect(o.IsMerged(context.Background(), "tip", "base")).To(BeTrue())
	})

	It("succeeds via the merge-commit test when the ancestor test fails", func() {
		r := gitxtest.NewMockRunner()
		r.On("/repo", []string{"merge-base", "--is-ancestor", "tip", "base"}, "", errExit1)
		r.On("/repo", []string{"merge-base", "tip", "base"}, "mb\n", nil)
		r.On("/repo", []string{"rev-list", "--merges", "--reverse", "--format=%H %P", "mb..base"},
			"commit cccc\ncccc pppp1 pppp2\n", nil)
		r.On("/repo", []string{"merge-base", "--is-ancestor", "tip", "pppp1"}, "", errExit1)
		r.On("/repo", []string{"merge-base", "--is-ancestor", "tip", "pppp2"}, "", nil)

		o := oracle.New(r, "/repo")
		Expect(o.IsMerged(context.Background(), "tip", "base")).To(BeTrue())
	})

	It("succeeds via the squash test when the patch-id multiset is a subset", func() {
		r := gitxtest.NewMockRunner()
		r.On("/repo", []string{"merge-base", "--is-ancestor", "tip", "base"}, "", errExit1)
		r.On("/repo", []string{"merge-base", "tip", "base"}, "mb\n", nil)
		r.On("/repo", []string{"rev-list", "--merges", "--reverse", "--format=%H %P", "mb..base"}, "", nil)
		r.On("/repo", []string{"log", "-p", "--no-color", "mb..tip"}, "diff-tip\n", nil)
		r.OnStdin("/repo", "diff-tip\n", []string{"patch-id", "--stable"}, "id1 c1\n", nil)
		r.On("/repo", []string{"log", "-p", "--no-color", "mb..base"}, "diff-base\n", nil)
		r.OnStdin("/repo", "diff-base\n", []string{"patch-id", "--stable"}, "id1 c2\nid2 c3\n", nil)

		o := oracle.New(r, "/repo")
		Expect(o.IsMerged(context.Background(), "tip", "base")).To(BeTrue())
	})

	It("fails all three tests when the tip-side patch-id is absent on the base side", func() {
		r := gitxtest.NewMockRunner()
		r.On("/repo", []string{"merge-base", "--is-ancestor", "tip", "base"}, "", errExit1)
		r.On("/repo", []string{"merge-base", "tip", "base"}, "mb\n", nil)
		r.On("/repo", []string{"rev-list", "--merges", "--reverse", "--format=%H %P", "mb..base"}, "", nil)
		r.On("/repo", []string{"log", "-p", "--no-color", "mb..tip"}, "diff-tip\n", nil)
		r.OnStdin("/repo", "diff-tip\n", []string{"patch-id", "--stable"}, "idX c1\n", nil)
		r.On("/repo", []string{"log", "-p", "--no-color", "mb..base"}, "diff-base\n", nil)
		r.OnStdin("/repo", "diff-base\n", []string{"patch-id", "--stable"}, "id1 c2\n", nil)

		o := oracle.New(r, "/repo")
		Expect(o.IsMerged(context.Background(), "tip", "base")).To(BeFalse())
	})

	It("memoizes the result, so a repeated query issues no further git calls", func() {
		r := gitxtest.NewMockRunner()
		r.On("/repo", []string{"merge-base", "--is-ancestor", "tip", "base"}, "", nil)

		o := oracle.New(r, "/repo")
		Expect(o.IsMerged(context.Background(), "tip", "base")).To(BeTrue())
		calls := len(r.Calls)

		Expect(o.IsMerged(context.Background(), "tip", "base")).To(BeTrue())
		Expect(r.Calls).To(HaveLen(calls), "second call must hit the cache")
	})

	It("honors a seeded answer without evaluating", func() {
		r := gitxtest.NewMockRunner()
		o := oracle.New(r, "/repo")
		o.Seed("tip", "base", true)

		Expect(o.IsMerged(context.Background(), "tip", "base")).To(BeTrue())
		Expect(r.Calls).To(BeEmpty())
	})
})

var _ = Describe("SeedFromGit", func() {
	It("seeds a true answer for every tip git reports merged, under both ref prefixes", func() {
		r := gitxtest.NewMockRunner()
		r.On("/repo", []string{"for-each-ref", "--format=%(objectname)", "--merged=base", "refs/heads"}, "m1\n", nil)
		r.On("/repo", []string{"for-each-ref", "--format=%(objectname)", "--merged=base", "refs/remotes"}, "m2\n", nil)

		o := oracle.New(r, "/repo")
		o.SeedFromGit(context.Background(), []model.ObjectID{"base"})

		Expect(o.IsMerged(context.Background(), "m1", "base")).To(BeTrue())
		Expect(o.IsMerged(context.Background(), "m2", "base")).To(BeTrue())
		Expect(r.Calls).To(HaveLen(2), "seeded answers must not re-run the three tests")
	})

	It("does not seed a false answer when for-each-ref fails", func() {
		r := gitxtest.NewMockRunner()
		r.On("/repo", []string{"for-each-ref", "--format=%(objectname)", "--merged=base", "refs/heads"}, "", errExit1)
		r.On("/repo", []string{"for-each-ref", "--format=%(objectname)", "--merged=base", "refs/remotes"}, "", errExit1)
		r.On("/repo", []string{"merge-base", "--is-ancestor", "tip", "base"}, "", nil)

		o := oracle.New(r, "/repo")
		o.SeedFromGit(context.Background(), []model.ObjectID{"base"})

		Expect(o.IsMerged(context.Background(), "tip", "base")).To(BeTrue())
	})
})

var _ = Describe("EvaluateAll", func() {
	It("returns one PairResult per input pair in order", func() {
		r := gitxtest.NewMockRunner()
		r.On("/repo", []string{"merge-base", "--is-ancestor", "t1", "b1"}, "", nil)
		r.On("/repo", []string{"merge-base", "--is-ancestor", "t2", "b1"}, "", errExit1)
		r.On("/repo", []string{"merge-base", "t2", "b1"}, "", errExit1)

		o := oracle.New(r, "/repo")
		pairs := []oracle.Pair{
			{BranchName: "one", Tip: "t1", Base: "b1"},
			{BranchName: "two", Tip: "t2", Base: "b1"},
		}
		results := o.EvaluateAll(context.Background(), 2, pairs)
		Expect(results).To(HaveLen(2))
		Expect(results[0].BranchName).To(Equal("one"))
		Expect(results[0].Merged).To(BeTrue())
		Expect(results[1].BranchName).To(Equal("two"))
		Expect(results[1].Merged).To(BeFalse())
	})
})

