package state_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/foriequal0/git-trim/internal/state"
)

var _ = Describe("RecordUpdate and LastUpdate", func() {
	It("round-trips the last update time", func() {
		dir := GinkgoT().TempDir()
		now := time.Unix(1700000000, 0)

		_, ok := state.LastUpdate(dir)
		Expect(ok).To(BeFalse())

		Expect(state.RecordUpdate(dir, now)).To(Succeed())

		got, ok := state.LastUpdate(dir)
		Expect(ok).To(BeTrue())
		Expect(got.Equal(now)).To(BeTrue())
	})
})

var _ = Describe("Overdue", func() {
	It("never fires when the interval is zero", func() {
		dir := GinkgoT().TempDir()
		Expect(state.Overdue(dir, 0, time.Now())).To(BeFalse())
	})

	It("is overdue when no update has ever been recorded", func() {
		dir := GinkgoT().TempDir()
		Expect(state.Overdue(dir, 5*time.Second, time.Now())).To(BeTrue())
	})

	It("is not overdue within the interval, and overdue after it elapses", func() {
		dir := GinkgoT().TempDir()
		now := time.Unix(1700000000, 0)
		Expect(state.RecordUpdate(dir, now)).To(Succeed())

		Expect(state.Overdue(dir, 10*time.Second, now.Add(3*time.Second))).To(BeFalse())
		Expect(state.Overdue(dir, 10*time.Second, now.Add(11*time.Second))).To(BeTrue())
	})
})
