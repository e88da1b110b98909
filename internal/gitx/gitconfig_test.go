package gitx_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/foriequal0/git-trim/internal/gitx"
	"github.com/foriequal0/git-trim/internal/gitxtest"
)

var _ = Describe("ConfigGetAll", func() {
	It("splits multiple values on newlines", func() {
		r := gitxtest.NewMockRunner()
		r.On("/repo", []string{"config", "--get-all", "trim.bases"}, "master\ndevelop\n", nil)

		values, ok := gitx.ConfigGetAll(context.Background(), r, "/repo", "trim.bases")
		Expect(ok).To(BeTrue())
		Expect(values).To(Equal([]string{"master", "develop"}))
	})

	It("reports ok=false when the key is unset", func() {
		r := gitxtest.NewMockRunner()
		r.On("/repo", []string{"config", "--get-all", "trim.bases"}, "", errExit1)

		_, ok := gitx.ConfigGetAll(context.Background(), r, "/repo", "trim.bases")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("ConfigGetBool", func() {
	It("parses a true value", func() {
		r := gitxtest.NewMockRunner()
		r.On("/repo", []string{"config", "--bool", "--get", "trim.update"}, "true\n", nil)

		value, ok := gitx.ConfigGetBool(context.Background(), r, "/repo", "trim.update")
		Expect(ok).To(BeTrue())
		Expect(value).To(BeTrue())
	})

	It("reports ok=false when unset", func() {
		r := gitxtest.NewMockRunner()
		r.On("/repo", []string{"config", "--bool", "--get", "trim.update"}, "", errExit1)

		_, ok := gitx.ConfigGetBool(context.Background(), r, "/repo", "trim.update")
		Expect(ok).To(BeFalse())
	})
})
