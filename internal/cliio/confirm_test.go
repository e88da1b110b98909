package cliio_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/foriequal0/git-trim/internal/cliio"
)

var _ = Describe("Confirm", func() {
	It("accepts y", func() {
		var out bytes.Buffer
		ok, err := cliio.Confirm(strings.NewReader("y\n"), &out, "proceed? [y/N]: ")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(out.String()).To(Equal("proceed? [y/N]: "))
	})

	It("accepts yes case-insensitively", func() {
		ok, err := cliio.Confirm(strings.NewReader("YES\n"), &bytes.Buffer{}, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("rejects a blank line", func() {
		ok, err := cliio.Confirm(strings.NewReader("\n"), &bytes.Buffer{}, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("rejects EOF with no input", func() {
		ok, err := cliio.Confirm(strings.NewReader(""), &bytes.Buffer{}, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("rejects n", func() {
		ok, err := cliio.Confirm(strings.NewReader("n\n"), &bytes.Buffer{}, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})
})
