package config_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/foriequal0/git-trim/internal/config"
	"github.com/foriequal0/git-trim/internal/gitxtest"
)

var _ = Describe("the .git-trim.yml layer", func() {
	var repoDir string

	BeforeEach(func() {
		root, err := os.MkdirTemp("", "git-trim-config-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { _ = os.RemoveAll(root) })

		repoDir = filepath.Join(root, "repo")
		Expect(os.MkdirAll(repoDir, 0o755)).To(Succeed())
	})

	writeFile := func(dir, content string) {
		Expect(os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644)).To(Succeed())
	}

	mockWithUnsetGitConfig := func(dir string) *gitxtest.MockRunner {
		r := gitxtest.NewMockRunner()
		r.On(dir, []string{"config", "--get-all", "trim.bases"}, "", errConfigUnset)
		r.On(dir, []string{"config", "--get-all", "trim.protected"}, "", errConfigUnset)
		r.On(dir, []string{"config", "--get", "trim.delete"}, "", errConfigUnset)
		r.On(dir, []string{"config", "--bool", "--get", "trim.update"}, "", errConfigUnset)
		r.On(dir, []string{"config", "--get", "trim.updateInterval"}, "", errConfigUnset)
		r.On(dir, []string{"config", "--bool", "--get", "trim.confirm"}, "", errConfigUnset)
		r.On(dir, []string{"config", "--bool", "--get", "trim.detach"}, "", errConfigUnset)
		return r
	}

	It("overrides the built-in defaults", func() {
		writeFile(repoDir, "bases: [main]\ndelete: stray\nconfirm: false\nupdateInterval: 45s\n")
		r := mockWithUnsetGitConfig(repoDir)

		cfg, err := config.Resolve(context.Background(), r, repoDir, config.CLIOverrides{})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Bases).To(Equal([]string{"main"}))
		Expect(cfg.Delete).To(Equal("stray"))
		Expect(cfg.Confirm).To(BeFalse())
		Expect(cfg.UpdateInterval).To(Equal(45 * time.Second))
	})

	It("is discovered from a subdirectory by walking up", func() {
		sub := filepath.Join(repoDir, "nested", "deeper")
		Expect(os.MkdirAll(sub, 0o755)).To(Succeed())
		writeFile(repoDir, "delete: stray\n")
		r := mockWithUnsetGitConfig(sub)

		cfg, err := config.Resolve(context.Background(), r, sub, config.CLIOverrides{})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Delete).To(Equal("stray"))
	})

	It("is overridden by a native git config key", func() {
		writeFile(repoDir, "delete: stray\n")
		r := mockWithUnsetGitConfig(repoDir)
		r.On(repoDir, []string{"config", "--get", "trim.delete"}, "merged:upstream\n", nil)

		cfg, err := config.Resolve(context.Background(), r, repoDir, config.CLIOverrides{})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Delete).To(Equal("merged:upstream"))
	})

	It("rejects an unparsable updateInterval", func() {
		writeFile(repoDir, "updateInterval: not-a-duration\n")
		r := mockWithUnsetGitConfig(repoDir)

		_, err := config.Resolve(context.Background(), r, repoDir, config.CLIOverrides{})
		Expect(err).To(HaveOccurred())
	})
})
