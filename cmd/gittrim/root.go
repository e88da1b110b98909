// Package gittrim contains the Cobra command tree for the git-trim CLI.
package gittrim

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	// envLogLevel enables trace/debug output the same as repeating -v,
	// without needing a flag at every call site (CI wrappers, cron jobs).
	envLogLevel = "GIT_TRIM_LOG"
	// envThreads caps the oracle's worker pool; see workerCount.
	envThreads = "GIT_TRIM_THREADS"
	// defaultWorkers is workerCount's fallback when envThreads is unset or
	// unparseable.
	defaultWorkers = 8
)

var (
	// Global flags
	flagVerbose int
	flagQuiet   bool
	flagNoColor bool
	// colorOutputEnabled is set per run based on output format and TTY detection.
	colorOutputEnabled bool
	// exitCode tracks the run's exit code: 0 success, 1 configuration or
	// execution failure, 101 reserved for panics recovered at main.
	exitCode int
	// isTerminalFD is overridable in tests.
	isTerminalFD = term.IsTerminal
	// exitFunc is overridable in tests.
	exitFunc = os.Exit
)

var rootCmd = &cobra.Command{
	Use:   "git-trim",
	Short: "Classify and delete merged/stray git branches",
	Long:  "git-trim scans local and remote-tracking branches, classifies each against a set of base branches, and deletes the ones that are safely reclaimable.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// NO_COLOR is a standard opt-out and should behave like --no-color.
		if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
			flagNoColor = true
		}
		if v := logLevelVerbosity(os.Getenv(envLogLevel)); v > flagVerbose {
			flagVerbose = v
		}
	},
	RunE: runTrim,
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "increase output verbosity (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	registerTrimFlags(rootCmd)
}

// Execute runs the root command and terminates the process with its exit
// code.
func Execute() {
	exitFunc(ExecuteWithExitCode())
}

// ExecuteWithExitCode runs the root command and returns a shell-friendly
// exit code instead of terminating the process, so callers (and tests) can
// inspect it.
func ExecuteWithExitCode() int {
	exitCode = 0
	colorOutputEnabled = false
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

// logLevelVerbosity maps GIT_TRIM_LOG's value to the -v count it's
// equivalent to, so it composes with repeated -v instead of overriding it.
func logLevelVerbosity(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return 2
	case "debug":
		return 1
	default:
		return 0
	}
}

// workerCount caps the oracle's worker pool from GIT_TRIM_THREADS, falling
// back to defaultWorkers when it's unset, non-numeric, or non-positive.
func workerCount() int {
	if raw := strings.TrimSpace(os.Getenv(envThreads)); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultWorkers
}

func raiseExitCode(code int) {
	if code > exitCode {
		exitCode = code
	}
}

func infof(cmd *cobra.Command, format string, args ...any) {
	if flagQuiet {
		return
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

func debugf(cmd *cobra.Command, format string, args ...any) {
	if flagQuiet || flagVerbose <= 0 {
		return
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

func setColorOutputMode(cmd *cobra.Command) {
	colorOutputEnabled = shouldUseColorOutput(cmd)
}

func shouldUseColorOutput(cmd *cobra.Command) bool {
	if flagNoColor {
		return false
	}
	file, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return isTerminalFD(int(file.Fd()))
}
