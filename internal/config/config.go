// Package config resolves git-trim's run-time options from four layers,
// in ascending precedence: built-in defaults, an optional .git-trim.yml
// discovered by walking up from the working directory, native "trim.*" git
// config keys, and explicit CLI flags.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/foriequal0/git-trim/internal/gitx"
)

// Config is the fully resolved set of options the pipeline runs with.
type Config struct {
	Bases          []string
	Protected      []string
	Delete         string
	Update         bool
	UpdateInterval time.Duration
	Confirm        bool
	Detach         bool
	DryRun         bool
}

// Default returns the built-in defaults (spec.md §6).
func Default() Config {
	return Config{
		Delete:         "merged:origin",
		Update:         true,
		UpdateInterval: 5 * time.Second,
		Confirm:        true,
		Detach:         true,
	}
}

// CLIOverrides is the set of values the user explicitly set on the command
// line. A field's paired *Set flag distinguishes "the user passed this" from
// "this is cobra's zero value" — the same distinction args.rs draws between
// an explicit flag and an unset one.
type CLIOverrides struct {
	// ConfigPath is an explicit --config path. When set, it is loaded
	// directly instead of walking up from dir for FileName.
	ConfigPath string

	Bases     []string
	BasesSet  bool
	Protected []string
	ProtSet   bool
	Delete    string
	DeleteSet bool

	Update   bool
	NoUpdate bool

	UpdateInterval    time.Duration
	UpdateIntervalSet bool

	Confirm   bool
	NoConfirm bool

	Detach   bool
	NoDetach bool

	DryRun bool
}

// Resolve merges defaults, git config, and CLI overrides for dir's
// repository into a final Config.
func Resolve(ctx context.Context, r gitx.Runner, dir string, cli CLIOverrides) (Config, error) {
	cfg := Default()

	path := cli.ConfigPath
	found := path != ""
	if !found {
		var err error
		path, found, err = findNearestFile(dir)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}
	if found {
		fc, err := loadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		if err := applyFileConfig(&cfg, fc); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	if values, ok := gitx.ConfigGetAll(ctx, r, dir, "trim.bases"); ok {
		cfg.Bases = values
	}
	if values, ok := gitx.ConfigGetAll(ctx, r, dir, "trim.protected"); ok {
		cfg.Protected = values
	}
	if value, ok := gitx.ConfigGet(ctx, r, dir, "trim.delete"); ok {
		cfg.Delete = value
	}
	if value, ok := gitx.ConfigGetBool(ctx, r, dir, "trim.update"); ok {
		cfg.Update = value
	}
	if value, ok := gitx.ConfigGet(ctx, r, dir, "trim.updateInterval"); ok {
		seconds, err := parseSeconds(value)
		if err != nil {
			return Config{}, fmt.Errorf("trim.updateInterval: %w", err)
		}
		cfg.UpdateInterval = seconds
	}
	if value, ok := gitx.ConfigGetBool(ctx, r, dir, "trim.confirm"); ok {
		cfg.Confirm = value
	}
	if value, ok := gitx.ConfigGetBool(ctx, r, dir, "trim.detach"); ok {
		cfg.Detach = value
	}

	if cli.BasesSet {
		cfg.Bases = cli.Bases
	}
	if cli.ProtSet {
		cfg.Protected = cli.Protected
	}
	if cli.DeleteSet {
		cfg.Delete = cli.Delete
	}

	update, err := resolveExclusiveBool("update", cfg.Update, cli.Update, cli.NoUpdate)
	if err != nil {
		return Config{}, err
	}
	cfg.Update = update

	if cli.UpdateIntervalSet {
		cfg.UpdateInterval = cli.UpdateInterval
	}

	confirm, err := resolveExclusiveBool("confirm", cfg.Confirm, cli.Confirm, cli.NoConfirm)
	if err != nil {
		return Config{}, err
	}
	cfg.Confirm = confirm

	detach, err := resolveExclusiveBool("detach", cfg.Detach, cli.Detach, cli.NoDetach)
	if err != nil {
		return Config{}, err
	}
	cfg.Detach = detach

	cfg.DryRun = cli.DryRun

	return cfg, nil
}

// resolveExclusiveBool applies one of a pair of boolean flags like
// --update/--no-update. Setting both is a configuration error rather than
// letting the last one silently win.
func resolveExclusiveBool(name string, current, pos, neg bool) (bool, error) {
	if pos && neg {
		return false, fmt.Errorf("--%s and --no-%s are mutually exclusive", name, name)
	}
	if pos {
		return true, nil
	}
	if neg {
		return false, nil
	}
	return current, nil
}

func parseSeconds(s string) (time.Duration, error) {
	var seconds int64
	if _, err := fmt.Sscanf(s, "%d", &seconds); err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return time.Duration(seconds) * time.Second, nil
}
