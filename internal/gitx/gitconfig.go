package gitx

import (
	"context"
	"strings"
)

// ConfigGetAll reads every value of a possibly multi-valued git config key,
// e.g. "trim.bases" set via repeated "git config --add". ok is false when
// the key is unset.
func ConfigGetAll(ctx context.Context, r Runner, dir, key string) (values []string, ok bool) {
	out, err := r.Run(ctx, dir, "config", "--get-all", key)
	if err != nil {
		return nil, false
	}
	trimmed := strings.TrimRight(out, "\n")
	if trimmed == "" {
		return nil, false
	}
	return strings.Split(trimmed, "\n"), true
}

// ConfigGet reads a single-valued git config key. ok is false when the key
// is unset.
func ConfigGet(ctx context.Context, r Runner, dir, key string) (value string, ok bool) {
	out, err := r.Run(ctx, dir, "config", "--get", key)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(out), true
}

// ConfigGetBool reads a git config key as a boolean ("true"/"false"/"1"/"0"
// etc, per git's own bool parsing). ok is false when the key is unset or
// unparseable.
func ConfigGetBool(ctx context.Context, r Runner, dir, key string) (value bool, ok bool) {
	out, err := r.Run(ctx, dir, "config", "--bool", "--get", key)
	if err != nil {
		return false, false
	}
	switch strings.TrimSpace(out) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}
