// Package filter parses the --delete range grammar and applies it,
// together with the protected-glob list, to classified branches.
package filter

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/foriequal0/git-trim/internal/model"
)

// Scope restricts a remote-capable range token to one remote, or to every
// remote via All (the "*" wildcard, or an absent scope per §4.4).
type Scope struct {
	All    bool
	Remote string // empty iff All
}

func (s Scope) Covers(remote string) bool {
	return s.All || s.Remote == remote
}

func parseScope(s string) (Scope, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "*":
		return Scope{All: true}, nil
	default:
		return Scope{Remote: s}, nil
	}
}

// remoteScopedTags are the classifications whose grant requires checking a
// remote scope.
var remoteScopedTags = map[model.Classification]bool{
	model.MergedRemote:         true,
	model.Diverged:             true,
	model.MergedRemoteTracking: true,
}

// grant is one (tag, scope) pair a parsed --delete token contributes.
type grant struct {
	tag   model.Classification
	scope Scope // zero value for tags not in remoteScopedTags
}

// DeleteFilter is the parsed set of (classification, scope) grants a
// --delete value expands to.
type DeleteFilter struct {
	grants []grant
}

// ParseDeleteFilter parses a comma-separated --delete value into a
// DeleteFilter. Each token has the shape <range>[:<remote>].
func ParseDeleteFilter(csv string) (DeleteFilter, error) {
	var df DeleteFilter
	for _, tok := range strings.Split(csv, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		grants, err := parseRangeToken(tok)
		if err != nil {
			return DeleteFilter{}, err
		}
		df.grants = append(df.grants, grants...)
	}
	return df, nil
}

func parseRangeToken(tok string) ([]grant, error) {
	name, rest, hasScope := strings.Cut(tok, ":")
	name = strings.TrimSpace(name)

	switch name {
	case "merged":
		scope, err := resolveScope(hasScope, rest)
		if err != nil {
			return nil, err
		}
		return []grant{
			{tag: model.MergedLocal},
			{tag: model.MergedNonTracking},
			{tag: model.MergedRemote, scope: scope},
		}, nil
	case "merged-local":
		if hasScope {
			return nil, fmt.Errorf("delete range %q does not take a :<remote> scope", name)
		}
		return []grant{{tag: model.MergedLocal}, {tag: model.MergedNonTracking}}, nil
	case "merged-remote":
		scope, err := resolveScope(hasScope, rest)
		if err != nil {
			return nil, err
		}
		return []grant{{tag: model.MergedRemote, scope: scope}}, nil
	case "stray":
		if hasScope {
			return nil, fmt.Errorf("delete range %q does not take a :<remote> scope", name)
		}
		return []grant{{tag: model.Stray}}, nil
	case "diverged":
		scope, err := resolveScope(hasScope, rest)
		if err != nil {
			return nil, err
		}
		return []grant{{tag: model.Diverged, scope: scope}}, nil
	case "local":
		if hasScope {
			return nil, fmt.Errorf("delete range %q does not take a :<remote> scope", name)
		}
		return []grant{
			{tag: model.MergedLocal},
			{tag: model.MergedNonTracking},
			{tag: model.Stray},
		}, nil
	case "remote":
		scope, err := resolveScope(hasScope, rest)
		if err != nil {
			return nil, err
		}
		return []grant{{tag: model.MergedRemoteTracking, scope: scope}}, nil
	default:
		return nil, fmt.Errorf("invalid delete range %q", tok)
	}
}

// resolveScope handles the §4.4 rule that an absent :<remote> on a
// remote-capable token covers every remote, same as an explicit :*.
func resolveScope(hasScope bool, rest string) (Scope, error) {
	if !hasScope {
		return Scope{All: true}, nil
	}
	return parseScope(rest)
}

// Allows reports whether the filter permits deleting a branch classified as
// class, given its remote (empty for classifications with no remote side).
func (df DeleteFilter) Allows(class model.Classification, remote string) bool {
	for _, g := range df.grants {
		if g.tag != class {
			continue
		}
		if !remoteScopedTags[class] || g.scope.Covers(remote) {
			return true
		}
	}
	return false
}

// DefaultDeleteFilter is the default --delete value: merged:origin.
func DefaultDeleteFilter() DeleteFilter {
	df, err := ParseDeleteFilter("merged:origin")
	if err != nil {
		// unreachable: the literal above is always valid.
		panic(err)
	}
	return df
}

// hasPermission reports whether df grants any scope of one of the given
// tags, regardless of which branch it ends up matching. Used to decide
// whether the user explicitly opted into deleting the checked-out branch.
func (df DeleteFilter) hasPermission(tags ...model.Classification) bool {
	for _, g := range df.grants {
		for _, t := range tags {
			if g.tag == t {
				return true
			}
		}
	}
	return false
}

// Decision is the filter's verdict for one local branch: whether its local
// ref and, if it tracks a live upstream, that upstream's remote ref pass
// deletion.
type Decision struct {
	DeleteLocal  bool
	DeleteRemote bool
}

// ApplyLocal runs the range filter, the protected-glob demotion, and the
// HEAD demotion over a classified local branch. A base is already Kept by
// the classifier and so never passes; the checked-out branch is demoted to
// Kept unless df was given explicit permission via a stray or diverged
// token.
func ApplyLocal(br model.BranchResult, df DeleteFilter, protected []string) Decision {
	if MatchesProtected(br.Local.ShortName, protected) {
		return Decision{}
	}
	if br.IsHead && !df.hasPermission(model.Stray, model.Diverged) {
		return Decision{}
	}

	remote := ""
	if br.Remote != nil {
		remote = br.Remote.Remote
	}

	var d Decision
	d.DeleteLocal = df.Allows(br.LocalClass, remote)
	if br.Remote != nil {
		d.DeleteRemote = df.Allows(br.RemoteClass, br.Remote.Remote)
	}
	return d
}

// ApplyRemoteTracking runs the range filter and the protected-glob
// demotion over a standalone remote-tracking branch (one no local branch
// follows).
func ApplyRemoteTracking(rt model.RemoteTrackingResult, df DeleteFilter, protected []string) bool {
	if MatchesProtected(rt.Remote.ShortName, protected) {
		return false
	}
	return df.Allows(rt.Class, rt.Remote.Remote)
}

// MatchesProtected reports whether shortName matches any of the protected
// glob patterns. Patterns support doublestar's "**" for multi-segment
// branch names such as "release/**".
func MatchesProtected(shortName string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, shortName); ok {
			return true
		}
	}
	return false
}
