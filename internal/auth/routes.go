package auth

import (
	"fmt"
	"regexp"
	"strings"
)

// RouteClass is the guard's view of a request path.
type RouteClass string

const (
	// ClassExcluded paths never reach classification.
	ClassExcluded  RouteClass = "excluded"
	ClassPublic    RouteClass = "public"
	ClassAuth      RouteClass = "auth"
	ClassProtected RouteClass = "protected"
)

// RouteTable holds the ordered prefix lists and the exclusion matcher. It is immutable once built.
type RouteTable struct {
	auth      []string
	protected []string
	exclude   *regexp.Regexp
}

// NewRouteTable copies the prefix lists, lowercased, and compiles excludePattern. The pattern is
// matched against the lowercased path. An empty pattern excludes nothing.
func NewRouteTable(authRoutes, protectedRoutes []string, excludePattern string) (RouteTable, error) {
	table := RouteTable{
		auth:      normalizePrefixes(authRoutes),
		protected: normalizePrefixes(protectedRoutes),
	}
	if excludePattern != "" {
		re, err := regexp.Compile(excludePattern)
		if err != nil {
			return RouteTable{}, fmt.Errorf("compile exclude pattern: %w", err)
		}
		table.exclude = re
	}
	return table, nil
}

// MustRouteTable is NewRouteTable for static tables.
func MustRouteTable(authRoutes, protectedRoutes []string, excludePattern string) RouteTable {
	table, err := NewRouteTable(authRoutes, protectedRoutes, excludePattern)
	if err != nil {
		panic(err)
	}
	return table
}

// Excluded reports whether path bypasses the guard entirely. Matching ignores letter case, as the
// router does.
func (t RouteTable) Excluded(path string) bool {
	return t.exclude != nil && t.exclude.MatchString(strings.ToLower(path))
}

// Classify assigns path to exactly one class. Auth prefixes are checked before protected ones and
// letter case is ignored, so /Dashboard is as protected as /dashboard.
func (t RouteTable) Classify(path string) RouteClass {
	path = strings.ToLower(path)
	if matchesAny(path, t.auth) {
		return ClassAuth
	}
	if matchesAny(path, t.protected) {
		return ClassProtected
	}
	return ClassPublic
}

// AuthRoutes returns a copy of the auth prefixes.
func (t RouteTable) AuthRoutes() []string {
	return append([]string(nil), t.auth...)
}

// ProtectedRoutes returns a copy of the protected prefixes.
func (t RouteTable) ProtectedRoutes() []string {
	return append([]string(nil), t.protected...)
}

// Overlaps lists auth prefixes that share paths with a protected prefix; auth wins for those at
// request time.
func (t RouteTable) Overlaps() []string {
	var out []string
	for _, a := range t.auth {
		for _, p := range t.protected {
			if matchesAny(a, []string{p}) || matchesAny(p, []string{a}) {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

func normalizePrefixes(prefixes []string) []string {
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		if len(p) > 1 {
			p = strings.TrimRight(p, "/")
			if p == "" {
				p = "/"
			}
		}
		out = append(out, p)
	}
	return out
}

// matchesAny matches whole path segments: /dashboard covers /dashboard and /dashboard/x but not /dashboards.
func matchesAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p == "/" || path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
