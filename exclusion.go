package jwtgate

import (
	"errors"
	"fmt"
	"strings"
)

// Exclusion configuration errors returned by New and ParseExclusions.
var (
	ErrExclusionType    = errors.New("exclusion entry must be a path string or a path/methods object")
	ErrExclusionKeys    = errors.New(`structured exclusion must contain exactly the keys "path" and "methods"`)
	ErrExclusionPath    = errors.New(`exclusion path must be non-empty and start with "/"`)
	ErrExclusionMethods = errors.New(`exclusion methods must be "*" or a non-empty list of HTTP methods`)
)

// MethodsAll is the sentinel accepted in the duck-typed exclusion form to
// exempt a path prefix for every HTTP method.
const MethodsAll = "*"

// ExclusionRule exempts a path prefix, optionally scoped to a method set,
// from mandatory authentication. Rules are validated once when the Gate is
// constructed; matching is a plain prefix check per request.
type ExclusionRule struct {
	prefix  string
	methods map[string]struct{} // nil means every method
}

// Path builds a rule exempting every method under the given path prefix.
// Exempting "/docs" also exempts "/docs/anything".
func Path(prefix string) ExclusionRule {
	return ExclusionRule{prefix: prefix}
}

// PathMethods builds a rule exempting the given path prefix for the listed
// HTTP methods only. Methods are matched case-insensitively.
func PathMethods(prefix string, methods ...string) ExclusionRule {
	set := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		set[strings.ToUpper(m)] = struct{}{}
	}
	return ExclusionRule{prefix: prefix, methods: set}
}

func (r ExclusionRule) validate() error {
	if r.prefix == "" || !strings.HasPrefix(r.prefix, "/") {
		return fmt.Errorf("%w: %q", ErrExclusionPath, r.prefix)
	}
	if r.methods != nil && len(r.methods) == 0 {
		return fmt.Errorf("%w: path %q", ErrExclusionMethods, r.prefix)
	}
	return nil
}

func (r ExclusionRule) matches(path, method string) bool {
	if !strings.HasPrefix(path, r.prefix) {
		return false
	}
	if r.methods == nil {
		return true
	}
	_, ok := r.methods[strings.ToUpper(method)]
	return ok
}

// isExempt reports whether any rule exempts the (path, method) pair. No
// rules, or no match, means authentication is mandatory.
func isExempt(rules []ExclusionRule, path, method string) bool {
	for _, r := range rules {
		if r.matches(path, method) {
			return true
		}
	}
	return false
}

// ParseExclusions converts the duck-typed configuration form into typed
// rules: a bare string is a path-only rule, and a map with exactly the keys
// "path" and "methods" is a method-scoped rule whose methods value is either
// MethodsAll or a non-empty list of method tokens. Every entry is validated;
// the first offending entry aborts the parse.
func ParseExclusions(entries []any) ([]ExclusionRule, error) {
	rules := make([]ExclusionRule, 0, len(entries))

	for i, entry := range entries {
		switch e := entry.(type) {
		case string:
			rules = append(rules, Path(e))

		case map[string]any:
			if len(e) != 2 {
				return nil, fmt.Errorf("%w: entry %d has keys %v", ErrExclusionKeys, i, mapKeys(e))
			}
			path, ok := e["path"].(string)
			if !ok {
				return nil, fmt.Errorf("%w: entry %d", ErrExclusionKeys, i)
			}
			methodsValue, ok := e["methods"]
			if !ok {
				return nil, fmt.Errorf("%w: entry %d", ErrExclusionKeys, i)
			}

			rule, err := methodsRule(path, methodsValue)
			if err != nil {
				return nil, fmt.Errorf("%w (entry %d)", err, i)
			}
			rules = append(rules, rule)

		default:
			return nil, fmt.Errorf("%w: entry %d is %T", ErrExclusionType, i, entry)
		}

		if err := rules[len(rules)-1].validate(); err != nil {
			return nil, fmt.Errorf("%w (entry %d)", err, i)
		}
	}

	return rules, nil
}

func methodsRule(path string, methodsValue any) (ExclusionRule, error) {
	switch m := methodsValue.(type) {
	case string:
		if m != MethodsAll {
			return ExclusionRule{}, fmt.Errorf("%w: got %q", ErrExclusionMethods, m)
		}
		return Path(path), nil

	case []string:
		if len(m) == 0 {
			return ExclusionRule{}, ErrExclusionMethods
		}
		return PathMethods(path, m...), nil

	case []any:
		if len(m) == 0 {
			return ExclusionRule{}, ErrExclusionMethods
		}
		methods := make([]string, 0, len(m))
		for _, v := range m {
			s, ok := v.(string)
			if !ok {
				return ExclusionRule{}, fmt.Errorf("%w: got %T", ErrExclusionMethods, v)
			}
			methods = append(methods, s)
		}
		return PathMethods(path, methods...), nil

	default:
		return ExclusionRule{}, fmt.Errorf("%w: got %T", ErrExclusionMethods, methodsValue)
	}
}

func mapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
