package service

import (
	"fmt"
	"strings"
)

// SearchMode decides how keyword search compares text.
type SearchMode int

const (
	SearchCaseSensitive SearchMode = iota
	SearchCaseInsensitive
)

func ParseSearchMode(raw string) (SearchMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sensitive", "case-sensitive":
		return SearchCaseSensitive, nil
	case "insensitive", "case-insensitive":
		return SearchCaseInsensitive, nil
	default:
		return 0, fmt.Errorf("invalid search mode %q, expected sensitive or insensitive", raw)
	}
}

func (m SearchMode) String() string {
	if m == SearchCaseInsensitive {
		return "insensitive"
	}
	return "sensitive"
}

// OwnerPolicy lists the commands restricted to the task owner.
type OwnerPolicy struct {
	Update bool
	Delete bool
}

// ParseOwnerPolicy accepts "none", "all" or a comma-separated subset of "update,delete".
func ParseOwnerPolicy(raw string) (OwnerPolicy, error) {
	var p OwnerPolicy
	for _, part := range strings.Split(raw, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "", "none":
		case "all":
			p.Update, p.Delete = true, true
		case "update":
			p.Update = true
		case "delete":
			p.Delete = true
		default:
			return OwnerPolicy{}, fmt.Errorf("invalid owner check %q", part)
		}
	}
	return p, nil
}

func (p OwnerPolicy) String() string {
	switch {
	case p.Update && p.Delete:
		return "update,delete"
	case p.Update:
		return "update"
	case p.Delete:
		return "delete"
	default:
		return "none"
	}
}

// Policy bundles the behavior switches of one presentation layer.
type Policy struct {
	Search SearchMode
	Owner  OwnerPolicy
}
