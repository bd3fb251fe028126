package types

import (
	"fmt"
	"strings"
)

// FilterTag selects which traffic endpoint role a filter address applies to
type FilterTag string

const (
	// FilterIPSource matches packets whose source is the filter address
	FilterIPSource FilterTag = "IP_SRC"

	// FilterIPDestination matches packets whose destination is the filter address
	FilterIPDestination FilterTag = "IP_DST"

	// FilterIPEither matches packets with the filter address on either end
	FilterIPEither FilterTag = "IP_EITHER"
)

// FilterTags lists every known filter tag
var FilterTags = []FilterTag{FilterIPSource, FilterIPDestination, FilterIPEither}

// ParseFilterTag returns the tag named by s. Matching is exact.
func ParseFilterTag(s string) (FilterTag, error) {
	tag := FilterTag(s)
	if !tag.Valid() {
		return "", fmt.Errorf("unknown filter tag %q (want one of %s)", s, joinFilterTags())
	}
	return tag, nil
}

// Valid reports whether t belongs to the closed set of filter tags
func (t FilterTag) Valid() bool {
	switch t {
	case FilterIPSource, FilterIPDestination, FilterIPEither:
		return true
	}
	return false
}

// Reverse swaps the source and destination roles. IP_EITHER is unchanged.
func (t FilterTag) Reverse() FilterTag {
	switch t {
	case FilterIPSource:
		return FilterIPDestination
	case FilterIPDestination:
		return FilterIPSource
	default:
		return t
	}
}

func (t FilterTag) String() string { return string(t) }

// ReverseFilterTags returns a new slice with every tag reversed when reverse
// is set, or a plain copy otherwise
func ReverseFilterTags(tags []FilterTag, reverse bool) []FilterTag {
	out := make([]FilterTag, len(tags))
	for i, t := range tags {
		if reverse {
			out[i] = t.Reverse()
		} else {
			out[i] = t
		}
	}
	return out
}

func joinFilterTags() string {
	names := make([]string, len(FilterTags))
	for i, t := range FilterTags {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
