package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownCategory is returned when the reject policy meets a label with no alias entry.
var ErrUnknownCategory = errors.New("unknown category")

// UnknownPolicy decides what normalization does with a label that has no alias entry.
type UnknownPolicy string

const (
	// PolicyPassthrough leaves the label unchanged.
	PolicyPassthrough UnknownPolicy = "passthrough"
	// PolicyReject fails normalization.
	PolicyReject UnknownPolicy = "reject"
	// PolicyOther replaces the label with a fixed fallback label.
	PolicyOther UnknownPolicy = "other"
)

// DefaultOtherLabel is the fallback label used by PolicyOther.
const DefaultOtherLabel = "Other"

// ParseUnknownPolicy parses a policy name, treating the empty string as passthrough.
func ParseUnknownPolicy(s string) (UnknownPolicy, error) {
	switch p := UnknownPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyPassthrough, nil
	case PolicyPassthrough, PolicyReject, PolicyOther:
		return p, nil
	default:
		return "", fmt.Errorf("invalid unknown-category policy %q (want passthrough, reject or other)", s)
	}
}

// AliasTable maps raw spellings of a categorical value to canonical labels.
// Every canonical label also maps to itself.
type AliasTable struct {
	entries map[string]string
}

// NewAliasTable builds a table from raw → canonical pairs.
func NewAliasTable(aliases map[string]string) AliasTable {
	t := AliasTable{entries: make(map[string]string, len(aliases)*2)}
	for raw, canonical := range aliases {
		t.entries[raw] = canonical
	}
	for _, canonical := range aliases {
		if _, ok := t.entries[canonical]; !ok {
			t.entries[canonical] = canonical
		}
	}
	return t
}

// FatContentAliases is the alias table for Item_Fat_Content.
func FatContentAliases() AliasTable {
	return NewAliasTable(map[string]string{
		"Low Fat": "Low Fat",
		"Regular": "Regular",
		"LF":      "Low Fat",
		"reg":     "Regular",
		"low fat": "Low Fat",
	})
}

// Lookup returns the canonical label for raw.
func (t AliasTable) Lookup(raw string) (string, bool) {
	canonical, ok := t.entries[raw]
	return canonical, ok
}

// Len returns the number of entries, canonical self-mappings included.
func (t AliasTable) Len() int {
	return len(t.entries)
}

// Canonical returns the distinct canonical labels, sorted.
func (t AliasTable) Canonical() []string {
	seen := make(map[string]struct{})
	for _, c := range t.entries {
		seen[c] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Resolver applies an AliasTable under an UnknownPolicy.
type Resolver struct {
	Table      AliasTable
	Policy     UnknownPolicy
	OtherLabel string
}

// Resolve returns the canonical form of raw.
func (r Resolver) Resolve(raw string) (string, error) {
	if canonical, ok := r.Table.Lookup(raw); ok {
		return canonical, nil
	}
	switch r.Policy {
	case PolicyReject:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
	case PolicyOther:
		if r.OtherLabel == "" {
			return DefaultOtherLabel, nil
		}
		return r.OtherLabel, nil
	default:
		return raw, nil
	}
}
