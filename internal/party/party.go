// Package party infers the effective party size of a match from unreliable
// upstream grouping fields and companion-scan evidence.
package party

import "github.com/pable/go-dota-party/internal/model"

// InferSize derives the effective party size for a match. Resolution order,
// first applicable rule wins:
//
//  1. detected companions are ground truth: N companions means a party of N+1
//  2. a positive upstream party_size is taken verbatim
//  3. a non-zero party_id with no usable party_size means "grouped, size
//     unknown", reported as 2
//  4. otherwise solo
//
// Upstream party-size reporting is unreliable for some queue types, so
// companion evidence always wins over upstream metadata. The result is
// never below 1.
func InferSize(m model.Match, companions []model.Companion) int {
	if n := len(companions); n > 0 {
		return n + 1
	}
	if m.PartySize != nil && *m.PartySize > 0 {
		return *m.PartySize
	}
	if m.PartyID != nil && *m.PartyID != 0 {
		return 2
	}
	return 1
}

// Ambiguous reports whether the match qualifies for a companion scan: the
// upstream party size is absent, or inference from upstream fields alone
// yields 2 or less. Matches with a clearly reported party_size > 2 are
// never rescanned.
func Ambiguous(m model.Match) bool {
	if m.PartySize == nil {
		return true
	}
	return InferSize(m, nil) <= 2
}
