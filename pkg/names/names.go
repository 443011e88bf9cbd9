// Copyright (c) 2026 Fermata. All rights reserved.

// Package names selects canonical display names for catalog entities that
// carry several names in mixed scripts.
//
// # Classification
//
// A name is Japanese-script when its first rune falls in Hiragana (U+3040 to
// U+309F), Katakana (U+30A0 to U+30FF), or the CJK unified ideograph block
// (U+4E00 to U+9FFF). Everything else is Western-script.
//
// All functions are pure and total over any list, including the empty one.
package names

import (
	"sort"

	"golang.org/x/text/unicode/norm"
)

// Lang selects which script family the caller wants a main name in.
type Lang string

const (
	// LangJA requests the Japanese-script main name.
	LangJA Lang = "ja"
	// LangEN requests the Western-script main name.
	LangEN Lang = "en"
)

// IsJapanese reports whether the first rune of s is Hiragana, Katakana, or a
// CJK unified ideograph.
func IsJapanese(s string) bool {
	for _, r := range s {
		return (r >= 0x3040 && r <= 0x309F) ||
			(r >= 0x30A0 && r <= 0x30FF) ||
			(r >= 0x4E00 && r <= 0x9FFF)
	}
	return false
}

// Japanese returns the lexicographically smallest Japanese-script name in
// list, by code point. The second result is false when list holds none.
func Japanese(list []string) (string, bool) {
	return smallest(list, true)
}

// Western returns the lexicographically smallest Western-script name in list.
// The second result is false when list holds none.
func Western(list []string) (string, bool) {
	return smallest(list, false)
}

// Main returns the canonical display name for the requested language.
//
// When the list has a name in the requested script, the lexicographically
// smallest such name wins, independent of insertion order. When it has none,
// the first element of the ORIGINAL unsorted list is returned (or "" for an
// empty list). The fallback deliberately ignores the sort; both halves of
// this rule are a fixed contract.
func Main(list []string, lang Lang) string {
	var main string
	var ok bool
	if lang == LangJA {
		main, ok = Japanese(list)
	} else {
		main, ok = Western(list)
	}
	if ok {
		return main
	}
	if len(list) > 0 {
		return list[0]
	}
	return ""
}

// Normalize returns s in Unicode NFC form. Services normalize inbound names
// once at the write boundary so classification and sorting always see one
// encoding of the same text.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// smallest filters list to one script family and picks the sorted minimum.
func smallest(list []string, japanese bool) (string, bool) {
	var candidates []string
	for _, name := range list {
		if IsJapanese(name) == japanese {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Strings(candidates)
	return candidates[0], true
}
