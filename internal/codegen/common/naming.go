package common

import (
	"strconv"
	"strings"
	"unicode"
)

// IdentifierMarker is prepended to reserved words and replaces angle
// brackets and similar punctuation in generated identifiers.
const IdentifierMarker = "$"

var identifierReplacer = strings.NewReplacer(
	"<", IdentifierMarker,
	">", IdentifierMarker,
	"|", IdentifierMarker,
	"-", IdentifierMarker,
	"`", IdentifierMarker,
	"=", "",
	"@", "",
	"[", "",
	"]", "",
	"{", "",
	"}", "",
	"(", "",
	")", "",
	",", "",
	".", "_",
	":", "_",
)

// SanitizeIdentifier turns an arbitrary metadata name into a valid C++
// identifier. It is idempotent: SanitizeIdentifier(SanitizeIdentifier(s))
// == SanitizeIdentifier(s).
func SanitizeIdentifier(name string) string {
	s := identifierReplacer.Replace(strings.TrimSpace(name))
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, s)

	if s == "" {
		return "_"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	if IsReserved(s) {
		s = IdentifierMarker + s
	}
	return s
}

// CleanName strips generic brackets, arity backticks and braces from a
// declared name. Empty names become "_".
func CleanName(name string) string {
	s := strings.NewReplacer("<", "", ">", "", "`", "", "{", "", "}", "").Replace(name)
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return s
}

// FileName removes characters that are not allowed in file names.
func FileName(name string) string {
	s := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return -1
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, name)
	s = strings.TrimSpace(s)
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}

// UniqueNames makes names pairwise unique: the first occurrence is kept and
// every repeat gets the lowest free "_1", "_2", ... suffix, counted per name.
// A suffixed name never reuses a name already in the output.
func UniqueNames(names []string) []string {
	out := make([]string, len(names))
	taken := make(map[string]bool, len(names))
	next := make(map[string]int, len(names))
	for i, n := range names {
		name := n
		for taken[name] {
			next[n]++
			name = n + "_" + strconv.Itoa(next[n])
		}
		taken[name] = true
		out[i] = name
	}
	return out
}

// NamespaceSegments splits a dotted namespace into sanitized identifier
// segments. The global namespace yields a single "GlobalNamespace" segment.
func NamespaceSegments(ns, global string) []string {
	ns = strings.TrimSpace(ns)
	if ns == "" || ns == global {
		return []string{global}
	}
	var segs []string
	for _, part := range strings.Split(ns, ".") {
		if part == "" {
			continue
		}
		segs = append(segs, SanitizeIdentifier(part))
	}
	if len(segs) == 0 {
		return []string{global}
	}
	return segs
}

// ModuleIdentifier derives a namespace identifier from an assembly file
// name: "Assembly-CSharp.dll" -> "Assembly_CSharp".
func ModuleIdentifier(module string) string {
	s := strings.TrimSuffix(module, ".dll")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "-", "_")
	return SanitizeIdentifier(s)
}
