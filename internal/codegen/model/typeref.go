package model

import (
	"strings"
)

// RefKind is the structural shape of a type descriptor.
type RefKind int

const (
	RefNamed RefKind = iota
	RefArray
	RefGeneric
	RefPointer
)

// TypeRef describes a type as spelled in metadata: a plain name, an array
// of an element type, a generic instance with arguments, or a pointer.
// Classification into primitives, enums and containers is done by the
// generators against a Model.
type TypeRef struct {
	Kind RefKind
	Name string     // RefNamed and RefGeneric
	Elem *TypeRef   // RefArray and RefPointer
	Args []*TypeRef // RefGeneric
	Rank int        // RefArray
}

// Named returns a descriptor for a plain type name.
func Named(name string) *TypeRef {
	return &TypeRef{Kind: RefNamed, Name: name}
}

// ArrayOf returns a single-rank array of elem.
func ArrayOf(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: RefArray, Elem: elem, Rank: 1}
}

// GenericOf returns a generic instance descriptor.
func GenericOf(name string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Kind: RefGeneric, Name: name, Args: args}
}

// String renders the descriptor back in C# spelling.
func (r *TypeRef) String() string {
	if r == nil {
		return ""
	}
	switch r.Kind {
	case RefArray:
		return r.Elem.String() + "[" + strings.Repeat(",", max(r.Rank-1, 0)) + "]"
	case RefPointer:
		return r.Elem.String() + "*"
	case RefGeneric:
		args := make([]string, len(r.Args))
		for i, a := range r.Args {
			args[i] = a.String()
		}
		return r.Name + "<" + strings.Join(args, ", ") + ">"
	default:
		return r.Name
	}
}

// ParseTypeRef parses a C#-style type spelling such as
// "Dictionary<string, List<int>>", "float[]", "byte*" or "System.Int32".
// Parameter modifiers (out, ref, in, params) are ignored.
func ParseTypeRef(s string) *TypeRef {
	s = strings.TrimSpace(s)
	for _, mod := range []string{"out ", "ref ", "in ", "params ", "readonly ", "this "} {
		for strings.HasPrefix(s, mod) {
			s = strings.TrimSpace(s[len(mod):])
		}
	}
	if s == "" {
		return Named("")
	}

	switch {
	case strings.HasSuffix(s, "*"):
		return &TypeRef{Kind: RefPointer, Elem: ParseTypeRef(s[:len(s)-1])}
	case strings.HasSuffix(s, "&"):
		return ParseTypeRef(s[:len(s)-1])
	case strings.HasSuffix(s, "?"):
		return GenericOf("Nullable", ParseTypeRef(s[:len(s)-1]))
	case strings.HasSuffix(s, "]"):
		open := matchingOpen(s, len(s)-1, '[', ']')
		if open > 0 {
			rank := strings.Count(s[open:], ",") + 1
			return &TypeRef{Kind: RefArray, Elem: ParseTypeRef(s[:open]), Rank: rank}
		}
	case strings.HasSuffix(s, ">"):
		open := matchingOpen(s, len(s)-1, '<', '>')
		if open > 0 {
			name := stripArity(strings.TrimSpace(s[:open]))
			var args []*TypeRef
			for _, part := range SplitTopLevel(s[open+1:len(s)-1], ',') {
				args = append(args, ParseTypeRef(part))
			}
			return &TypeRef{Kind: RefGeneric, Name: name, Args: args}
		}
	}
	return Named(stripArity(s))
}

// SplitTopLevel splits s on sep, ignoring separators nested inside angle
// brackets, square brackets, parentheses or quoted literals. Parts are
// trimmed; empty parts are dropped.
func SplitTopLevel(s string, sep byte) []string {
	var parts []string
	start := 0
	scanTopLevel(s, sep, func(i int) bool {
		parts = appendPart(parts, s[start:i])
		start = i + 1
		return true
	})
	return appendPart(parts, s[start:])
}

// IndexTopLevel returns the index of the first sep outside any bracket
// nesting or quoted literal, or -1.
func IndexTopLevel(s string, sep byte) int {
	idx := -1
	scanTopLevel(s, sep, func(i int) bool {
		idx = i
		return false
	})
	return idx
}

// scanTopLevel calls fn for every top-level occurrence of sep until fn
// returns false.
func scanTopLevel(s string, sep byte, fn func(i int) bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '<' || c == '[' || c == '(':
			depth++
		case (c == '>' || c == ']' || c == ')') && depth > 0:
			depth--
		case c == sep && depth == 0:
			if !fn(i) {
				return
			}
		}
	}
}

func appendPart(parts []string, p string) []string {
	p = strings.TrimSpace(p)
	if p == "" {
		return parts
	}
	return append(parts, p)
}

// matchingOpen finds the opening bracket matching the closing one at end.
func matchingOpen(s string, end int, open, close byte) int {
	depth := 0
	for i := end; i >= 0; i-- {
		switch s[i] {
		case close:
			depth++
		case open:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// BaseName drops a trailing generic argument list and any arity suffix:
// "List<T>" and "List`1" both become "List". Compiler-generated names such
// as "<>c" or "<Run>d__4" are left alone.
func BaseName(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasSuffix(name, ">") {
		if open := matchingOpen(name, len(name)-1, '<', '>'); open > 0 {
			name = strings.TrimSpace(name[:open])
		}
	}
	return stripArity(name)
}

// stripArity drops a metadata arity suffix ("List`1" -> "List").
func stripArity(name string) string {
	if i := strings.IndexByte(name, '`'); i >= 0 {
		return name[:i]
	}
	return name
}
