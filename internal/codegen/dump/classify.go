package dump

import (
	"regexp"
	"strings"
)

// LineKind tags a trimmed dump line before structural parsing.
type LineKind int

const (
	LineBlank LineKind = iota
	LineModule
	LineNamespace
	LineRVA
	LineComment
	LineField
	LineMethod
	LineTypeDecl
	LineAssignment
	LineOther
)

var lineKindNames = [...]string{
	LineBlank:      "blank",
	LineModule:     "module",
	LineNamespace:  "namespace",
	LineRVA:        "rva",
	LineComment:    "comment",
	LineField:      "field",
	LineMethod:     "method",
	LineTypeDecl:   "type",
	LineAssignment: "assignment",
	LineOther:      "other",
}

func (k LineKind) String() string {
	if int(k) < len(lineKindNames) {
		return lineKindNames[k]
	}
	return "unknown"
}

const (
	modulePrefix    = "// Dll : "
	namespacePrefix = "// Namespace:"
	rvaPrefix       = "// RVA: "
)

var (
	imageRe      = regexp.MustCompile(`^// Image \d+: (.+?) - -?\d+\s*$`)
	looseNsRe    = regexp.MustCompile(`^//\s*Namespace\s*:\s*(\S*)`)
	fieldRe      = regexp.MustCompile(`^(.+?)\s+(\S+?);\s*//\s*0x([0-9A-Fa-f]+)`)
	methodTailRe = regexp.MustCompile(`\)\s*\{\s*\}\s*$`)
	declRe       = regexp.MustCompile(`(?:^|\s)(class|struct|enum)\s+\S`)
	assignRe     = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*=\s*(\S.*)$`)
)

// Classify tags a single dump line. The line is trimmed first. Field and
// method shapes win over declaration keywords so that members named or
// typed after a keyword are not taken for a new type.
func Classify(line string) LineKind {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return LineBlank
	case strings.HasPrefix(line, modulePrefix), imageRe.MatchString(line):
		return LineModule
	case strings.HasPrefix(line, namespacePrefix):
		return LineNamespace
	case strings.HasPrefix(line, rvaPrefix):
		return LineRVA
	case strings.HasPrefix(line, "//"):
		return LineComment
	case fieldRe.MatchString(line):
		return LineField
	}

	code := stripComment(line)
	switch {
	case strings.Contains(code, "(") && methodTailRe.MatchString(code):
		return LineMethod
	case declRe.MatchString(code):
		return LineTypeDecl
	case !strings.Contains(code, "==") && assignRe.MatchString(code):
		return LineAssignment
	default:
		return LineOther
	}
}

// moduleName extracts the module from a LineModule line.
func moduleName(line string) string {
	if m := imageRe.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(strings.TrimPrefix(line, modulePrefix))
}

// namespaceName extracts the namespace from a LineNamespace line; empty
// means the global namespace.
func namespaceName(line string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, namespacePrefix))
}

// stripComment removes a trailing // comment that is not inside a string or
// character literal.
func stripComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return strings.TrimSpace(line[:i])
		}
	}
	return strings.TrimSpace(line)
}

// countBraces returns the number of '{' and '}' on the line, skipping
// string and character literals and trailing comments.
func countBraces(line string) (opens, closes int) {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return
		case c == '{':
			opens++
		case c == '}':
			closes++
		}
	}
	return
}
