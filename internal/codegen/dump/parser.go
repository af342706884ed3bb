// Package dump parses the textual IL2CPP dump format (dump.cs) into the
// unified type model.
//
// Parsing is best-effort. Lines that do not match the shape their tag
// promises are skipped and reported as Diagnostics; only read errors from
// the underlying reader fail a parse.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bnmkit/sdkgen/internal/codegen/common"
	"github.com/bnmkit/sdkgen/internal/codegen/model"
)

// NamespaceLookback is how many preceding lines are searched for a
// namespace marker when a type is declared while the current namespace is
// global.
const NamespaceLookback = 5

// maxLineSize bounds a single dump line. Generic-heavy signatures can get
// long, but not this long.
const maxLineSize = 1 << 20

// Diagnostic records a line that was skipped.
type Diagnostic struct {
	Line   int
	Text   string
	Reason string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %q", d.Line, d.Reason, d.Text)
}

// Result is the outcome of parsing one dump.
type Result struct {
	Model       *model.Model
	Diagnostics []Diagnostic
}

// Parser holds the state of a single forward pass over one dump. A Parser
// must not be reused across inputs.
type Parser struct {
	module    string
	namespace string
	current   *model.Type
	depth     int

	lineNo     int
	history    []string
	pendingRVA string

	model *model.Model
	diags []Diagnostic
}

// NewParser creates a parser. defaultModule is used for types declared
// before any module marker; it may be empty.
func NewParser(defaultModule string) *Parser {
	return &Parser{
		module:    defaultModule,
		namespace: model.GlobalNamespace,
		model:     model.New(),
	}
}

// Parse reads a whole dump from r.
func Parse(r io.Reader) (*Result, error) {
	return ParseModule(r, "")
}

// ParseModule reads a whole dump from r, attributing types that precede any
// module marker to defaultModule.
func ParseModule(r io.Reader, defaultModule string) (*Result, error) {
	p := NewParser(defaultModule)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		p.Feed(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return p.Result(), fmt.Errorf("read dump: %w", err)
	}
	return p.Result(), nil
}

// ParseLines parses an in-memory dump.
func ParseLines(lines []string) *Result {
	p := NewParser("")
	for _, l := range lines {
		p.Feed(l)
	}
	return p.Result()
}

// Result returns the model built so far together with the diagnostics.
func (p *Parser) Result() *Result {
	return &Result{Model: p.model, Diagnostics: p.diags}
}

// Feed processes the next line of input.
func (p *Parser) Feed(raw string) {
	p.lineNo++
	line := strings.TrimSpace(raw)
	defer p.remember(line)

	kind := Classify(line)
	switch kind {
	case LineBlank:
		return
	case LineModule:
		p.module = moduleName(line)
		return
	case LineNamespace:
		p.namespace = model.NormalizeNamespace(namespaceName(line))
		return
	}

	opens, closes := countBraces(line)
	p.depth += opens - closes
	if p.depth < 0 {
		p.skip(line, "unbalanced closing brace")
		p.depth = 0
	}
	if p.current != nil && closes > 0 && p.depth <= 0 {
		p.current = nil
		p.pendingRVA = ""
	}

	if p.current == nil {
		if kind == LineTypeDecl {
			p.openType(line, opens > 0 && p.depth <= 0)
		}
		return
	}

	switch kind {
	case LineRVA:
		p.pendingRVA = rvaOffset(line)
	case LineField:
		p.parseField(line)
	case LineMethod:
		p.parseMethod(line)
		p.pendingRVA = ""
	case LineAssignment:
		if p.current.Kind == model.KindEnum {
			p.parseEnumLiteral(line)
		}
	}
}

func (p *Parser) remember(line string) {
	p.history = append(p.history, line)
	if len(p.history) > NamespaceLookback {
		p.history = p.history[1:]
	}
}

func (p *Parser) skip(line, reason string) {
	p.diags = append(p.diags, Diagnostic{Line: p.lineNo, Text: line, Reason: reason})
}

// recoverNamespace looks at the most recent namespace marker within the
// lookback window and returns its name if it is non-empty.
func (p *Parser) recoverNamespace() string {
	for i := len(p.history) - 1; i >= 0; i-- {
		if m := looseNsRe.FindStringSubmatch(p.history[i]); m != nil {
			return m[1]
		}
	}
	return ""
}

func (p *Parser) openType(line string, closed bool) {
	t, err := parseDecl(stripComment(line))
	if err != nil {
		p.skip(line, err.Error())
		return
	}
	t.Module = p.module
	t.Namespace = p.namespace
	if t.IsGlobal() {
		if ns := p.recoverNamespace(); ns != "" {
			t.Namespace = ns
		}
	}
	p.model.Add(t)
	if !closed {
		p.current = t
	}
}

func (p *Parser) parseField(line string) {
	m := fieldRe.FindStringSubmatch(line)
	if m == nil {
		p.skip(line, "malformed field")
		return
	}
	mods, typ := splitModifiers(strings.Fields(m[1]), fieldModifiers)
	if typ == "" {
		p.skip(line, "field without type")
		return
	}
	t := p.current
	if t.Kind == model.KindEnum && m[2] == "value__" {
		t.Underlying = model.ParseTypeRef(typ)
		return
	}
	t.Fields = append(t.Fields, &model.Field{
		Name:      common.CleanName(m[2]),
		RawName:   m[2],
		Type:      model.ParseTypeRef(typ),
		Modifiers: mods,
		Static:    hasModifier(mods, "static") || hasModifier(mods, "const"),
		Offset:    "0x" + strings.ToUpper(m[3]),
	})
}

func (p *Parser) parseEnumLiteral(line string) {
	code := strings.TrimRight(stripComment(line), ",; \t")
	lhs, rhs, ok := strings.Cut(code, "=")
	if !ok {
		p.skip(line, "malformed enum literal")
		return
	}
	tokens := strings.Fields(lhs)
	if len(tokens) == 0 {
		p.skip(line, "enum literal without name")
		return
	}
	name := tokens[len(tokens)-1]
	raw := strings.TrimSpace(rhs)

	f := &model.Field{
		Name:     common.CleanName(name),
		RawName:  name,
		Static:   true,
		Literal:  true,
		RawValue: raw,
		Value:    literalValue(raw),
	}
	mods, typ := splitModifiers(tokens[:len(tokens)-1], fieldModifiers)
	f.Modifiers = mods
	if typ != "" {
		f.Type = model.ParseTypeRef(typ)
	}
	p.current.Fields = append(p.current.Fields, f)
}

func (p *Parser) parseMethod(line string) {
	m, err := parseMethodLine(stripComment(line))
	if err != nil {
		p.skip(line, err.Error())
		return
	}
	m.Offset = p.pendingRVA
	m.Constructor = model.IsConstructorName(m.RawName) || m.Name == p.current.Name
	for _, bad := range m.badParams {
		p.skip(line, fmt.Sprintf("parameter %q has no name; kept as %s", bad, PlaceholderParam))
	}
	p.current.Methods = append(p.current.Methods, m.Method)
}

func rvaOffset(line string) string {
	rest := strings.TrimPrefix(line, rvaPrefix)
	tok, _, _ := strings.Cut(strings.TrimSpace(rest), " ")
	if !strings.HasPrefix(tok, "0x") {
		return ""
	}
	return tok
}
