package dump

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnmkit/sdkgen/internal/codegen/common"
	"github.com/bnmkit/sdkgen/internal/codegen/model"
)

var (
	fieldModifiers = modifierSet("public", "private", "protected", "internal", "static",
		"readonly", "const", "volatile", "new", "unsafe", "fixed")
	methodModifiers = modifierSet("public", "private", "protected", "internal", "static",
		"virtual", "override", "abstract", "sealed", "extern", "unsafe", "new", "async")
)

func modifierSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// splitModifiers separates leading modifier tokens from the rest, which is
// rejoined with single spaces.
func splitModifiers(tokens []string, set map[string]bool) (mods []string, rest string) {
	for i, tok := range tokens {
		if !set[tok] {
			return mods, strings.Join(tokens[i:], " ")
		}
		mods = append(mods, tok)
	}
	return mods, ""
}

func hasModifier(mods []string, want string) bool {
	for _, m := range mods {
		if m == want {
			return true
		}
	}
	return false
}

// literalValue returns an int64 for decimal or 0x-prefixed integers and the
// raw text otherwise.
func literalValue(raw string) any {
	if v, err := strconv.ParseInt(raw, 0, 64); err == nil {
		return v
	}
	return raw
}

// parseDecl parses a class, struct or enum declaration with any trailing
// comment already removed.
func parseDecl(code string) (*model.Type, error) {
	loc := declRe.FindStringSubmatchIndex(code)
	if loc == nil {
		return nil, errors.New("no declaration keyword")
	}
	keyword := code[loc[2]:loc[3]]
	kind, _ := model.ParseKind(keyword)

	mods := strings.Fields(code[:loc[2]])
	rest := strings.TrimSpace(code[loc[3]:])
	if i := strings.IndexByte(rest, '{'); i >= 0 {
		rest = strings.TrimSpace(rest[:i])
	}
	if i := strings.Index(rest, " where "); i >= 0 {
		rest = strings.TrimSpace(rest[:i])
	}

	head, base := rest, ""
	if i := model.IndexTopLevel(rest, ':'); i >= 0 {
		head = strings.TrimSpace(rest[:i])
		base = strings.TrimSpace(rest[i+1:])
	}
	if head == "" {
		return nil, fmt.Errorf("%s declaration without name", keyword)
	}

	t := &model.Type{
		Name:      common.CleanName(head),
		RawName:   head,
		Kind:      kind,
		Modifiers: mods,
		Sealed:    hasModifier(mods, "sealed") || hasModifier(mods, "static"),
		Abstract:  hasModifier(mods, "abstract") || hasModifier(mods, "static"),
	}
	t.GenericParams = genericParams(head)

	if base != "" {
		if parts := model.SplitTopLevel(base, ','); len(parts) > 0 {
			base = parts[0]
		}
		switch kind {
		case model.KindEnum:
			t.Underlying = model.ParseTypeRef(base)
		case model.KindClass:
			t.BaseType = base
		}
	}
	return t, nil
}

// genericParams returns the parameter names of "Name<T, U>".
func genericParams(name string) []string {
	if !strings.HasSuffix(name, ">") {
		return nil
	}
	base := model.BaseName(name)
	if len(base) >= len(name) {
		return nil
	}
	inner := strings.TrimSpace(name[len(base):])
	inner = strings.TrimSuffix(strings.TrimPrefix(inner, "<"), ">")
	var params []string
	for _, p := range model.SplitTopLevel(inner, ',') {
		// variance annotations: "in T", "out T"
		fields := strings.Fields(p)
		params = append(params, fields[len(fields)-1])
	}
	return params
}

type parsedMethod struct {
	*model.Method
	badParams []string
}

// parseMethodLine parses "mods ret Name(params) { }" with any trailing
// comment already removed.
func parseMethodLine(code string) (parsedMethod, error) {
	open := -1
	depth := 0
	for i := 0; i < len(code) && open < 0; i++ {
		switch code[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case '(':
			if depth == 0 {
				open = i
			}
		}
	}
	closeIdx := strings.LastIndexByte(code, ')')
	if open < 0 || closeIdx < open {
		return parsedMethod{}, errors.New("malformed method")
	}

	tokens := model.SplitTopLevel(code[:open], ' ')
	if len(tokens) == 0 {
		return parsedMethod{}, errors.New("method without name")
	}
	rawName := tokens[len(tokens)-1]
	mods, ret := splitModifiers(tokens[:len(tokens)-1], methodModifiers)
	if ret == "" {
		ret = "void"
	}

	m := &model.Method{
		Name:      common.CleanName(model.BaseName(rawName)),
		RawName:   model.BaseName(rawName),
		Return:    model.ParseTypeRef(ret),
		Modifiers: mods,
		Static:    hasModifier(mods, "static"),
		Extern:    hasModifier(mods, "extern"),
	}

	pm := parsedMethod{Method: m}
	for _, part := range model.SplitTopLevel(code[open+1:closeIdx], ',') {
		param, ok := parseParam(part)
		if !ok {
			pm.badParams = append(pm.badParams, part)
		}
		m.Params = append(m.Params, param)
	}
	return pm, nil
}

func parseParam(s string) (*model.Parameter, bool) {
	if i := model.IndexTopLevel(s, '='); i >= 0 {
		s = s[:i]
	}
	tokens := model.SplitTopLevel(s, ' ')
	for len(tokens) > 0 && strings.HasPrefix(tokens[0], "[") {
		tokens = tokens[1:]
	}
	if len(tokens) < 2 {
		// the slot is kept so the argument count still matches at runtime
		p := &model.Parameter{Name: PlaceholderParam, Type: model.Named("object")}
		if len(tokens) == 1 {
			p.Type = model.ParseTypeRef(tokens[0])
		}
		return p, false
	}
	typ := strings.Join(tokens[:len(tokens)-1], " ")
	return &model.Parameter{
		Name: tokens[len(tokens)-1],
		Type: model.ParseTypeRef(typ),
		Out:  byRefModifiers[tokens[0]],
	}, true
}

// PlaceholderParam names parameters whose declaration carried no name.
const PlaceholderParam = "arg"

// byRefModifiers mark parameters passed by reference.
var byRefModifiers = map[string]bool{"out": true, "ref": true, "in": true}
