// Package model defines the unified type model shared by every metadata
// source (dump text, exported module documents, module readers) and consumed
// by the header generators.
package model

import (
	"sort"
	"strings"
)

// GlobalNamespace is the canonical name used for types declared without a
// namespace.
const GlobalNamespace = "GlobalNamespace"

// Kind is the shape of a managed type.
type Kind int

const (
	KindClass Kind = iota
	KindStruct
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	default:
		return "class"
	}
}

// ParseKind maps "class", "struct" or "enum" to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "class", "":
		return KindClass, true
	case "struct", "valuetype":
		return KindStruct, true
	case "enum":
		return KindEnum, true
	default:
		return KindClass, false
	}
}

// NormalizeNamespace returns GlobalNamespace for an empty namespace.
func NormalizeNamespace(ns string) string {
	ns = strings.TrimSpace(ns)
	if ns == "" {
		return GlobalNamespace
	}
	return ns
}

// Type is a class, struct or enum together with its members.
type Type struct {
	Name      string // cleaned name
	RawName   string // name as declared, used for runtime lookups
	Namespace string
	Module    string
	Kind      Kind
	BaseType  string // single declared base, empty if none

	Modifiers     []string
	Sealed        bool
	Abstract      bool
	GenericParams []string

	// Underlying is the storage type of an enum (nil means int).
	Underlying *TypeRef

	Fields  []*Field
	Methods []*Method
}

// FullName returns "Namespace.Name", or just the name for global types.
func (t *Type) FullName() string {
	if t.IsGlobal() {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// IsGlobal reports whether the type lives in the global namespace.
func (t *Type) IsGlobal() bool {
	return t.Namespace == "" || t.Namespace == GlobalNamespace
}

// IsStatic reports whether the type is a static class (sealed and abstract).
func (t *Type) IsStatic() bool {
	return t.Kind == KindClass && t.Sealed && t.Abstract
}

// LookupName is the declared name without its generic parameter list.
func (t *Type) LookupName() string {
	name := t.RawName
	if name == "" {
		name = t.Name
	}
	return BaseName(name)
}

func (t *Type) lookupFullName() string {
	if t.IsGlobal() {
		return t.LookupName()
	}
	return t.Namespace + "." + t.LookupName()
}

// IsGenericParam reports whether name is one of the type's declared generic
// parameters.
func (t *Type) IsGenericParam(name string) bool {
	for _, p := range t.GenericParams {
		if p == name {
			return true
		}
	}
	return false
}

// Field is a data member or, for enums, a literal.
type Field struct {
	Name      string
	RawName   string
	Type      *TypeRef
	Modifiers []string
	Static    bool
	Offset    string // hex, informational only
	Value     any    // int64 when the literal parsed as an integer, else string
	RawValue  string // literal text as written
	Literal   bool
}

// LookupName is the name used to find the field at runtime.
func (f *Field) LookupName() string {
	if f.RawName != "" {
		return f.RawName
	}
	return f.Name
}

// Method is a managed method signature.
type Method struct {
	Name        string
	RawName     string
	Return      *TypeRef
	Modifiers   []string
	Static      bool
	Constructor bool
	Extern      bool
	Offset      string
	Params      []*Parameter
}

// LookupName is the name used to find the method at runtime.
func (m *Method) LookupName() string {
	if m.RawName != "" {
		return m.RawName
	}
	return m.Name
}

// Parameter is a single method parameter.
type Parameter struct {
	Name string
	Type *TypeRef
	Out  bool // out, ref or in
}

// IsConstructorName reports whether name is one of the runtime constructor
// markers.
func IsConstructorName(name string) bool {
	return name == ".ctor" || name == ".cctor"
}

// Model maps namespaces to their types in insertion order.
type Model struct {
	namespaces map[string][]*Type
	byFullName map[string]*Type
	byName     map[string]*Type
	nameCount  map[string]int
	count      int
}

// New creates an empty Model.
func New() *Model {
	return &Model{
		namespaces: make(map[string][]*Type),
		byFullName: make(map[string]*Type),
		byName:     make(map[string]*Type),
		nameCount:  make(map[string]int),
	}
}

// Add appends t to its namespace. The namespace is normalized first.
func (m *Model) Add(t *Type) {
	t.Namespace = NormalizeNamespace(t.Namespace)
	m.namespaces[t.Namespace] = append(m.namespaces[t.Namespace], t)
	m.count++

	for _, key := range []string{t.FullName(), t.lookupFullName()} {
		if _, ok := m.byFullName[key]; !ok {
			m.byFullName[key] = t
		}
	}
	short := []string{t.Name}
	if t.LookupName() != t.Name {
		short = append(short, t.LookupName())
	}
	for _, key := range short {
		if _, ok := m.byName[key]; !ok {
			m.byName[key] = t
		}
		m.nameCount[key]++
	}
}

// Merge appends every type of other into m.
func (m *Model) Merge(other *Model) {
	for _, t := range other.All() {
		m.Add(t)
	}
}

// Len returns the number of types.
func (m *Model) Len() int { return m.count }

// Namespaces returns the namespace names in sorted order.
func (m *Model) Namespaces() []string {
	names := make([]string, 0, len(m.namespaces))
	for ns := range m.namespaces {
		names = append(names, ns)
	}
	sort.Strings(names)
	return names
}

// Types returns the types of a namespace in declaration order.
func (m *Model) Types(ns string) []*Type {
	return m.namespaces[NormalizeNamespace(ns)]
}

// All returns every type, namespaces sorted, types in declaration order.
func (m *Model) All() []*Type {
	out := make([]*Type, 0, m.count)
	for _, ns := range m.Namespaces() {
		out = append(out, m.namespaces[ns]...)
	}
	return out
}

// Lookup finds a type by full name, then by short name when exactly one
// type carries it. Generic arguments and arity suffixes in name are ignored.
func (m *Model) Lookup(name string) *Type {
	return m.Resolve(name, "")
}

// Resolve finds the type a reference spelled inside namespace ns points
// at: the name in ns first, then the name as a full or global name, then
// a short name that only one type in the model carries.
func (m *Model) Resolve(name, ns string) *Type {
	name = BaseName(name)
	if ns = strings.TrimSpace(ns); ns != "" && ns != GlobalNamespace {
		if t, ok := m.byFullName[ns+"."+name]; ok {
			return t
		}
	}
	if t, ok := m.byFullName[name]; ok {
		return t
	}
	short := ShortName(name)
	if m.nameCount[short] == 1 {
		return m.byName[short]
	}
	return nil
}

// ShortName returns the part of a dotted name after the last dot.
func ShortName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
