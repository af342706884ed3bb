package cpp

import (
	"strings"

	"github.com/bnmkit/sdkgen/internal/codegen/common"
	"github.com/bnmkit/sdkgen/internal/codegen/model"
)

// Mapper translates metadata type descriptors into C++ type expressions.
// It is deterministic and has no side effects.
type Mapper struct {
	model *model.Model
	opts  Options
}

func NewMapper(m *model.Model, opts Options) *Mapper {
	if m == nil {
		m = model.New()
	}
	return &Mapper{model: m, opts: opts}
}

// Map returns the C++ spelling of ref. self is the type being emitted and
// may be nil.
func (mp *Mapper) Map(ref *model.TypeRef, self *model.Type) string {
	if ref == nil {
		return ObjectPointer
	}
	switch ref.Kind {
	case model.RefPointer:
		return OpaquePointer
	case model.RefGeneric:
		if mp.isSelf(ref.Name, self) {
			return mp.QualifiedName(self) + "*"
		}
		return mp.mapGeneric(ref, self)
	case model.RefArray:
		return "BNM::Structures::Mono::Array<" + mp.Map(ref.Elem, self) + ">*"
	}

	name := strings.TrimSpace(ref.Name)
	if self != nil && self.IsGenericParam(name) {
		return ObjectPointer
	}
	if prim, ok := mp.opts.Primitives[name]; ok {
		return prim
	}
	if mp.isSelf(name, self) {
		return mp.QualifiedName(self) + "*"
	}
	ns := ""
	if self != nil {
		ns = self.Namespace
	}
	if t := mp.model.Resolve(name, ns); t != nil && t.Kind == model.KindEnum {
		return mp.Underlying(t)
	}
	return ObjectPointer
}

func (mp *Mapper) mapGeneric(ref *model.TypeRef, self *model.Type) string {
	short := model.ShortName(ref.Name)
	container, ok := mp.opts.Containers[short]
	if !ok {
		return OpaquePointer
	}
	if want, known := containerArity[short]; known && want != len(ref.Args) {
		return OpaquePointer
	}
	args := make([]string, len(ref.Args))
	for i, a := range ref.Args {
		args[i] = mp.Map(a, self)
	}
	return container + "<" + strings.Join(args, ", ") + ">*"
}

// Underlying returns the storage type of an enum, int32_t when the enum
// declares none or declares something that is not a primitive.
func (mp *Mapper) Underlying(t *model.Type) string {
	if t == nil || t.Underlying == nil || t.Underlying.Kind != model.RefNamed {
		return "int32_t"
	}
	if prim, ok := mp.opts.Primitives[t.Underlying.Name]; ok && isIntegral(prim) {
		return prim
	}
	return "int32_t"
}

func isIntegral(cpp string) bool {
	switch cpp {
	case "int8_t", "uint8_t", "int16_t", "uint16_t", "int32_t", "uint32_t", "int64_t", "uint64_t", "char16_t", "bool":
		return true
	}
	return false
}

func (mp *Mapper) isSelf(name string, self *model.Type) bool {
	if self == nil || name == "" {
		return false
	}
	base := model.BaseName(name)
	switch base {
	case self.LookupName(), self.Name:
		return true
	}
	if !self.IsGlobal() && base == self.Namespace+"."+self.LookupName() {
		return true
	}
	return false
}

// NamespaceChain returns the C++ namespace segments a type is emitted in,
// including the module namespace when enabled.
func (mp *Mapper) NamespaceChain(t *model.Type) []string {
	var chain []string
	if mp.opts.ModuleNamespace && t.Module != "" {
		chain = append(chain, common.ModuleIdentifier(t.Module))
	}
	return append(chain, common.NamespaceSegments(t.Namespace, model.GlobalNamespace)...)
}

// QualifiedName returns the fully qualified C++ name of t, e.g.
// "::UnityEngine::Player".
func (mp *Mapper) QualifiedName(t *model.Type) string {
	return "::" + strings.Join(mp.NamespaceChain(t), "::") + "::" + common.SanitizeIdentifier(t.Name)
}

// Base returns the interop base class for a class declaration, or "" when
// the class declares no base.
func (mp *Mapper) Base(t *model.Type) string {
	base := strings.TrimSpace(t.BaseType)
	if base == "" {
		return ""
	}
	if b, ok := mp.opts.WellKnownBases[base]; ok {
		return b
	}
	if b, ok := mp.opts.WellKnownBases[model.ShortName(model.BaseName(base))]; ok {
		return b
	}
	return ObjectBase
}
