package cpp

import "maps"

const (
	// DefaultInclude is the BNM umbrella header every generated file includes.
	DefaultInclude = "BNMIncludes.hpp"

	// ObjectPointer is the opaque managed-object type used whenever a type
	// cannot be classified.
	ObjectPointer = "BNM::IL2CPP::Il2CppObject*"
	// ObjectBase is the base clause for classes with an unrecognized base.
	ObjectBase = "BNM::IL2CPP::Il2CppObject"
	// OpaquePointer is used for raw pointers and unresolvable generics.
	OpaquePointer = "void*"
)

// Options controls header emission.
type Options struct {
	// Include is the header pulled in by every generated file.
	Include string
	// ModuleNamespace wraps every type in a namespace derived from its module
	// name ("Assembly-CSharp.dll" -> Assembly_CSharp).
	ModuleNamespace bool
	// Primitives maps metadata type names to C++ type expressions.
	Primitives map[string]string
	// WellKnownBases maps base type names to dedicated interop base classes.
	WellKnownBases map[string]string
	// Containers maps generic container names to BNM container templates.
	Containers map[string]string
}

var defaultPrimitives = map[string]string{
	"sbyte": "int8_t", "System.SByte": "int8_t",
	"byte": "uint8_t", "System.Byte": "uint8_t",
	"short": "int16_t", "System.Int16": "int16_t",
	"ushort": "uint16_t", "System.UInt16": "uint16_t",
	"int": "int32_t", "System.Int32": "int32_t",
	"uint": "uint32_t", "System.UInt32": "uint32_t",
	"long": "int64_t", "System.Int64": "int64_t",
	"ulong": "uint64_t", "System.UInt64": "uint64_t",
	"float": "float", "System.Single": "float",
	"double": "double", "System.Double": "double",
	"bool": "bool", "System.Boolean": "bool",
	"char": "char16_t", "System.Char": "char16_t",
	"string": "BNM::Structures::Mono::String*", "System.String": "BNM::Structures::Mono::String*",
	"decimal": "BNM::Types::decimal", "System.Decimal": "BNM::Types::decimal",
	"void": "void", "System.Void": "void",
	"object": ObjectPointer, "System.Object": ObjectPointer,
	"IntPtr": OpaquePointer, "System.IntPtr": OpaquePointer,
	"UIntPtr": OpaquePointer, "System.UIntPtr": OpaquePointer,
	"nint": OpaquePointer, "nuint": OpaquePointer,
}

var unityValueTypes = []string{
	"Vector2", "Vector3", "Vector4", "Quaternion", "Rect", "Color", "Color32", "Matrix4x4",
}

var defaultBases = map[string]string{
	"MonoBehaviour":             "BNM::UnityEngine::MonoBehaviour",
	"UnityEngine.MonoBehaviour": "BNM::UnityEngine::MonoBehaviour",
}

var defaultContainers = map[string]string{
	"List":       "BNM::Structures::Mono::List",
	"Dictionary": "BNM::Structures::Mono::Dictionary",
}

// containerArity is the number of type arguments each container takes.
var containerArity = map[string]int{
	"List":       1,
	"Dictionary": 2,
}

// DefaultOptions returns the stock BNM mapping.
func DefaultOptions() Options {
	prims := maps.Clone(defaultPrimitives)
	for _, name := range unityValueTypes {
		prims[name] = "BNM::Structures::Unity::" + name
		prims["UnityEngine."+name] = "BNM::Structures::Unity::" + name
	}
	return Options{
		Include:        DefaultInclude,
		Primitives:     prims,
		WellKnownBases: maps.Clone(defaultBases),
		Containers:     maps.Clone(defaultContainers),
	}
}

// WithOverrides returns a copy of o with extra primitive and base mappings
// layered on top. Entries in the overlays win.
func (o Options) WithOverrides(primitives, bases map[string]string) Options {
	out := o
	out.Primitives = maps.Clone(o.Primitives)
	out.WellKnownBases = maps.Clone(o.WellKnownBases)
	if out.Primitives == nil {
		out.Primitives = map[string]string{}
	}
	if out.WellKnownBases == nil {
		out.WellKnownBases = map[string]string{}
	}
	maps.Copy(out.Primitives, primitives)
	maps.Copy(out.WellKnownBases, bases)
	return out
}
