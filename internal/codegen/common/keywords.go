package common

// reserved holds C++ keywords, C# keywords that BNM headers cannot use as
// identifiers, and macro-like names that collide with common SDK headers.
var reserved = map[string]struct{}{}

func init() {
	for _, group := range [][]string{cppKeywords, csharpKeywords, macroDenylist} {
		for _, w := range group {
			reserved[w] = struct{}{}
		}
	}
}

// IsReserved reports whether name exactly matches a reserved word.
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

var cppKeywords = []string{
	"alignas", "alignof", "and", "and_eq", "asm", "atomic_cancel", "atomic_commit", "atomic_noexcept",
	"auto", "bitand", "bitor", "bool", "break", "case", "catch", "char", "char8_t", "char16_t", "char32_t",
	"class", "compl", "concept", "const", "consteval", "constexpr", "constinit", "const_cast", "continue",
	"contract_assert", "co_await", "co_return", "co_yield", "decltype", "default", "delete", "do", "double",
	"dynamic_cast", "else", "enum", "explicit", "export", "extern", "false", "float", "for", "friend", "goto",
	"if", "inline", "int", "long", "mutable", "namespace", "new", "noexcept", "not", "not_eq", "nullptr",
	"operator", "or", "or_eq", "private", "protected", "public", "reflexpr", "register", "reinterpret_cast",
	"requires", "return", "short", "signed", "sizeof", "static", "static_assert", "static_cast", "struct",
	"switch", "synchronized", "template", "this", "thread_local", "throw", "true", "try", "typedef", "typeid",
	"typename", "union", "unsigned", "using", "virtual", "void", "volatile", "wchar_t", "while", "xor", "xor_eq",
}

var csharpKeywords = []string{
	"abstract", "add", "as", "base", "byte", "checked", "decimal", "delegate", "event",
	"finally", "fixed", "foreach", "implicit", "in", "interface", "internal", "is", "lock", "null", "object",
	"out", "override", "params", "readonly", "ref", "remove", "sbyte", "sealed", "stackalloc", "string",
	"typeof", "uint", "ulong", "unchecked", "unsafe", "ushort", "value", "when", "where", "yield",
}

var macroDenylist = []string{
	"INT32_MAX", "INT32_MIN", "UINT32_MAX", "UINT16_MAX", "INT16_MAX", "UINT8_MAX", "INT8_MAX", "INT_MAX",
	"Assert", "NULL", "O",
}
