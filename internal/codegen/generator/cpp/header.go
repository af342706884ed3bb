package cpp

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/bnmkit/sdkgen/internal/codegen/common"
	"github.com/bnmkit/sdkgen/internal/codegen/model"
)

const headerTemplate = `{{.Header}}
#pragma once
#include <{{.Include}}>
{{range .Namespaces}}
namespace {{.}} {
{{- end}}

{{if eq .Kind "enum" -}}
enum class {{.Name}} : {{.Underlying}}
{
{{- range .Literals}}
	{{.Name}}{{if .Value}} = {{.Value}}{{end}},
{{- end}}
};
{{- else if eq .Kind "struct" -}}
struct {{.Name}}
{
	static BNM::Class StaticClass() {
		return {{.Descriptor}};
	}
{{- if .Members}}
{{range .Members}}
	{{if .Static}}static {{end}}{{.Type}} {{.Name}};
{{- end}}
{{- end}}
};
{{- else -}}
class {{.Name}}{{if .Base}} : public {{.Base}}{{end}}
{
public:
	static BNM::Class StaticClass() {
		return {{.Descriptor}};
	}
{{- range .Fields}}

	template <typename T = {{.Type}}>{{if .Static}} static{{end}} T {{.Getter}}() {
		static BNM::Field<T> __field = StaticClass().GetField("{{.Lookup}}");
{{- if not .Static}}
		__field.SetInstance((BNM::IL2CPP::Il2CppObject*)this);
{{- end}}
		return __field();
	}
	{{if .Static}}static {{end}}void {{.Setter}}({{.Type}} value) {
		static BNM::Field<{{.Type}}> __field = StaticClass().GetField("{{.Lookup}}");
{{- if not .Static}}
		__field.SetInstance((BNM::IL2CPP::Il2CppObject*)this);
{{- end}}
		__field.Set(value);
	}
{{- end}}
{{- range .Methods}}

	template <typename T = {{.Return}}>{{if .Static}} static{{end}} T {{.Name}}({{join .Params ", "}}) {
{{- if .Extern}}
		static auto __fn = (T(*)({{join .FnParams ", "}}))BNM::GetExternMethod("{{.Symbol}}");
		return __fn({{join .CallArgs ", "}});
{{- else}}
		static BNM::Method<T> __method = StaticClass().GetMethod("{{.Lookup}}", {{.Argc}});
		return __method{{if not .Static}}[(BNM::IL2CPP::Il2CppObject*)this]{{end}}({{join .CallArgs ", "}});
{{- end}}
	}
{{- end}}
};
{{- end}}
{{range .Closers}}
{{.}}
{{- end}}
`

const instanceArg = "(BNM::IL2CPP::Il2CppObject*)this"

type headerView struct {
	Header     string
	Include    string
	Namespaces []string
	Closers    []string

	Kind       string
	Name       string
	Base       string
	Descriptor string
	Underlying string

	Literals []literalView
	Members  []memberView
	Fields   []fieldView
	Methods  []methodView
}

type literalView struct {
	Name  string
	Value string
}

type memberView struct {
	Type   string
	Name   string
	Static bool
}

type fieldView struct {
	Type   string
	Getter string
	Setter string
	Lookup string
	Static bool
}

type methodView struct {
	Return   string
	Name     string
	Static   bool
	Extern   bool
	Lookup   string
	Symbol   string
	Argc     int
	Params   []string
	FnParams []string
	CallArgs []string
}

// Emitter renders single types into BNM headers.
type Emitter struct {
	mapper    *Mapper
	opts      Options
	overloads *OverloadTable
	tmpl      *template.Template
}

// NewEmitter creates an emitter over m. A nil overloads table gets a fresh
// one scoped to the emitter.
func NewEmitter(m *model.Model, opts Options, overloads *OverloadTable) *Emitter {
	if opts.Include == "" {
		opts.Include = DefaultInclude
	}
	if overloads == nil {
		overloads = NewOverloadTable()
	}
	return &Emitter{
		mapper:    NewMapper(m, opts),
		opts:      opts,
		overloads: overloads,
		tmpl:      template.Must(template.New("header").Funcs(tplFuncs()).Parse(headerTemplate)),
	}
}

// EmitType writes the header for t to w.
func (e *Emitter) EmitType(w io.Writer, t *model.Type) error {
	view := e.view(t)
	if err := e.tmpl.Execute(w, view); err != nil {
		return fmt.Errorf("execute header template for %s: %w", t.FullName(), err)
	}
	return nil
}

func (e *Emitter) view(t *model.Type) *headerView {
	chain := e.mapper.NamespaceChain(t)
	v := &headerView{
		Header:     writeFileHeader(),
		Include:    e.opts.Include,
		Kind:       t.Kind.String(),
		Name:       common.SanitizeIdentifier(t.Name),
		Descriptor: classDescriptor(t),
		Namespaces: chain,
	}
	for i := len(chain) - 1; i >= 0; i-- {
		v.Closers = append(v.Closers, "} // namespace "+chain[i])
	}

	switch t.Kind {
	case model.KindEnum:
		v.Underlying = e.mapper.Underlying(t)
		for _, f := range t.Fields {
			if !f.Literal {
				continue
			}
			v.Literals = append(v.Literals, literalView{
				Name:  common.SanitizeIdentifier(f.Name),
				Value: literalText(f),
			})
		}
	case model.KindStruct:
		for _, f := range t.Fields {
			if f.Literal {
				continue
			}
			v.Members = append(v.Members, memberView{
				Type:   e.mapper.Map(f.Type, t),
				Name:   common.SanitizeIdentifier(f.Name),
				Static: f.Static,
			})
		}
	default:
		static := t.IsStatic()
		if !static {
			v.Base = e.mapper.Base(t)
		}
		for _, f := range t.Fields {
			if f.Literal || (static && !f.Static) {
				continue
			}
			v.Fields = append(v.Fields, e.fieldView(t, f))
		}
		for _, m := range t.Methods {
			if m.Constructor || (static && !m.Static) {
				continue
			}
			v.Methods = append(v.Methods, e.methodView(t, m))
		}
	}
	return v
}

func (e *Emitter) fieldView(t *model.Type, f *model.Field) fieldView {
	name := common.SanitizeIdentifier(f.Name)
	return fieldView{
		Type:   e.mapper.Map(f.Type, t),
		Getter: name,
		Setter: common.SanitizeIdentifier("set_" + f.Name),
		Lookup: f.LookupName(),
		Static: f.Static,
	}
}

func (e *Emitter) methodView(t *model.Type, m *model.Method) methodView {
	ret := "void"
	if m.Return != nil {
		ret = e.mapper.Map(m.Return, t)
	}

	raw := make([]string, len(m.Params))
	for i, p := range m.Params {
		raw[i] = common.SanitizeIdentifier(p.Name)
	}
	names := UniqueParams(raw)

	mv := methodView{
		Return: ret,
		Name:   e.overloads.Resolve(t.Namespace, t.FullName(), m.LookupName(), common.SanitizeIdentifier(m.Name)),
		Static: m.Static,
		Extern: m.Extern,
		Lookup: m.LookupName(),
		Symbol: externSymbol(t, m),
		Argc:   len(m.Params),
	}
	if m.Extern && !m.Static {
		mv.FnParams = append(mv.FnParams, ObjectPointer)
		mv.CallArgs = append(mv.CallArgs, instanceArg)
	}
	for i, p := range m.Params {
		typ := e.mapper.Map(p.Type, t)
		if p.Out {
			typ += "*"
		}
		mv.Params = append(mv.Params, typ+" "+names[i])
		mv.FnParams = append(mv.FnParams, typ)
		mv.CallArgs = append(mv.CallArgs, names[i])
	}
	return mv
}

// classDescriptor builds the BNM::Class expression that locates t at
// runtime. Global types bind to the empty namespace.
func classDescriptor(t *model.Type) string {
	ns := t.Namespace
	if t.IsGlobal() {
		ns = ""
	}
	name := runtimeName(t)
	if t.Module == "" {
		return fmt.Sprintf("BNM::Class(%q, %q)", ns, name)
	}
	return fmt.Sprintf("BNM::Class(%q, %q, BNM::Image(%q))", ns, name, t.Module)
}

// runtimeName is the metadata name of t, with the arity suffix generic
// definitions carry at runtime.
func runtimeName(t *model.Type) string {
	name := t.LookupName()
	if n := len(t.GenericParams); n > 0 {
		name += "`" + fmt.Sprint(n)
	}
	return name
}

// externSymbol is the name internal calls are registered under:
// "Namespace.Type::Method".
func externSymbol(t *model.Type, m *model.Method) string {
	owner := runtimeName(t)
	if !t.IsGlobal() {
		owner = t.Namespace + "." + owner
	}
	return owner + "::" + m.LookupName()
}

func literalText(f *model.Field) string {
	if f.RawValue != "" {
		return f.RawValue
	}
	if f.Value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(f.Value))
}
