package gen

import (
	"fmt"
	"strings"

	"golang.org/x/tools/imports"
)

// kindInfo drives stub emission for one Java type: the Go type used in
// stub signatures, the constructor wrapping a Go argument into a call
// value, and the typed call entry for results.
type kindInfo struct {
	goType string
	wrap   string
	call   string
}

var primitiveKinds = map[string]kindInfo{
	"boolean": {"bool", "jvm.Boolean", "CallBoolean"},
	"byte":    {"int8", "jvm.Byte", "CallByte"},
	"char":    {"uint16", "jvm.Char", "CallChar"},
	"short":   {"int16", "jvm.Short", "CallShort"},
	"int":     {"int32", "jvm.Int", "CallInt"},
	"long":    {"int64", "jvm.Long", "CallLong"},
	"float":   {"float32", "jvm.Float", "CallFloat"},
	"double":  {"float64", "jvm.Double", "CallDouble"},
}

// referenceKind covers class and array types: stubs take any live
// reference and return owned locals.
var referenceKind = kindInfo{"jvm.Reference", "jvm.Object", "CallObject"}

func kindOf(t TypeRef) kindInfo {
	if t.Dims == 0 {
		if info, ok := primitiveKinds[t.Name]; ok {
			return info
		}
	}
	return referenceKind
}

var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

func paramName(p Param, i int) string {
	name := p.Name
	if name == "" {
		name = fmt.Sprintf("arg%d", i)
	}
	if goKeywords[name] {
		name += "_"
	}
	return name
}

func exported(name string) string {
	return strings.ToUpper(name[:1]) + name[1:]
}

// Emit renders gofmt-formatted stub source for the declared classes.
func Emit(pkg string, classes []Class) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by javabind-gen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	fmt.Fprintf(&b, "import \"github.com/chazu/javabind/jvm\"\n")
	for i := range classes {
		if err := emitClass(&b, &classes[i]); err != nil {
			return nil, err
		}
	}
	out, err := imports.Process("", []byte(b.String()), nil)
	if err != nil {
		return nil, fmt.Errorf("generated source does not format: %w", err)
	}
	return out, nil
}

// memberNames assigns unique Go names to a class's members: the exported
// Java name, with ordinal suffixes for overloads.
func memberNames(class *Class) (ctors []string, methods []string) {
	used := map[string]int{}
	unique := func(base string) string {
		used[base]++
		if used[base] == 1 {
			return base
		}
		return fmt.Sprintf("%s%d", base, used[base])
	}
	simple := exported(SimpleName(class.Name))
	for range class.Ctors {
		ctors = append(ctors, unique("New"+simple))
	}
	for _, m := range class.Methods {
		methods = append(methods, unique(exported(m.Name)))
	}
	return ctors, methods
}

func emitClass(b *strings.Builder, class *Class) error {
	simple := exported(SimpleName(class.Name))
	handle := simple + "Class"
	ctorNames, methodNames := memberNames(class)

	fmt.Fprintf(b, "\n// %s is the resolved class handle for %s.\n", handle, class.Name)
	fmt.Fprintf(b, "type %s struct {\n", handle)
	fmt.Fprintf(b, "\tclass *jvm.Class\n")
	for i := range class.Ctors {
		fmt.Fprintf(b, "\tctor%d *jvm.Constructor\n", i)
	}
	for i := range class.Methods {
		fmt.Fprintf(b, "\tm%s *jvm.Method\n", methodNames[i])
	}
	fmt.Fprintf(b, "}\n\n")

	fmt.Fprintf(b, "// Load%s resolves the class and every declared member on env.\n", simple)
	fmt.Fprintf(b, "func Load%s(env *jvm.Env) (*%s, error) {\n", simple, handle)
	fmt.Fprintf(b, "\tclass, err := env.FindClass(%q)\n", SlashName(class.Name))
	fmt.Fprintf(b, "\tif err != nil {\n\t\treturn nil, err\n\t}\n")
	fmt.Fprintf(b, "\th := &%s{class: class}\n", handle)
	for i, c := range class.Ctors {
		fmt.Fprintf(b, "\tif h.ctor%d, err = class.Constructor(%q); err != nil {\n\t\treturn nil, err\n\t}\n", i, c.Descriptor())
	}
	for i, m := range class.Methods {
		resolve := "Method"
		if m.Static {
			resolve = "StaticMethod"
		}
		fmt.Fprintf(b, "\tif h.m%s, err = class.%s(%q, %q); err != nil {\n\t\treturn nil, err\n\t}\n",
			methodNames[i], resolve, m.Name, m.Descriptor())
	}
	fmt.Fprintf(b, "\treturn h, nil\n}\n\n")

	fmt.Fprintf(b, "// Class returns the underlying class facade.\n")
	fmt.Fprintf(b, "func (h *%s) Class() *jvm.Class { return h.class }\n\n", handle)

	fmt.Fprintf(b, "// %s wraps one instance reference.\n", simple)
	fmt.Fprintf(b, "type %s struct {\n\th *%s\n\tRef *jvm.LocalRef\n}\n\n", simple, handle)

	fmt.Fprintf(b, "// Wrap adopts an existing reference as an instance of this class.\n")
	fmt.Fprintf(b, "func (h *%s) Wrap(ref *jvm.LocalRef) *%s {\n\treturn &%s{h: h, Ref: ref}\n}\n", handle, simple, simple)

	for i, c := range class.Ctors {
		fmt.Fprintf(b, "\n// %s invokes constructor %s.\n", ctorNames[i], c.Descriptor())
		fmt.Fprintf(b, "func (h *%s) %s(%s) (*%s, error) {\n", handle, ctorNames[i], paramList(c.Params), simple)
		fmt.Fprintf(b, "\tref, err := h.ctor%d.New(%s)\n", i, argList(c.Params))
		fmt.Fprintf(b, "\tif err != nil {\n\t\treturn nil, err\n\t}\n")
		fmt.Fprintf(b, "\treturn &%s{h: h, Ref: ref}, nil\n}\n", simple)
	}

	for i, m := range class.Methods {
		if err := emitMethod(b, handle, simple, methodNames[i], &m); err != nil {
			return fmt.Errorf("class %s: %w", class.Name, err)
		}
	}
	return nil
}

func emitMethod(b *strings.Builder, handle, simple, goName string, m *Method) error {
	recv := fmt.Sprintf("o *%s", simple)
	field := "o.h.m" + goName
	callRecv := "o.Ref"
	if m.Static {
		recv = fmt.Sprintf("h *%s", handle)
		field = "h.m" + goName
		callRecv = "nil"
	}
	args := argList(m.Params)
	callArgs := callRecv
	if args != "" {
		callArgs += ", " + args
	}
	fmt.Fprintf(b, "\n// %s calls %s%s.\n", goName, m.Name, m.Descriptor())
	if m.Return.Name == "void" && m.Return.Dims == 0 {
		fmt.Fprintf(b, "func (%s) %s(%s) error {\n", recv, goName, paramList(m.Params))
		fmt.Fprintf(b, "\treturn %s.CallVoid(%s)\n}\n", field, callArgs)
		return nil
	}
	info := kindOf(m.Return)
	ret := info.goType
	if info.call == "CallObject" {
		ret = "*jvm.LocalRef"
	}
	fmt.Fprintf(b, "func (%s) %s(%s) (%s, error) {\n", recv, goName, paramList(m.Params), ret)
	fmt.Fprintf(b, "\treturn %s.%s(%s)\n}\n", field, info.call, callArgs)
	return nil
}

func paramList(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = paramName(p, i) + " " + kindOf(p.Type).goType
	}
	return strings.Join(parts, ", ")
}

func argList(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s(%s)", kindOf(p.Type).wrap, paramName(p, i))
	}
	return strings.Join(parts, ", ")
}
