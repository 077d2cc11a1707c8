// Package gen turns Java class declarations into typed Go stubs over the
// jvm package. The input is a small declaration subset:
//
//	class javabind.test.SimpleClass extends java.lang.Object {
//	    SimpleClass(int);
//	    int valueWithAdded(int delta);
//	    static javabind.test.SimpleClass create(int value);
//	}
//
// Generated stubs resolve every declared member eagerly at load time and
// expose typed wrappers; they contain no safety logic of their own.
package gen

import (
	"strings"

	"github.com/chazu/javabind/signature"
)

// TypeRef is a parsed Java type: a primitive or dotted class name, plus
// array dimensions.
type TypeRef struct {
	Name string // "int", "java.lang.String"
	Dims int    // number of [] suffixes
}

var primitiveTypes = map[string]signature.Type{
	"boolean": signature.BooleanType,
	"byte":    signature.ByteType,
	"char":    signature.CharType,
	"short":   signature.ShortType,
	"int":     signature.IntType,
	"long":    signature.LongType,
	"float":   signature.FloatType,
	"double":  signature.DoubleType,
	"void":    signature.VoidType,
}

// Signature maps the type reference onto its descriptor.
func (t TypeRef) Signature() signature.Type {
	base, ok := primitiveTypes[t.Name]
	if !ok {
		base = signature.ObjectOf(SlashName(t.Name))
	}
	for i := 0; i < t.Dims; i++ {
		base = signature.ArrayOf(base)
	}
	return base
}

// Param is one declared method parameter. The name is optional in the
// input; unnamed parameters get positional names at emit time.
type Param struct {
	Type TypeRef
	Name string
}

// Method is one declared method.
type Method struct {
	Name   string
	Return TypeRef
	Params []Param
	Static bool
}

// Descriptor builds the method descriptor for member resolution.
func (m Method) Descriptor() string {
	sig := signature.Method{Return: m.Return.Signature()}
	for _, p := range m.Params {
		sig.Params = append(sig.Params, p.Type.Signature())
	}
	return sig.String()
}

// Ctor is one declared constructor.
type Ctor struct {
	Params []Param
}

// Descriptor builds the constructor descriptor.
func (c Ctor) Descriptor() string {
	sig := signature.Method{Return: signature.VoidType}
	for _, p := range c.Params {
		sig.Params = append(sig.Params, p.Type.Signature())
	}
	return sig.String()
}

// Class is one declared class.
type Class struct {
	Name    string // dotted: "javabind.test.SimpleClass"
	Extends string // dotted, empty for java.lang.Object
	Ctors   []Ctor
	Methods []Method
}

// SlashName converts a dotted Java name to the slash-separated runtime
// form.
func SlashName(dotted string) string {
	return strings.ReplaceAll(dotted, ".", "/")
}

// SimpleName returns the last segment of a dotted name.
func SimpleName(dotted string) string {
	if i := strings.LastIndexByte(dotted, '.'); i >= 0 {
		return dotted[i+1:]
	}
	return dotted
}
