package gen

import (
	"strings"
	"testing"
)

func TestEmit(t *testing.T) {
	classes, err := Parse(simpleDecl)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out, err := Emit("bindings", classes)
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	src := string(out)

	wantFragments := []string{
		"package bindings",
		`"github.com/chazu/javabind/jvm"`,
		"type SimpleClassClass struct {",
		"func LoadSimpleClass(env *jvm.Env) (*SimpleClassClass, error) {",
		`env.FindClass("javabind/test/SimpleClass")`,
		`class.Constructor("(I)V")`,
		`class.Method("valueWithAdded", "(I)I")`,
		`class.StaticMethod("create", "(I)Ljavabind/test/SimpleClass;")`,
		"func (h *SimpleClassClass) NewSimpleClass(value int32) (*SimpleClass, error) {",
		"func (o *SimpleClass) ValueWithAdded(delta int32) (int32, error) {",
		".CallInt(o.Ref, jvm.Int(delta))",
		// Statics hang off the class handle, without a receiver.
		"func (h *SimpleClassClass) Create(value int32) (*jvm.LocalRef, error) {",
		".CallObject(nil, jvm.Int(value))",
		"func (o *SimpleClass) Reset() error {",
		".CallVoid(o.Ref)",
		// Reference returns come back as plain locals.
		"func (o *SimpleClass) Name() (*jvm.LocalRef, error) {",
		"func (o *SimpleClass) History(limit int32) (*jvm.LocalRef, error) {",
	}
	for _, want := range wantFragments {
		if !strings.Contains(src, want) {
			t.Errorf("generated source missing %q", want)
		}
	}
	if !strings.HasPrefix(src, "// Code generated by javabind-gen. DO NOT EDIT.") {
		t.Error("missing generated-code header")
	}
}

func TestEmitOverloads(t *testing.T) {
	classes, err := Parse(`
class a.Adder {
    Adder();
    Adder(int seed);
    int add(int x);
    long add(long x);
}
`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out, err := Emit("bindings", classes)
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	src := string(out)

	// Overloads get ordinal suffixes in declaration order.
	for _, want := range []string{
		"func (h *AdderClass) NewAdder() (*Adder, error) {",
		"func (h *AdderClass) NewAdder2(seed int32) (*Adder, error) {",
		"func (o *Adder) Add(x int32) (int32, error) {",
		"func (o *Adder) Add2(x int64) (int64, error) {",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated source missing %q", want)
		}
	}
}

func TestEmitKeywordParameter(t *testing.T) {
	classes, err := Parse(`class a.B { int get(int range); }`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out, err := Emit("x", classes)
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	if !strings.Contains(string(out), "Get(range_ int32)") {
		t.Error("Go keyword parameter name was not rewritten")
	}
}
