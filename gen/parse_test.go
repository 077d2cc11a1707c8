package gen

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const simpleDecl = `
// The fixture class used across the layer's tests.
public class javabind.test.SimpleClass extends java.lang.Object {
    SimpleClass(int value);
    int valueWithAdded(int delta);
    static javabind.test.SimpleClass create(int value);
    void reset();
    java.lang.String name();
    int[] history(int limit);
}
`

func TestParse(t *testing.T) {
	classes, err := Parse(simpleDecl)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []Class{{
		Name:    "javabind.test.SimpleClass",
		Extends: "java.lang.Object",
		Ctors: []Ctor{
			{Params: []Param{{Type: TypeRef{Name: "int"}, Name: "value"}}},
		},
		Methods: []Method{
			{Name: "valueWithAdded", Return: TypeRef{Name: "int"}, Params: []Param{{Type: TypeRef{Name: "int"}, Name: "delta"}}},
			{Name: "create", Return: TypeRef{Name: "javabind.test.SimpleClass"}, Params: []Param{{Type: TypeRef{Name: "int"}, Name: "value"}}, Static: true},
			{Name: "reset", Return: TypeRef{Name: "void"}},
			{Name: "name", Return: TypeRef{Name: "java.lang.String"}},
			{Name: "history", Return: TypeRef{Name: "int", Dims: 1}, Params: []Param{{Type: TypeRef{Name: "int"}, Name: "limit"}}},
		},
	}}
	if diff := cmp.Diff(want, classes); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestDescriptors(t *testing.T) {
	classes, err := Parse(simpleDecl)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	class := classes[0]
	if got, want := class.Ctors[0].Descriptor(), "(I)V"; got != want {
		t.Errorf("ctor descriptor = %q, want %q", got, want)
	}
	wantMethods := map[string]string{
		"valueWithAdded": "(I)I",
		"create":         "(I)Ljavabind/test/SimpleClass;",
		"reset":          "()V",
		"name":           "()Ljava/lang/String;",
		"history":        "(I)[I",
	}
	for _, m := range class.Methods {
		if got := m.Descriptor(); got != wantMethods[m.Name] {
			t.Errorf("%s descriptor = %q, want %q", m.Name, got, wantMethods[m.Name])
		}
	}
}

func TestParseMultipleClasses(t *testing.T) {
	src := `
class a.One { One(); }
class a.Two extends a.One { int size(); }
`
	classes, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(classes) != 2 {
		t.Fatalf("parsed %d classes, want 2", len(classes))
	}
	if classes[1].Extends != "a.One" {
		t.Errorf("Two extends %q, want a.One", classes[1].Extends)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty input", "", "no class declarations"},
		{"missing brace", "class a.B {", "missing closing brace"},
		{"void parameter", "class a.B { int f(void); }", "void"},
		{"void array", "class a.B { void[] f(); }", "void"},
		{"missing semicolon", "class a.B { int f() }", `expected ";"`},
		{"stray character", "class a.B { int f(); } %", "unexpected character"},
	}
	for _, tt := range tests {
		_, err := Parse(tt.src)
		if err == nil {
			t.Errorf("%s: Parse succeeded, want error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error = %q, want substring %q", tt.name, err.Error(), tt.want)
		}
	}
}

func TestNameHelpers(t *testing.T) {
	if got := SlashName("java.lang.String"); got != "java/lang/String" {
		t.Errorf("SlashName = %q", got)
	}
	if got := SimpleName("javabind.test.SimpleClass"); got != "SimpleClass" {
		t.Errorf("SimpleName = %q", got)
	}
	if got := SimpleName("Bare"); got != "Bare" {
		t.Errorf("SimpleName = %q", got)
	}
}
