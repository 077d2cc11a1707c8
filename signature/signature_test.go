package signature

import "testing"

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"Z", BooleanType},
		{"B", ByteType},
		{"C", CharType},
		{"S", ShortType},
		{"I", IntType},
		{"J", LongType},
		{"F", FloatType},
		{"D", DoubleType},
		{"V", VoidType},
		{"Ljava/lang/String;", ObjectOf("java/lang/String")},
		{"[I", ArrayOf(IntType)},
		{"[[D", ArrayOf(ArrayOf(DoubleType))},
		{"[Ljava/lang/Object;", ArrayOf(ObjectOf("java/lang/Object"))},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if err != nil {
			t.Errorf("ParseType(%q) failed: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseType(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if got.String() != tt.in {
			t.Errorf("ParseType(%q).String() = %q", tt.in, got.String())
		}
	}
}

func TestParseTypeErrors(t *testing.T) {
	bad := []string{
		"",
		"X",
		"L",
		"Ljava/lang/String", // missing terminator
		"[",
		"[V", // array of void
		"II", // trailing input
		"Ljava/lang/String;I",
	}
	for _, in := range bad {
		if _, err := ParseType(in); err == nil {
			t.Errorf("ParseType(%q) succeeded, want error", in)
		}
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in     string
		params int
		ret    Kind
	}{
		{"()V", 0, Void},
		{"(I)I", 1, Int},
		{"(IJ)Ljava/lang/String;", 2, Object},
		{"(Ljava/lang/String;[I)V", 2, Void},
		{"([[Ljava/lang/Object;)[B", 1, Array},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if err != nil {
			t.Errorf("ParseMethod(%q) failed: %v", tt.in, err)
			continue
		}
		if len(got.Params) != tt.params {
			t.Errorf("ParseMethod(%q) params = %d, want %d", tt.in, len(got.Params), tt.params)
		}
		if got.Return.Kind != tt.ret {
			t.Errorf("ParseMethod(%q) return = %s, want %s", tt.in, got.Return.Kind, tt.ret)
		}
		if got.String() != tt.in {
			t.Errorf("ParseMethod(%q).String() = %q", tt.in, got.String())
		}
	}
}

func TestParseMethodErrors(t *testing.T) {
	bad := []string{
		"",
		"I",     // no parameter list
		"()",    // no return type
		"(I",    // unterminated parameter list
		"(V)V",  // void parameter
		"()VV",  // trailing input
		"(I)I;", // trailing input
	}
	for _, in := range bad {
		if _, err := ParseMethod(in); err == nil {
			t.Errorf("ParseMethod(%q) succeeded, want error", in)
		}
	}
}

func TestKindCategories(t *testing.T) {
	for _, k := range []Kind{Boolean, Byte, Char, Short, Int, Long, Float, Double} {
		if !k.IsPrimitive() || k.IsReference() {
			t.Errorf("%s: want primitive, not reference", k)
		}
	}
	for _, k := range []Kind{Object, Array} {
		if k.IsPrimitive() || !k.IsReference() {
			t.Errorf("%s: want reference, not primitive", k)
		}
	}
	if Void.IsPrimitive() || Void.IsReference() {
		t.Error("void is neither primitive nor reference")
	}
}

func TestMethodOf(t *testing.T) {
	m := MethodOf(IntType, ObjectOf("java/lang/String"), LongType)
	if got, want := m.String(), "(Ljava/lang/String;J)I"; got != want {
		t.Errorf("MethodOf.String() = %q, want %q", got, want)
	}
}
