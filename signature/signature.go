// Package signature encodes and decodes the JVM type-descriptor grammar:
// single-character codes for primitives ("I" for int), "L<class>;" for
// objects, a "[" prefix for arrays, and "(<args>)<ret>" for methods.
// Descriptors are the unit of member resolution and the source of truth
// for argument validation at every call site.
package signature

import (
	"fmt"
	"strings"
)

// Kind is a type category of the descriptor grammar.
type Kind uint8

const (
	Invalid Kind = iota
	Boolean
	Byte
	Char
	Short
	Int
	Long
	Float
	Double
	Void
	Object
	Array
)

var kindNames = map[Kind]string{
	Invalid: "invalid",
	Boolean: "boolean",
	Byte:    "byte",
	Char:    "char",
	Short:   "short",
	Int:     "int",
	Long:    "long",
	Float:   "float",
	Double:  "double",
	Void:    "void",
	Object:  "object",
	Array:   "array",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsPrimitive reports whether the kind is a primitive value category.
// Void is not a value category.
func (k Kind) IsPrimitive() bool {
	return k >= Boolean && k <= Double
}

// IsReference reports whether values of the kind are object references.
func (k Kind) IsReference() bool {
	return k == Object || k == Array
}

var primitiveCodes = map[Kind]byte{
	Boolean: 'Z',
	Byte:    'B',
	Char:    'C',
	Short:   'S',
	Int:     'I',
	Long:    'J',
	Float:   'F',
	Double:  'D',
	Void:    'V',
}

// Type is an immutable type descriptor.
type Type struct {
	Kind  Kind
	Class string // slash-separated class name, Object kinds only
	Elem  *Type  // element type, Array kinds only
}

// Primitive and void descriptors, one per supported category.
var (
	BooleanType = Type{Kind: Boolean}
	ByteType    = Type{Kind: Byte}
	CharType    = Type{Kind: Char}
	ShortType   = Type{Kind: Short}
	IntType     = Type{Kind: Int}
	LongType    = Type{Kind: Long}
	FloatType   = Type{Kind: Float}
	DoubleType  = Type{Kind: Double}
	VoidType    = Type{Kind: Void}
)

// ObjectOf returns the descriptor of an object of the named class.
// The name uses slash separators: "java/lang/String".
func ObjectOf(class string) Type {
	return Type{Kind: Object, Class: class}
}

// ArrayOf returns the descriptor of an array with the given element type.
func ArrayOf(elem Type) Type {
	e := elem
	return Type{Kind: Array, Elem: &e}
}

// String renders the descriptor: "I", "Ljava/lang/String;", "[[D".
func (t Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t Type) write(b *strings.Builder) {
	switch t.Kind {
	case Object:
		b.WriteByte('L')
		b.WriteString(t.Class)
		b.WriteByte(';')
	case Array:
		b.WriteByte('[')
		t.Elem.write(b)
	default:
		if code, ok := primitiveCodes[t.Kind]; ok {
			b.WriteByte(code)
			return
		}
		b.WriteByte('?')
	}
}

// Equal reports whether two descriptors denote the same type.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case Object:
		return t.Class == other.Class
	case Array:
		return t.Elem.Equal(*other.Elem)
	default:
		return true
	}
}

// Method is a method descriptor: parenthesized argument types followed by
// a return type.
type Method struct {
	Params []Type
	Return Type
}

// MethodOf builds a method descriptor from a return type and parameters.
func MethodOf(ret Type, params ...Type) Method {
	return Method{Params: params, Return: ret}
}

// String renders the method descriptor: "(ILjava/lang/String;)V".
func (m Method) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range m.Params {
		p.write(&b)
	}
	b.WriteByte(')')
	m.Return.write(&b)
	return b.String()
}

// ParseType parses a single type descriptor. The whole input must be
// consumed.
func ParseType(descriptor string) (Type, error) {
	t, rest, err := parseType(descriptor)
	if err != nil {
		return Type{}, err
	}
	if rest != "" {
		return Type{}, fmt.Errorf("trailing input %q in descriptor %q", rest, descriptor)
	}
	return t, nil
}

// ParseMethod parses a method descriptor.
func ParseMethod(descriptor string) (Method, error) {
	if len(descriptor) == 0 || descriptor[0] != '(' {
		return Method{}, fmt.Errorf("method descriptor %q must start with '('", descriptor)
	}
	rest := descriptor[1:]
	var m Method
	for {
		if rest == "" {
			return Method{}, fmt.Errorf("unterminated argument list in descriptor %q", descriptor)
		}
		if rest[0] == ')' {
			rest = rest[1:]
			break
		}
		t, r, err := parseType(rest)
		if err != nil {
			return Method{}, fmt.Errorf("descriptor %q: %w", descriptor, err)
		}
		if t.Kind == Void {
			return Method{}, fmt.Errorf("void parameter in descriptor %q", descriptor)
		}
		m.Params = append(m.Params, t)
		rest = r
	}
	ret, r, err := parseType(rest)
	if err != nil {
		return Method{}, fmt.Errorf("descriptor %q: %w", descriptor, err)
	}
	if r != "" {
		return Method{}, fmt.Errorf("trailing input %q in descriptor %q", r, descriptor)
	}
	m.Return = ret
	return m, nil
}

var codeKinds = map[byte]Kind{
	'Z': Boolean,
	'B': Byte,
	'C': Char,
	'S': Short,
	'I': Int,
	'J': Long,
	'F': Float,
	'D': Double,
	'V': Void,
}

func parseType(s string) (Type, string, error) {
	if s == "" {
		return Type{}, "", fmt.Errorf("empty type descriptor")
	}
	switch c := s[0]; c {
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return Type{}, "", fmt.Errorf("unterminated class descriptor %q", s)
		}
		name := s[1:end]
		if name == "" {
			return Type{}, "", fmt.Errorf("empty class name in descriptor %q", s)
		}
		return ObjectOf(name), s[end+1:], nil
	case '[':
		elem, rest, err := parseType(s[1:])
		if err != nil {
			return Type{}, "", err
		}
		if elem.Kind == Void {
			return Type{}, "", fmt.Errorf("array of void in descriptor %q", s)
		}
		return ArrayOf(elem), rest, nil
	default:
		kind, ok := codeKinds[c]
		if !ok {
			return Type{}, "", fmt.Errorf("unknown type code %q", string(c))
		}
		return Type{Kind: kind}, s[1:], nil
	}
}
