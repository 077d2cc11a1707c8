package gen

import (
	"fmt"
	"strings"
	"unicode"
)

// ---------------------------------------------------------------------------
// Scanner
// ---------------------------------------------------------------------------

type token struct {
	text string
	line int
}

// scan splits the input into identifier and punctuation tokens, dropping
// whitespace and // comments.
func scan(src string) ([]token, error) {
	var tokens []token
	line := 1
	runes := []rune(src)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == '\n':
			line++
			i++
		case unicode.IsSpace(r):
			i++
		case r == '/' && i+1 < len(runes) && runes[i+1] == '/':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			start := i
			for i < len(runes) && (runes[i] == '_' || unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])) {
				i++
			}
			tokens = append(tokens, token{text: string(runes[start:i]), line: line})
		case strings.ContainsRune("{}();,.[]", r):
			tokens = append(tokens, token{text: string(r), line: line})
			i++
		default:
			return nil, fmt.Errorf("line %d: unexpected character %q", line, r)
		}
	}
	return tokens, nil
}

// ---------------------------------------------------------------------------
// Parser
// ---------------------------------------------------------------------------

type parser struct {
	tokens []token
	pos    int
}

// Parse reads class declarations from src.
func Parse(src string) ([]Class, error) {
	tokens, err := scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	var classes []Class
	for !p.done() {
		class, err := p.class()
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("no class declarations found")
	}
	return classes, nil
}

func (p *parser) done() bool { return p.pos >= len(p.tokens) }

func (p *parser) peek() token {
	if p.done() {
		return token{text: "<eof>", line: -1}
	}
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) expect(text string) error {
	t := p.next()
	if t.text != text {
		return fmt.Errorf("line %d: expected %q, got %q", t.line, text, t.text)
	}
	return nil
}

func (p *parser) accept(text string) bool {
	if p.peek().text == text {
		p.pos++
		return true
	}
	return false
}

func isIdent(s string) bool {
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return len(s) > 0
}

// dottedName parses a dot-separated Java name.
func (p *parser) dottedName() (string, error) {
	t := p.next()
	if !isIdent(t.text) {
		return "", fmt.Errorf("line %d: expected name, got %q", t.line, t.text)
	}
	name := t.text
	for p.accept(".") {
		t = p.next()
		if !isIdent(t.text) {
			return "", fmt.Errorf("line %d: expected name after '.', got %q", t.line, t.text)
		}
		name += "." + t.text
	}
	return name, nil
}

// typeRef parses a type: a primitive or dotted class name with optional
// [] suffixes.
func (p *parser) typeRef() (TypeRef, error) {
	name, err := p.dottedName()
	if err != nil {
		return TypeRef{}, err
	}
	ref := TypeRef{Name: name}
	for p.accept("[") {
		if err := p.expect("]"); err != nil {
			return TypeRef{}, err
		}
		ref.Dims++
	}
	return ref, nil
}

// class parses one declaration:
//
//	["public"] "class" name ["extends" name] "{" members "}"
func (p *parser) class() (Class, error) {
	p.accept("public")
	if err := p.expect("class"); err != nil {
		return Class{}, err
	}
	name, err := p.dottedName()
	if err != nil {
		return Class{}, err
	}
	class := Class{Name: name}
	if p.accept("extends") {
		class.Extends, err = p.dottedName()
		if err != nil {
			return Class{}, err
		}
	}
	if err := p.expect("{"); err != nil {
		return Class{}, err
	}
	for !p.accept("}") {
		if p.done() {
			return Class{}, fmt.Errorf("class %s: missing closing brace", name)
		}
		if err := p.member(&class); err != nil {
			return Class{}, err
		}
	}
	return class, nil
}

// member parses a constructor or method declaration. A declaration whose
// first token matches the class's simple name followed by '(' is a
// constructor.
func (p *parser) member(class *Class) error {
	p.accept("public")
	static := p.accept("static")
	line := p.peek().line
	if !static && p.peek().text == SimpleName(class.Name) && p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].text == "(" {
		p.pos++
		params, err := p.params()
		if err != nil {
			return err
		}
		if err := p.expect(";"); err != nil {
			return err
		}
		class.Ctors = append(class.Ctors, Ctor{Params: params})
		return nil
	}
	ret, err := p.typeRef()
	if err != nil {
		return err
	}
	t := p.next()
	if !isIdent(t.text) {
		return fmt.Errorf("line %d: expected method name, got %q", t.line, t.text)
	}
	params, err := p.params()
	if err != nil {
		return err
	}
	if err := p.expect(";"); err != nil {
		return err
	}
	if ret.Name == "void" && ret.Dims > 0 {
		return fmt.Errorf("line %d: void cannot be an array element", line)
	}
	class.Methods = append(class.Methods, Method{
		Name:   t.text,
		Return: ret,
		Params: params,
		Static: static,
	})
	return nil
}

// params parses "(" [type [name] {"," type [name]}] ")".
func (p *parser) params() ([]Param, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	if p.accept(")") {
		return nil, nil
	}
	var params []Param
	for {
		typ, err := p.typeRef()
		if err != nil {
			return nil, err
		}
		if typ.Name == "void" {
			return nil, fmt.Errorf("void is not a valid parameter type")
		}
		param := Param{Type: typ}
		if t := p.peek(); isIdent(t.text) {
			param.Name = t.text
			p.pos++
		}
		params = append(params, param)
		if p.accept(")") {
			return params, nil
		}
		if err := p.expect(","); err != nil {
			return nil, err
		}
	}
}
