package syntaxast

import "fmt"

// Parser is the adapter boundary spec.md §1 names as "the query-language
// syntactic parser" — out of the compiler's core, but a conforming
// implementation must live somewhere to drive the builder. This one is a
// plain recursive-descent parser; grounded on the teacher's own
// inspector-adapter lifecycle (construct, then a single Parse/Inspect
// call producing a tree) rather than on tree-sitter, since the pack
// carries no query-language grammar for go-tree-sitter to bind to.
type Parser struct {
	lex *lexer
	cur token
}

// Parse parses a full source text into a Document.
func Parse(src []byte) (*Document, error) {
	p := &Parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	doc := &Document{}
	for p.cur.kind != tokEOF {
		def, err := p.parseDefinition()
		if err != nil {
			return nil, err
		}
		doc.Definitions = append(doc.Definitions, def)
	}
	return doc, nil
}

func (p *Parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *Parser) expectName(want string) error {
	if p.cur.kind != tokName || p.cur.text != want {
		return fmt.Errorf("syntaxast: expected %q at offset %d, got %q", want, p.cur.span.Start, p.cur.text)
	}
	return p.advance()
}

func (p *Parser) expect(k tokenKind, what string) (token, error) {
	if p.cur.kind != k {
		return token{}, fmt.Errorf("syntaxast: expected %s at offset %d", what, p.cur.span.Start)
	}
	t := p.cur
	return t, p.advance()
}

func (p *Parser) parseDefinition() (ExecutableDefinition, error) {
	start := p.cur.span.Start
	if p.cur.kind == tokName && p.cur.text == "fragment" {
		return p.parseFragment(start)
	}
	if p.cur.kind == tokName && (p.cur.text == "query" || p.cur.text == "mutation" || p.cur.text == "subscription") {
		return p.parseOperation(start)
	}
	if p.cur.kind == tokBraceOpen {
		// Anonymous query shorthand: `{ selections }`.
		sel, err := p.parseSelectionSet()
		if err != nil {
			return nil, err
		}
		return &OperationDefinition{OperationKind: "query", SelectionSet: sel, Span: Span{start, p.cur.span.Start}}, nil
	}
	return nil, fmt.Errorf("syntaxast: unexpected token %q at offset %d", p.cur.text, start)
}

func (p *Parser) parseOperation(start int) (*OperationDefinition, error) {
	kind := p.cur.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	op := &OperationDefinition{OperationKind: kind}
	if p.cur.kind == tokName {
		op.Name = p.cur.text
		op.NameSpan = p.cur.span
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.cur.kind == tokParenOpen {
		vars, err := p.parseVariableDefinitions()
		if err != nil {
			return nil, err
		}
		op.VariableDefinitions = vars
	}
	dirs, err := p.parseDirectives()
	if err != nil {
		return nil, err
	}
	op.Directives = dirs
	sel, err := p.parseSelectionSet()
	if err != nil {
		return nil, err
	}
	op.SelectionSet = sel
	op.Span = Span{start, p.cur.span.Start}
	return op, nil
}

func (p *Parser) parseFragment(start int) (*FragmentDefinition, error) {
	if err := p.advance(); err != nil { // 'fragment'
		return nil, err
	}
	name, err := p.expect(tokName, "fragment name")
	if err != nil {
		return nil, err
	}
	f := &FragmentDefinition{Name: name.text, NameSpan: name.span}
	if err := p.expectName("on"); err != nil {
		return nil, err
	}
	typeName, err := p.expect(tokName, "type condition")
	if err != nil {
		return nil, err
	}
	f.TypeCondition = typeName.text
	f.TypeSpan = typeName.span
	dirs, err := p.parseDirectives()
	if err != nil {
		return nil, err
	}
	f.Directives = dirs
	sel, err := p.parseSelectionSet()
	if err != nil {
		return nil, err
	}
	f.SelectionSet = sel
	f.Span = Span{start, p.cur.span.Start}
	return f, nil
}

func (p *Parser) parseVariableDefinitions() ([]VariableDefinition, error) {
	if _, err := p.expect(tokParenOpen, "("); err != nil {
		return nil, err
	}
	var out []VariableDefinition
	for p.cur.kind != tokParenClose {
		if _, err := p.expect(tokDollar, "$"); err != nil {
			return nil, err
		}
		name, err := p.expect(tokName, "variable name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokColon, ":"); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		vd := VariableDefinition{Name: name.text, NameSpan: name.span, Type: typ}
		if p.cur.kind == tokEquals {
			if err := p.advance(); err != nil {
				return nil, err
			}
			val, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			vd.DefaultValue = &val
		}
		out = append(out, vd)
	}
	return out, p.advance()
}

func (p *Parser) parseType() (TypeNode, error) {
	start := p.cur.span.Start
	var t TypeNode
	if p.cur.kind == tokBracketOpen {
		if err := p.advance(); err != nil {
			return t, err
		}
		inner, err := p.parseType()
		if err != nil {
			return t, err
		}
		t = TypeNode{Kind: TypeList, Of: &inner}
		if _, err := p.expect(tokBracketClose, "]"); err != nil {
			return t, err
		}
	} else {
		name, err := p.expect(tokName, "type name")
		if err != nil {
			return t, err
		}
		t = TypeNode{Kind: TypeNamed, Name: name.text}
	}
	if p.cur.kind == tokBang {
		if err := p.advance(); err != nil {
			return t, err
		}
		inner := t
		t = TypeNode{Kind: TypeNonNull, Of: &inner}
	}
	t.Span = Span{start, p.cur.span.Start}
	return t, nil
}

func (p *Parser) parseDirectives() ([]Directive, error) {
	var out []Directive
	for p.cur.kind == tokAt {
		start := p.cur.span.Start
		if err := p.advance(); err != nil {
			return nil, err
		}
		name, err := p.expect(tokName, "directive name")
		if err != nil {
			return nil, err
		}
		d := Directive{Name: name.text, NameSpan: name.span}
		if p.cur.kind == tokParenOpen {
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			d.Arguments = args
		}
		d.Span = Span{start, p.cur.span.Start}
		out = append(out, d)
	}
	return out, nil
}

func (p *Parser) parseArguments() ([]Argument, error) {
	if _, err := p.expect(tokParenOpen, "("); err != nil {
		return nil, err
	}
	var out []Argument
	for p.cur.kind != tokParenClose {
		name, err := p.expect(tokName, "argument name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokColon, ":"); err != nil {
			return nil, err
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out = append(out, Argument{Name: name.text, NameSpan: name.span, Value: val})
	}
	return out, p.advance()
}

func (p *Parser) parseValue() (Value, error) {
	start := p.cur.span.Start
	switch p.cur.kind {
	case tokDollar:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		name, err := p.expect(tokName, "variable name")
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValVariable, VarName: name.text, Span: Span{start, p.cur.span.Start}}, nil
	case tokIntValue:
		text := p.cur.text
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		var iv int64
		fmt.Sscanf(text, "%d", &iv)
		return Value{Kind: ValInt, IntVal: iv, Span: Span{start, p.cur.span.Start}}, nil
	case tokFloatValue:
		text := p.cur.text
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		var fv float64
		fmt.Sscanf(text, "%g", &fv)
		return Value{Kind: ValFloat, FltVal: fv, Span: Span{start, p.cur.span.Start}}, nil
	case tokStringValue:
		text := p.cur.text
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: ValString, StrVal: text, Span: Span{start, p.cur.span.Start}}, nil
	case tokBracketOpen:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		var list []Value
		for p.cur.kind != tokBracketClose {
			v, err := p.parseValue()
			if err != nil {
				return Value{}, err
			}
			list = append(list, v)
		}
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: ValList, List: list, Span: Span{start, p.cur.span.Start}}, nil
	case tokBraceOpen:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		var fields []ObjectField
		for p.cur.kind != tokBraceClose {
			name, err := p.expect(tokName, "field name")
			if err != nil {
				return Value{}, err
			}
			if _, err := p.expect(tokColon, ":"); err != nil {
				return Value{}, err
			}
			v, err := p.parseValue()
			if err != nil {
				return Value{}, err
			}
			fields = append(fields, ObjectField{Name: name.text, NameSpan: name.span, Value: v})
		}
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: ValObject, Object: fields, Span: Span{start, p.cur.span.Start}}, nil
	case tokName:
		text := p.cur.text
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		switch text {
		case "true":
			return Value{Kind: ValBool, BoolVal: true, Span: Span{start, p.cur.span.Start}}, nil
		case "false":
			return Value{Kind: ValBool, BoolVal: false, Span: Span{start, p.cur.span.Start}}, nil
		case "null":
			return Value{Kind: ValNull, Span: Span{start, p.cur.span.Start}}, nil
		default:
			return Value{Kind: ValEnum, EnumVal: text, Span: Span{start, p.cur.span.Start}}, nil
		}
	default:
		return Value{}, fmt.Errorf("syntaxast: unexpected token in value position at offset %d", start)
	}
}

func (p *Parser) parseSelectionSet() ([]Selection, error) {
	if _, err := p.expect(tokBraceOpen, "{"); err != nil {
		return nil, err
	}
	var out []Selection
	for p.cur.kind != tokBraceClose {
		sel, err := p.parseSelection()
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, p.advance()
}

func (p *Parser) parseSelection() (Selection, error) {
	start := p.cur.span.Start
	if p.cur.kind == tokSpread {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind == tokName && p.cur.text == "on" {
			return p.parseInlineFragment(start, true)
		}
		if p.cur.kind == tokAt || p.cur.kind == tokBraceOpen {
			return p.parseInlineFragment(start, false)
		}
		name, err := p.expect(tokName, "fragment name")
		if err != nil {
			return nil, err
		}
		dirs, err := p.parseDirectives()
		if err != nil {
			return nil, err
		}
		return &FragmentSpread{Name: name.text, NameSpan: name.span, Directives: dirs, Span: Span{start, p.cur.span.Start}}, nil
	}
	return p.parseField(start)
}

func (p *Parser) parseInlineFragment(start int, hasTypeCondition bool) (*InlineFragment, error) {
	inf := &InlineFragment{}
	if hasTypeCondition {
		if err := p.expectName("on"); err != nil {
			return nil, err
		}
		typeName, err := p.expect(tokName, "type condition")
		if err != nil {
			return nil, err
		}
		inf.TypeCondition = typeName.text
		inf.TypeSpan = typeName.span
	}
	dirs, err := p.parseDirectives()
	if err != nil {
		return nil, err
	}
	inf.Directives = dirs
	sel, err := p.parseSelectionSet()
	if err != nil {
		return nil, err
	}
	inf.SelectionSet = sel
	inf.Span = Span{start, p.cur.span.Start}
	return inf, nil
}

func (p *Parser) parseField(start int) (*Field, error) {
	first, err := p.expect(tokName, "field name")
	if err != nil {
		return nil, err
	}
	f := &Field{Name: first.text, NameSpan: first.span}
	if p.cur.kind == tokColon {
		if err := p.advance(); err != nil {
			return nil, err
		}
		name, err := p.expect(tokName, "field name")
		if err != nil {
			return nil, err
		}
		f.Alias = first.text
		f.Name = name.text
		f.NameSpan = name.span
	}
	if p.cur.kind == tokParenOpen {
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		f.Arguments = args
	}
	dirs, err := p.parseDirectives()
	if err != nil {
		return nil, err
	}
	f.Directives = dirs
	if p.cur.kind == tokBraceOpen {
		sel, err := p.parseSelectionSet()
		if err != nil {
			return nil, err
		}
		f.SelectionSet = sel
	}
	f.Span = Span{start, p.cur.span.Start}
	return f, nil
}
