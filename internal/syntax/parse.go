package syntax

import (
	"context"
	"fmt"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/allurecheck/internal/lang"
)

// ParseError reports source that could not be parsed into a complete tree.
type ParseError struct {
	File   string
	Line   int
	Column int
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: syntax error: %s", e.File, e.Line, e.Column, e.Detail)
}

// Parser turns Python source into a *Module.
// A Parser is not safe for concurrent use; create one per goroutine.
type Parser struct {
	p *sitter.Parser
}

// NewParser creates a parser for Python source.
func NewParser() *Parser {
	return &Parser{p: lang.Languages[lang.Python].NewParser()}
}

// Parse parses source. path is used only for error reporting.
// Any syntax error in the file yields a *ParseError and no tree.
func (p *Parser) Parse(ctx context.Context, path string, source []byte) (*Module, error) {
	tree, err := p.p.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, newParseError(path, root, source)
	}

	c := &converter{src: source}
	return &Module{
		Pos:  Pos{Line: 1},
		Body: c.namedChildren(root),
	}, nil
}

func newParseError(path string, root *sitter.Node, source []byte) *ParseError {
	bad := firstError(root)
	if bad == nil {
		bad = root
	}
	pos := position(bad)
	detail := "unexpected " + quoteSnippet(lang.NodeText(bad, source))
	if bad.IsMissing() {
		detail = "missing " + bad.Type()
	}
	return &ParseError{File: path, Line: pos.Line, Column: pos.Column, Detail: detail}
}

// firstError returns the first ERROR or MISSING node in pre-order.
func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstError(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}

func quoteSnippet(s string) string {
	const limit = 40
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return fmt.Sprintf("%q", s)
}

func position(n *sitter.Node) Pos {
	p := n.StartPoint()
	return Pos{
		Line:   safecast.MustConv[int](p.Row) + 1,
		Column: safecast.MustConv[int](p.Column),
	}
}

type converter struct {
	src []byte
}

func (c *converter) text(n *sitter.Node) string {
	return lang.NodeText(n, c.src)
}

func (c *converter) namedChildren(n *sitter.Node) []Node {
	if n == nil {
		return nil
	}
	var out []Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := c.convert(n.NamedChild(i)); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// convert returns nil for nodes that carry no meaning (comments).
func (c *converter) convert(n *sitter.Node) Node {
	if n == nil {
		return nil
	}
	pos := position(n)

	switch n.Type() {
	case "comment":
		return nil

	case "decorated_definition":
		return c.decorated(n)

	case "function_definition":
		fn := &FunctionDef{
			Pos:  pos,
			Name: c.text(n.ChildByFieldName("name")),
			Body: c.namedChildren(n.ChildByFieldName("body")),
		}
		if n.ChildCount() > 0 && n.Child(0).Type() == "async" {
			fn.Async = true
		}
		return fn

	case "class_definition":
		return &ClassDef{
			Pos:  pos,
			Name: c.text(n.ChildByFieldName("name")),
			Body: c.namedChildren(n.ChildByFieldName("body")),
		}

	case "call":
		return c.call(n, pos)

	case "attribute":
		return &Attribute{
			Pos:   pos,
			Value: c.convert(n.ChildByFieldName("object")),
			Attr:  c.text(n.ChildByFieldName("attribute")),
		}

	case "identifier":
		return &Name{Pos: pos, ID: c.text(n)}

	case "parenthesized_expression":
		if inner := c.namedChildren(n); len(inner) == 1 {
			return inner[0]
		}

	case "string":
		return c.stringLiteral(n, pos)

	case "concatenated_string":
		return c.concatenated(n, pos)
	}

	return &Generic{Pos: pos, Kind: n.Type(), Children: c.namedChildren(n)}
}

func (c *converter) decorated(n *sitter.Node) Node {
	var decorators []Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "decorator" {
			continue
		}
		if exprs := c.namedChildren(child); len(exprs) > 0 {
			decorators = append(decorators, exprs[0])
		}
	}

	def := c.convert(n.ChildByFieldName("definition"))
	switch d := def.(type) {
	case *FunctionDef:
		d.Decorators = decorators
	case *ClassDef:
		d.Decorators = decorators
	}
	return def
}

func (c *converter) call(n *sitter.Node, pos Pos) *Call {
	call := &Call{Pos: pos, Func: c.convert(n.ChildByFieldName("function"))}

	args := n.ChildByFieldName("arguments")
	if args == nil {
		return call
	}
	// f(x for x in y) has a generator_expression in place of an argument_list.
	if args.Type() == "generator_expression" {
		call.Args = []Node{c.convert(args)}
		return call
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		switch arg.Type() {
		case "comment":
		case "keyword_argument", "dictionary_splat":
			call.Keywords = append(call.Keywords, c.convert(arg))
		default:
			call.Args = append(call.Args, c.convert(arg))
		}
	}
	return call
}

func (c *converter) stringLiteral(n *sitter.Node, pos Pos) Node {
	lit, ok := decodeString(c.text(n))
	if !ok {
		return &Generic{Pos: pos, Kind: stringKind(c.text(n)), Children: c.namedChildren(n)}
	}
	return &StringLit{Pos: pos, Value: lit}
}

func (c *converter) concatenated(n *sitter.Node, pos Pos) Node {
	parts := c.namedChildren(n)
	value := ""
	for _, p := range parts {
		lit, ok := p.(*StringLit)
		if !ok {
			return &Generic{Pos: pos, Kind: "concatenated_string", Children: parts}
		}
		value += lit.Value
	}
	return &StringLit{Pos: pos, Value: value}
}
