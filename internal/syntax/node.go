// Package syntax converts tree-sitter Python trees into a closed set of
// node types that the rule engine can match on exhaustively.
package syntax

// Pos is a source position: 1-based line, 0-based byte column.
type Pos struct {
	Line   int
	Column int
}

// Position returns p. It lets every node embed Pos.
func (p Pos) Position() Pos {
	return p
}

// Node is one of *Module, *FunctionDef, *ClassDef, *Call, *Attribute,
// *Name, *StringLit or *Generic.
type Node interface {
	Position() Pos
	node()
}

// Module is the root of a parsed file.
type Module struct {
	Pos
	Body []Node
}

// FunctionDef is a def or async def statement. Pos is the position of the
// def (or async) keyword, not of its first decorator.
type FunctionDef struct {
	Pos
	Name       string
	Async      bool
	Decorators []Node
	Body       []Node
}

// ClassDef is a class statement. Pos is the position of the class keyword.
type ClassDef struct {
	Pos
	Name       string
	Decorators []Node
	Body       []Node
}

// Call is an invocation. Args holds positional arguments only; keyword
// arguments and ** splats go to Keywords.
type Call struct {
	Pos
	Func     Node
	Args     []Node
	Keywords []Node
}

// Attribute is an attribute access: Value.Attr.
type Attribute struct {
	Pos
	Value Node
	Attr  string
}

// Name is a bare identifier.
type Name struct {
	Pos
	ID string
}

// StringLit is a plain str literal with escapes decoded. Implicitly
// concatenated plain literals are folded into one StringLit. Bytes and
// f-strings are not StringLits.
type StringLit struct {
	Pos
	Value string
}

// Generic is any other construct, identified by its grammar node type.
type Generic struct {
	Pos
	Kind     string
	Children []Node
}

func (*Module) node()      {}
func (*FunctionDef) node() {}
func (*ClassDef) node()    {}
func (*Call) node()        {}
func (*Attribute) node()   {}
func (*Name) node()        {}
func (*StringLit) node()   {}
func (*Generic) node()     {}

// Children returns the direct child nodes of n in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Module:
		return n.Body
	case *FunctionDef:
		return concat(n.Decorators, n.Body)
	case *ClassDef:
		return concat(n.Decorators, n.Body)
	case *Call:
		return concat([]Node{n.Func}, n.Args, n.Keywords)
	case *Attribute:
		return []Node{n.Value}
	case *Name, *StringLit:
		return nil
	case *Generic:
		return n.Children
	}
	return nil
}

func concat(lists ...[]Node) []Node {
	var out []Node
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
