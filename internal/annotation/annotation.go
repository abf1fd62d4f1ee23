// Package annotation classifies the decorators attached to test functions
// and classes.
//
// Only call-shaped decorators whose target is an attribute access are
// recognized: @allure.id("1") is an id marker, @id("1") and @allure.id are not.
package annotation

import (
	"github.com/phobologic/allurecheck/internal/syntax"
)

// Kind is the classification of a single decorator.
type Kind int

const (
	Other Kind = iota
	Flaky
	ID
	OwnerLabel
)

func (k Kind) String() string {
	switch k {
	case Flaky:
		return "flaky"
	case ID:
		return "id"
	case OwnerLabel:
		return "owner-label"
	}
	return "other"
}

// Attribute names that identify markers.
const (
	flakyAttr = "flaky"
	idAttr    = "id"
	labelAttr = "label"
	ownerKey  = "owner"
)

// Marker is a classified decorator. Call is the decorator itself for every
// call-shaped decorator and nil otherwise.
type Marker struct {
	Kind Kind
	Call *syntax.Call
}

// NumArgs returns the number of positional arguments of the decorator.
func (m Marker) NumArgs() int {
	if m.Call == nil {
		return 0
	}
	return len(m.Call.Args)
}

// Arg returns the i-th positional argument, or nil if there is none.
func (m Marker) Arg(i int) syntax.Node {
	if i < 0 || i >= m.NumArgs() {
		return nil
	}
	return m.Call.Args[i]
}

// StringArg returns the value of the i-th positional argument if it is a
// plain string literal.
func (m Marker) StringArg(i int) (string, bool) {
	s, ok := m.Arg(i).(*syntax.StringLit)
	if !ok {
		return "", false
	}
	return s.Value, true
}

// Classify determines what kind of marker dec is.
func Classify(dec syntax.Node) Marker {
	switch d := dec.(type) {
	case *syntax.Call:
		return classifyCall(d)
	case *syntax.Attribute, *syntax.Name:
		// Bare references such as @pytest.mark.flaky are not call-shaped.
		return Marker{Kind: Other}
	case *syntax.StringLit, *syntax.Generic, *syntax.Module, *syntax.FunctionDef, *syntax.ClassDef:
		return Marker{Kind: Other}
	}
	return Marker{Kind: Other}
}

func classifyCall(call *syntax.Call) Marker {
	attr, ok := call.Func.(*syntax.Attribute)
	if !ok {
		return Marker{Kind: Other, Call: call}
	}

	m := Marker{Kind: Other, Call: call}
	switch attr.Attr {
	case flakyAttr:
		m.Kind = Flaky
	case idAttr:
		m.Kind = ID
	case labelAttr:
		if key, ok := m.StringArg(0); ok && key == ownerKey {
			m.Kind = OwnerLabel
		}
	}
	return m
}

// Set is the result of scanning a definition's decorator list.
type Set struct {
	// Flaky holds every flaky marker in decorator order.
	Flaky []Marker
	// ID is the last id marker in decorator order, or nil.
	ID *Marker
	// Owner reports whether a confirmed owner label is present.
	Owner bool
}

// Scan classifies decorators in order. When several id markers are
// present the last one wins.
func Scan(decorators []syntax.Node) Set {
	var s Set
	for _, dec := range decorators {
		m := Classify(dec)
		switch m.Kind {
		case Flaky:
			s.Flaky = append(s.Flaky, m)
		case ID:
			s.ID = &m
		case OwnerLabel:
			s.Owner = true
		case Other:
		}
	}
	return s
}
