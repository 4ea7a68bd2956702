package ir

// ClassModel represents a declared class after partial fragments are merged.
type ClassModel struct {
	Name       string       `json:"name"`
	Namespace  string       `json:"namespace,omitempty"`
	Members    []Member     `json:"-"`          // declaration order across all fragments
	Attributes []Attribute  `json:"attributes"` // duplicates preserved
	Interfaces []*Interface `json:"-"`          // transitive closure, resolved by the compiler
	Base       *ClassModel  `json:"-"`          // non-owning; nil at the root
	Fragments  int          `json:"fragments"`  // number of partial declarations merged
	Anchor     Anchor       `json:"anchor"`
}

// FullName returns Namespace.Name, or Name when the namespace is empty.
func (c *ClassModel) FullName() string {
	if c.Namespace == "" {
		return c.Name
	}
	return c.Namespace + "." + c.Name
}

// Properties returns the property members in declaration order.
func (c *ClassModel) Properties() []*PropertyModel {
	var props []*PropertyModel
	for _, m := range c.Members {
		if p, ok := m.(*PropertyModel); ok {
			props = append(props, p)
		}
	}
	return props
}

// Member is a class member: either *PropertyModel or *MethodModel.
// The set is closed; the unexported marker method prevents other implementers.
type Member interface {
	MemberName() string
	MemberAnchor() Anchor
	member()
}

// PropertyModel represents a property declaration.
type PropertyModel struct {
	Name       string      `json:"name"`
	HasSetter  bool        `json:"has_setter"`
	Attributes []Attribute `json:"attributes"`
	Anchor     Anchor      `json:"anchor"`
}

func (p *PropertyModel) MemberName() string   { return p.Name }
func (p *PropertyModel) MemberAnchor() Anchor { return p.Anchor }
func (*PropertyModel) member()                {}

// MethodModel represents a method declaration.
type MethodModel struct {
	Name       string `json:"name"`
	IsStatic   bool   `json:"is_static"`
	IsOverride bool   `json:"is_override"` // overrides a method declared on an ancestor
	Anchor     Anchor `json:"anchor"`
}

func (m *MethodModel) MemberName() string   { return m.Name }
func (m *MethodModel) MemberAnchor() Anchor { return m.Anchor }
func (*MethodModel) member()                {}

// Attribute is one application of an attribute. Name is the attribute class
// name without namespace qualification, e.g. "DoNotNotifyAttribute".
type Attribute struct {
	Name   string `json:"name"`
	Anchor Anchor `json:"anchor"`
}

// Program is the compiled symbol graph of one analysis input.
type Program struct {
	Classes    []*ClassModel `json:"classes"`    // declaration order
	Interfaces []*Interface  `json:"interfaces"` // declaration order

	classIndex     map[string]*ClassModel
	interfaceIndex map[string]*Interface
}

// NewProgram builds a Program and its lookup indexes.
func NewProgram(classes []*ClassModel, interfaces []*Interface) *Program {
	p := &Program{
		Classes:        classes,
		Interfaces:     interfaces,
		classIndex:     make(map[string]*ClassModel, len(classes)),
		interfaceIndex: make(map[string]*Interface, len(interfaces)),
	}
	for _, c := range classes {
		p.classIndex[c.Name] = c
	}
	for _, i := range interfaces {
		p.interfaceIndex[i.FullName()] = i
	}
	return p
}

// Class returns the class with the given name, or nil.
func (p *Program) Class(name string) *ClassModel {
	return p.classIndex[name]
}

// Interface returns the interface with the given fully-qualified name, or nil.
func (p *Program) Interface(fullName string) *Interface {
	return p.interfaceIndex[fullName]
}

// Finding is one reported deviation from the change-notification convention.
// Findings are produced, never mutated.
type Finding struct {
	Kind    Kind   `json:"kind"`
	Subject string `json:"subject_name"` // property, method or class name driving the message
	Anchor  Anchor `json:"anchor"`
}
