package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/notifylint/internal/ir"
)

const inpc = "System.ComponentModel.INotifyPropertyChanged"

func compileSource(t *testing.T, src string) (*ir.Program, error) {
	t.Helper()
	v := cuecontext.New().CompileString(src, cue.Filename("decl.cue"))
	require.NoError(t, v.Err())
	return Compile(v)
}

func mustCompile(t *testing.T, src string) *ir.Program {
	t.Helper()
	prog, err := compileSource(t, src)
	require.NoError(t, err)
	require.NotNil(t, prog)
	return prog
}

func TestCompileBasicClass(t *testing.T) {
	prog := mustCompile(t, `
		interface: "System.ComponentModel.INotifyPropertyChanged": {}

		class: NoFindings: {
			namespace:  "Sample"
			implements: ["System.ComponentModel.INotifyPropertyChanged"]
			members: [
				{property: "IsUseful", setter: true},
				{method: "OnIsUsefulChanged"},
			]
		}
	`)

	require.Len(t, prog.Classes, 1)
	c := prog.Class("NoFindings")
	require.NotNil(t, c)
	assert.Equal(t, "Sample", c.Namespace)
	assert.Equal(t, "Sample.NoFindings", c.FullName())
	assert.Equal(t, 1, c.Fragments)
	assert.Nil(t, c.Base)

	require.Len(t, c.Members, 2)
	p, ok := c.Members[0].(*ir.PropertyModel)
	require.True(t, ok)
	assert.Equal(t, "IsUseful", p.Name)
	assert.True(t, p.HasSetter)

	m, ok := c.Members[1].(*ir.MethodModel)
	require.True(t, ok)
	assert.Equal(t, "OnIsUsefulChanged", m.Name)
	assert.False(t, m.IsStatic)
	assert.False(t, m.IsOverride)

	iface := prog.Interface(inpc)
	require.NotNil(t, iface)
	require.Len(t, c.Interfaces, 1)
	assert.Same(t, iface, c.Interfaces[0])
}

func TestCompileEmptyInput(t *testing.T) {
	prog := mustCompile(t, `{}`)
	assert.Empty(t, prog.Classes)
	assert.Empty(t, prog.Interfaces)
}

func TestCompilePartialClassMergesFragments(t *testing.T) {
	prog := mustCompile(t, `
		class: PartialClass: [
			{members: [{property: "SomeProp", setter: true}]},
			{
				implements: ["System.ComponentModel.INotifyPropertyChanged"]
				members: [{method: "OnSomePropChanged"}]
			},
		]
	`)

	c := prog.Class("PartialClass")
	require.NotNil(t, c)
	assert.Equal(t, 2, c.Fragments)
	require.Len(t, c.Members, 2)
	assert.Equal(t, "SomeProp", c.Members[0].MemberName())
	assert.Equal(t, "OnSomePropChanged", c.Members[1].MemberName())
	require.Len(t, c.Interfaces, 1)
	assert.Same(t, prog.Interface(inpc), c.Interfaces[0])
}

func TestCompilePartialClassConflictingBase(t *testing.T) {
	_, err := compileSource(t, `
		class: A: {}
		class: B: {}
		class: C: [{base: "A"}, {base: "B"}]
	`)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "class.C[1].base", ce.Field)
	assert.Contains(t, ce.Message, "conflicting base type")
}

func TestCompilePartialClassSameBaseTwice(t *testing.T) {
	prog := mustCompile(t, `
		class: A: {}
		class: C: [{base: "A"}, {base: "A"}]
	`)
	assert.Same(t, prog.Class("A"), prog.Class("C").Base)
}

func TestCompilePartialClassConflictingNamespace(t *testing.T) {
	_, err := compileSource(t, `
		class: C: [{namespace: "X"}, {namespace: "Y"}]
	`)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "class.C[1].namespace", ce.Field)
}

func TestCompileEmptyFragmentList(t *testing.T) {
	_, err := compileSource(t, `class: C: []`)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "class.C", ce.Field)
}

func TestCompileClassMustBeStructOrList(t *testing.T) {
	_, err := compileSource(t, `class: C: "nope"`)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "class.C", ce.Field)
}

func TestCompileInterfaceIdentity(t *testing.T) {
	prog := mustCompile(t, `
		interface: "System.ComponentModel.INotifyPropertyChanged": {}
		interface: "Fake.INotifyPropertyChanged": {}

		class: Real: implements: ["System.ComponentModel.INotifyPropertyChanged"]
		class: Fake: implements: ["Fake.INotifyPropertyChanged"]
	`)

	sys := prog.Interface(inpc)
	fake := prog.Interface("Fake.INotifyPropertyChanged")
	require.NotNil(t, sys)
	require.NotNil(t, fake)
	assert.NotSame(t, sys, fake)
	assert.Equal(t, sys.Name, fake.Name)

	assert.Same(t, sys, prog.Class("Real").Interfaces[0])
	assert.Same(t, fake, prog.Class("Fake").Interfaces[0])
}

func TestCompileUndeclaredInterfaceIsExternal(t *testing.T) {
	prog := mustCompile(t, `
		class: A: implements: ["System.ComponentModel.INotifyPropertyChanged"]
		class: B: implements: ["System.ComponentModel.INotifyPropertyChanged"]
	`)

	iface := prog.Interface(inpc)
	require.NotNil(t, iface)
	assert.Equal(t, "INotifyPropertyChanged", iface.Name)
	assert.Equal(t, "System.ComponentModel", iface.Namespace)
	assert.Same(t, iface, prog.Class("A").Interfaces[0])
	assert.Same(t, iface, prog.Class("B").Interfaces[0])
	assert.Len(t, prog.Interfaces, 1)
}

func TestCompileInterfaceClosure(t *testing.T) {
	prog := mustCompile(t, `
		interface: "App.IViewModel": extends: ["App.IBase"]
		interface: "App.IBase": extends: ["System.ComponentModel.INotifyPropertyChanged"]

		class: VM: implements: ["App.IViewModel", "App.IBase"]
	`)

	c := prog.Class("VM")
	var names []string
	for _, i := range c.Interfaces {
		names = append(names, i.FullName())
	}
	assert.Equal(t, []string{"App.IViewModel", "App.IBase", inpc}, names)
	assert.Same(t, prog.Interface(inpc), c.Interfaces[2])
}

func TestCompileRepeatedInterfaceLabelUnifies(t *testing.T) {
	prog := mustCompile(t, `
		interface: "App.I": {}
		interface: "App.I": {}
	`)
	assert.Len(t, prog.Interfaces, 1)
}

func TestCompileInterfaceCycle(t *testing.T) {
	_, err := compileSource(t, `
		interface: "App.I": extends: ["App.J"]
		interface: "App.J": extends: ["App.I"]
	`)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "interface", ce.Field)
	assert.Equal(t, "interface inheritance cycle: App.I → App.J → App.I", ce.Message)
}

func TestCompileBaseLinking(t *testing.T) {
	prog := mustCompile(t, `
		class: Derived: base: "Middle"
		class: Middle:  base: "Root"
		class: Root: implements: ["System.ComponentModel.INotifyPropertyChanged"]
	`)

	derived := prog.Class("Derived")
	middle := prog.Class("Middle")
	root := prog.Class("Root")
	assert.Same(t, middle, derived.Base)
	assert.Same(t, root, middle.Base)
	assert.Nil(t, root.Base)

	// Declaration order is preserved regardless of base order.
	assert.Equal(t, "Derived", prog.Classes[0].Name)
	assert.Equal(t, "Root", prog.Classes[2].Name)
}

func TestCompileUnknownBase(t *testing.T) {
	_, err := compileSource(t, `class: A: base: "Missing"`)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "class.A.base", ce.Field)
	assert.Equal(t, `unknown base class "Missing"`, ce.Message)
	assert.True(t, ce.Pos.IsValid())
}

func TestCompileClassCycle(t *testing.T) {
	_, err := compileSource(t, `
		class: A: base: "B"
		class: B: base: "A"
	`)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "class", ce.Field)
	assert.Equal(t, "class inheritance cycle: A → B → A", ce.Message)
}

func TestCompileClassSelfBase(t *testing.T) {
	_, err := compileSource(t, `class: A: base: "A"`)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "class inheritance cycle: A → A", ce.Message)
}

func TestCompileOverrideWithoutBase(t *testing.T) {
	_, err := compileSource(t, `
		class: A: members: [{method: "OnIsWorkingChanged", override: true}]
	`)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "class.A.members", ce.Field)
	assert.Contains(t, ce.Message, "OnIsWorkingChanged")
}

func TestCompileOverrideWithBase(t *testing.T) {
	prog := mustCompile(t, `
		class: Base: members: [{property: "IsWorking", setter: true}, {method: "OnIsWorkingChanged"}]
		class: Derived: {
			base: "Base"
			members: [{method: "OnIsWorkingChanged", override: true}]
		}
	`)
	m := prog.Class("Derived").Members[0].(*ir.MethodModel)
	assert.True(t, m.IsOverride)
}

func TestCompileOverrideNothingToOverride(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "base lacks the method",
			src: `
				class: B: {}
				class: A: {base: "B", members: [{method: "OnGhostChanged", override: true}]}
			`,
		},
		{
			name: "only a static method on the base",
			src: `
				class: B: members: [{method: "OnGhostChanged", static: true}]
				class: A: {base: "B", members: [{method: "OnGhostChanged", override: true}]}
			`,
		},
		{
			name: "method declared on the class itself only",
			src: `
				class: B: {}
				class: A: {base: "B", members: [{method: "OnGhostChanged"}, {method: "OnGhostChanged", override: true}]}
			`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileSource(t, tt.src)
			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "class.A.members", ce.Field)
			assert.Equal(t, "method OnGhostChanged overrides but no ancestor of A declares it", ce.Message)
			assert.True(t, ce.Pos.IsValid())
		})
	}
}

func TestCompileOverrideDeclaredOnDistantAncestor(t *testing.T) {
	prog := mustCompile(t, `
		class: Root: members: [{method: "OnTitleChanged"}]
		class: Middle: {base: "Root", members: [{method: "OnTitleChanged", override: true}]}
		class: Leaf: {base: "Middle", members: [{method: "OnTitleChanged", override: true}]}
	`)
	m := prog.Class("Leaf").Members[0].(*ir.MethodModel)
	assert.True(t, m.IsOverride)
}

func TestCompileOverrideSkippedOnCycle(t *testing.T) {
	// The cycle is the only error; override resolution needs a finite chain.
	_, errs := CompileAll(cuecontext.New().CompileString(`
		class: A: {base: "B", members: [{method: "OnXChanged", override: true}]}
		class: B: base: "A"
	`))
	require.Len(t, errs, 1)
	var ce *CompileError
	require.ErrorAs(t, errs[0], &ce)
	assert.Equal(t, "class", ce.Field)
}

func TestCompileMemberErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		field   string
		message string
	}{
		{
			name:    "both kinds",
			src:     `class: A: members: [{property: "X", method: "OnXChanged"}]`,
			field:   "class.A.members[0]",
			message: "member cannot be both property and method",
		},
		{
			name:    "neither kind",
			src:     `class: A: members: [{setter: true}]`,
			field:   "class.A.members[0]",
			message: "member must declare property or method",
		},
		{
			name:    "static override",
			src:     `class: B: {}, class: A: {base: "B", members: [{method: "OnXChanged", static: true, override: true}]}`,
			field:   "class.A.members[0]",
			message: "static method cannot override",
		},
		{
			name:    "setter not bool",
			src:     `class: A: members: [{property: "X", setter: "yes"}]`,
			field:   "class.A.members[0].setter",
			message: "must be a bool",
		},
		{
			name:    "members not list",
			src:     `class: A: members: {}`,
			field:   "class.A.members",
			message: "must be a list",
		},
		{
			name:    "attribute not string",
			src:     `class: A: attributes: [1]`,
			field:   "class.A.attributes[0]",
			message: "must be a string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileSource(t, tt.src)
			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
			assert.Equal(t, tt.message, ce.Message)
		})
	}
}

func TestCompileAttributesNormalisedAndOrdered(t *testing.T) {
	prog := mustCompile(t, `
		class: A: {
			attributes: ["PropertyChanged.AddINotifyPropertyChangedInterface", "AddINotifyPropertyChangedInterfaceAttribute"]
			members: [{
				property: "P"
				attributes: ["DoNotNotify", "PropertyChanged.DoNotNotifyAttribute"]
			}]
		}
	`)

	c := prog.Class("A")
	require.Len(t, c.Attributes, 2)
	assert.Equal(t, "AddINotifyPropertyChangedInterfaceAttribute", c.Attributes[0].Name)
	assert.Equal(t, "AddINotifyPropertyChangedInterfaceAttribute", c.Attributes[1].Name)

	p := c.Properties()[0]
	require.Len(t, p.Attributes, 2)
	assert.Equal(t, "DoNotNotifyAttribute", p.Attributes[0].Name)
	assert.Equal(t, "DoNotNotifyAttribute", p.Attributes[1].Name)
}

func TestCompileAnchors(t *testing.T) {
	prog := mustCompile(t, `
class: A: {
	attributes: ["AddINotifyPropertyChangedInterfaceAttribute"]
	members: [
		{property: "P", setter: true},
		{method: "OnPChanged"},
	]
}
`)

	c := prog.Class("A")
	assert.Equal(t, "decl.cue", c.Anchor.File)
	assert.Equal(t, "A", c.Anchor.Symbol)

	attr := c.Attributes[0].Anchor
	assert.Equal(t, "A", attr.Symbol)
	assert.Equal(t, 3, attr.Line)

	assert.Equal(t, "A.P", c.Members[0].MemberAnchor().Symbol)
	assert.Equal(t, 5, c.Members[0].MemberAnchor().Line)
	assert.Equal(t, "A.OnPChanged", c.Members[1].MemberAnchor().Symbol)
	assert.Equal(t, 6, c.Members[1].MemberAnchor().Line)
}

func TestCompileDuplicateMembersPreserved(t *testing.T) {
	prog := mustCompile(t, `
		class: A: members: [
			{property: "P"},
			{property: "P", setter: true},
		]
	`)
	assert.Len(t, prog.Class("A").Members, 2)
}

func TestCompileInvalidCUE(t *testing.T) {
	v := cuecontext.New().CompileString(`class: A: {`, cue.Filename("bad.cue"))
	_, err := Compile(v)
	require.Error(t, err)
}

func TestCompileAllCollectsErrors(t *testing.T) {
	v := cuecontext.New().CompileString(`
		class: A: base: "Missing"
		class: B: members: [{setter: true}]
		class: C: members: [{method: "OnXChanged", override: true}]
	`)
	require.NoError(t, v.Err())

	prog, errs := CompileAll(v)
	assert.Nil(t, prog)
	require.Len(t, errs, 3)

	var fields []string
	for _, err := range errs {
		var ce *CompileError
		require.ErrorAs(t, err, &ce)
		fields = append(fields, ce.Field)
	}
	assert.Equal(t, []string{"class.B.members[0]", "class.A.base", "class.C.members"}, fields)
}

func TestCompileAllNoErrors(t *testing.T) {
	v := cuecontext.New().CompileString(`class: A: {}`)
	prog, errs := CompileAll(v)
	assert.Empty(t, errs)
	require.NotNil(t, prog)
	assert.Len(t, prog.Classes, 1)
}

func TestAttributeClassName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DoNotNotify", "DoNotNotifyAttribute"},
		{"DoNotNotifyAttribute", "DoNotNotifyAttribute"},
		{"PropertyChanged.DoNotNotify", "DoNotNotifyAttribute"},
		{"PropertyChanged.AddINotifyPropertyChangedInterfaceAttribute", "AddINotifyPropertyChangedInterfaceAttribute"},
		{"Attribute", "Attribute"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, AttributeClassName(tt.in))
		})
	}
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "class.A.base", Message: "unknown base class"}
	assert.Equal(t, "class.A.base: unknown base class", err.Error())
}
