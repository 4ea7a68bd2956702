package diag

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/notifylint/internal/ir"
)

func TestDefaultCatalogCoversEveryKind(t *testing.T) {
	c := DefaultCatalog()
	for _, k := range ir.Kinds() {
		d, ok := c.Lookup(k)
		require.True(t, ok, "kind %s", k)
		assert.Equal(t, k, d.Kind)
		assert.Equal(t, SeverityWarning, d.Severity)
		assert.Equal(t, Category, d.Category)
		assert.Equal(t, []string{TagUnnecessary}, d.Tags)
	}
}

func TestDefaultCatalogIDs(t *testing.T) {
	want := map[ir.Kind]string{
		ir.KindDoesNotInherit:                   "PA0001",
		ir.KindNoMatchingProperty:               "PA0002",
		ir.KindNoSetter:                         "PA0003",
		ir.KindSuppressedNotification:           "PA0004",
		ir.KindUnsupportedMethodSignature:       "PA0005",
		ir.KindUnnecessaryDoNotNotifyAttribute:  "PA1000",
		ir.KindUnnecessaryAddInterfaceAttribute: "PA1001",
	}
	c := DefaultCatalog()
	for kind, id := range want {
		d, _ := c.Lookup(kind)
		assert.Equal(t, id, d.ID, "kind %s", kind)
	}

	var order []string
	for _, d := range c.Descriptors() {
		order = append(order, d.ID)
	}
	assert.Equal(t, []string{"PA0001", "PA0002", "PA0003", "PA0004", "PA0005", "PA1000", "PA1001"}, order)
}

func TestDefaultCatalogIsShared(t *testing.T) {
	assert.Same(t, DefaultCatalog(), DefaultCatalog())
}

func TestLookupUnknownKind(t *testing.T) {
	_, ok := DefaultCatalog().Lookup(ir.Kind("Bogus"))
	assert.False(t, ok)
}

func TestRender(t *testing.T) {
	tests := []struct {
		kind    ir.Kind
		subject string
		message string
	}{
		{ir.KindDoesNotInherit, "Sample", "Class Sample does not inherit from INotifyPropertyChanged. This method will not be called by PropertyChanged.Fody."},
		{ir.KindNoMatchingProperty, "IsUseful", "Property IsUseful not found for this changed handler. This method will not be called by PropertyChanged.Fody."},
		{ir.KindNoSetter, "PropertyWithoutSetter", "Property PropertyWithoutSetter has no setter. This method will not be called by PropertyChanged.Fody."},
		{ir.KindSuppressedNotification, "IsUseful", "Property 'IsUseful' is suppressing change notifications with an attribute. This method will not be called by PropertyChanged.Fody."},
		{ir.KindUnsupportedMethodSignature, "OnIsUsefulChanged", "Method OnIsUsefulChanged has an unsupported signature. This method will not be called by PropertyChanged.Fody."},
		{ir.KindUnnecessaryDoNotNotifyAttribute, "IsUseful", "'DoNotNotifyAttribute' is unnecessary because property IsUseful has no setter."},
		{ir.KindUnnecessaryAddInterfaceAttribute, "Sample", "'AddINotifyPropertyChangedInterfaceAttribute' is unnecessary because class Sample has no properties or no properties with setters."},
	}

	c := DefaultCatalog()
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			anchor := ir.Anchor{File: "decl.cue", Line: 4, Column: 3, Symbol: "Sample"}
			d, err := c.Render(ir.Finding{Kind: tt.kind, Subject: tt.subject, Anchor: anchor})
			require.NoError(t, err)
			assert.Equal(t, tt.message, d.Message)
			assert.Equal(t, tt.kind, d.Kind)
			assert.Equal(t, tt.subject, d.Subject)
			assert.Equal(t, anchor, d.Anchor)
		})
	}
}

func TestRenderUnknownKind(t *testing.T) {
	_, err := DefaultCatalog().Render(ir.Finding{Kind: "Bogus"})
	assert.Error(t, err)
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{ID: "PA0003", Severity: SeverityWarning, Message: "Property X has no setter."}
	assert.Equal(t, "warning PA0003: Property X has no setter.", d.String())

	d.Anchor = ir.Anchor{File: "decl.cue", Line: 12, Column: 3}
	assert.Equal(t, "decl.cue:12:3: warning PA0003: Property X has no setter.", d.String())
}

func TestCustomCatalog(t *testing.T) {
	var descs []Descriptor
	for i, k := range ir.Kinds() {
		descs = append(descs, Descriptor{
			ID:            string(rune('A' + i)),
			Kind:          k,
			MessageFormat: "custom %s",
			Severity:      SeverityError,
		})
	}
	c, err := NewCatalog(descs)
	require.NoError(t, err)

	d, err := c.Render(ir.Finding{Kind: ir.KindNoSetter, Subject: "P"})
	require.NoError(t, err)
	assert.Equal(t, "custom P", d.Message)
	assert.Equal(t, SeverityError, d.Severity)
	assert.Equal(t, "C", d.ID)
}

func TestNewCatalogErrors(t *testing.T) {
	full := DefaultCatalog().Descriptors()

	tests := []struct {
		name   string
		mutate func([]Descriptor) []Descriptor
		want   string
	}{
		{"missing kind", func(d []Descriptor) []Descriptor { return d[:len(d)-1] }, "no descriptor for kind UnnecessaryAddInterfaceAttribute"},
		{"duplicate id", func(d []Descriptor) []Descriptor { d[1].ID = d[0].ID; return d }, "duplicate id"},
		{"duplicate kind", func(d []Descriptor) []Descriptor { d[1].Kind = d[0].Kind; return d }, "already described"},
		{"unknown kind", func(d []Descriptor) []Descriptor { d[0].Kind = "Bogus"; return d }, "unknown kind"},
		{"empty id", func(d []Descriptor) []Descriptor { d[0].ID = ""; return d }, "id is required"},
		{"bad format", func(d []Descriptor) []Descriptor { d[0].MessageFormat = "no verb"; return d }, "exactly one %s"},
		{"two subjects", func(d []Descriptor) []Descriptor { d[0].MessageFormat = "%s and %s"; return d }, "exactly one %s, found 2"},
		{"other verb", func(d []Descriptor) []Descriptor { d[0].MessageFormat = "%d items: %s"; return d }, "unsupported verb %d"},
		{"flagged verb", func(d []Descriptor) []Descriptor { d[0].MessageFormat = "%-10s"; return d }, "unsupported verb %-"},
		{"lone percent", func(d []Descriptor) []Descriptor { d[0].MessageFormat = "%s at 100%"; return d }, "lone %"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descs := make([]Descriptor, len(full))
			copy(descs, full)
			_, err := NewCatalog(tt.mutate(descs))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewCatalogEscapedPercent(t *testing.T) {
	descs := DefaultCatalog().Descriptors()
	descs[0].MessageFormat = "Class %s is 100%% unwired."

	c, err := NewCatalog(descs)
	require.NoError(t, err)
	d, err := c.Render(ir.Finding{Kind: descs[0].Kind, Subject: "Orphan"})
	require.NoError(t, err)
	assert.Equal(t, "Class Orphan is 100% unwired.", d.Message)
}

func TestSeverity(t *testing.T) {
	s, err := ParseSeverity("Warning")
	require.NoError(t, err)
	assert.Equal(t, SeverityWarning, s)
	assert.Equal(t, "warning", s.String())
	assert.True(t, SeverityError > SeverityWarning)

	_, err = ParseSeverity("fatal")
	assert.Error(t, err)

	assert.Equal(t, "Severity(9)", Severity(9).String())
}

func TestSeverityText(t *testing.T) {
	text, err := SeverityError.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "error", string(text))

	_, err = Severity(9).MarshalText()
	assert.Error(t, err)

	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("INFO")))
	assert.Equal(t, SeverityInfo, s)
	assert.Error(t, s.UnmarshalText([]byte("fatal")))
}

func TestDiagnosticJSON(t *testing.T) {
	d := Diagnostic{ID: "PA0002", Kind: ir.KindNoMatchingProperty, Severity: SeverityWarning, Subject: "X", Message: "m"}
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"PA0002","kind":"NoMatchingProperty","severity":"warning","subject":"X","message":"m","anchor":{}}`, string(data))

	var back Diagnostic
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)
}
