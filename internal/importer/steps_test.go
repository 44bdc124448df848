package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Step
	}{
		{
			name: "SingleStep",
			raw:  "1. Open app|App launches",
			want: []Step{{Action: "Open app", Expected: "App launches"}},
		},
		{
			name: "MultipleSteps",
			raw:  "1. Open app|App launches\n2. Click login|Login form shows",
			want: []Step{
				{Action: "Open app", Expected: "App launches"},
				{Action: "Click login", Expected: "Login form shows"},
			},
		},
		{
			name: "NoExpected",
			raw:  "Do the thing",
			want: []Step{{Action: "Do the thing", Expected: ""}},
		},
		{
			name: "ParenNumbering",
			raw:  "1) First|ok\n2) Second|also ok",
			want: []Step{
				{Action: "First", Expected: "ok"},
				{Action: "Second", Expected: "also ok"},
			},
		},
		{
			name: "BlankLinesSkipped",
			raw:  "1. Open app|App launches\n\n\n",
			want: []Step{{Action: "Open app", Expected: "App launches"}},
		},
		{
			name: "Empty",
			raw:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSteps(tt.raw))
		})
	}
}

func TestEncodeSteps_RoundTrip(t *testing.T) {
	raw := "1. Open app|App launches\n2. Enter <user> & 'password'|Shows \"welcome\" > banner"

	encoded := EncodeSteps(raw)
	require.NotEmpty(t, encoded)

	// Reserved characters must be entity-escaped in the wire form.
	assert.NotContains(t, encoded, "<user>")
	assert.Contains(t, encoded, "&lt;user&gt;")
	assert.Contains(t, encoded, "&amp;")
	assert.Contains(t, encoded, "&apos;password&apos;")
	assert.Contains(t, encoded, "&quot;welcome&quot;")

	decoded := DecodeSteps(encoded)
	require.Len(t, decoded, 2)
	assert.Equal(t, Step{Action: "Open app", Expected: "App launches"}, decoded[0])
	assert.Equal(t, Step{Action: "Enter <user> & 'password'", Expected: `Shows "welcome" > banner`}, decoded[1])
}

func TestEncodeSteps_WireShape(t *testing.T) {
	encoded := EncodeSteps("1. One|first\n2. Two|second\n3. Three|third")

	// The enclosing element carries the step count; child ids start at 2.
	assert.True(t, strings.HasPrefix(encoded, `<steps id="0" last="4">`))
	assert.Contains(t, encoded, `<step id="2" type="ActionStep">`)
	assert.Contains(t, encoded, `<step id="3" type="ActionStep">`)
	assert.Contains(t, encoded, `<step id="4" type="ActionStep">`)
	assert.True(t, strings.HasSuffix(encoded, "</steps>"))
}

func TestEncodeSteps_Empty(t *testing.T) {
	assert.Empty(t, EncodeSteps(""))
	assert.Empty(t, EncodeSteps("   \n  "))
}
