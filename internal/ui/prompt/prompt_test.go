package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "yes word", input: "YES\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty defaults to no", input: "\n", want: false},
		{name: "garbage defaults to no", input: "sure\n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewStandardPrompter(strings.NewReader(tt.input), &out)

			ok, err := p.Confirm("Proceed?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Contains(t, out.String(), "Proceed? [y/N]:")
		})
	}
}

func TestConfirmEOFIsRefusal(t *testing.T) {
	var out bytes.Buffer
	p := NewStandardPrompter(strings.NewReader(""), &out)

	ok, err := p.Confirm("Proceed?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirmOverwrite(t *testing.T) {
	var out bytes.Buffer
	p := NewStandardPrompter(strings.NewReader("y\n"), &out)

	ok, err := ConfirmOverwrite(p, "/tmp/report.csv")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "/tmp/report.csv")
}
