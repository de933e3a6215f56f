package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"Day", "Course"},
		Rows: []map[string]string{
			{"Day": "Monday", "Course": "Intro to CS"},
			{"Day": "Tuesday"},
		},
	})
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(out, utf8BOM))
	body := string(bytes.TrimPrefix(out, utf8BOM))
	assert.Contains(t, body, "Day,Course\n")
	assert.Contains(t, body, "Monday,Intro to CS\n")
	assert.Contains(t, body, "Tuesday,-\n")
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}
