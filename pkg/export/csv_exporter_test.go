package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRenderPositionalRows(t *testing.T) {
	data := Dataset{
		Headers: []string{"Mentor ID", "Name", "Attendance %"},
		Rows: [][]string{
			{"42", "Asha", "70.00"},
			{"7", "Ben"},
		},
	}

	body, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Mentor ID,Name,Attendance %\n42,Asha,70.00\n7,Ben,\n", string(body))
}

func TestCSVRenderRejectsOversizedRow(t *testing.T) {
	data := Dataset{
		Headers: []string{"Name"},
		Rows:    [][]string{{"Asha", "extra"}},
	}

	_, err := NewCSVExporter().Render(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected at most 1")
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}
