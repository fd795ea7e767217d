package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRowsJSON_Objects(t *testing.T) {
	rows, err := ParseRowsJSON([]byte(`[
		{"label": "TOTAL ASSETS", "prior": 1000, "current": "1,200"},
		{"line_item": "Cash", "prior_value": null, "current_value": 50}
	]`))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1200.0, rows[0].CurrentValue)
	assert.Equal(t, "Cash", rows[1].Label)
	assert.Equal(t, 0.0, rows[1].PriorValue)
}

func TestParseRowsJSON_Arrays(t *testing.T) {
	rows, err := ParseRowsJSON([]byte(`[["TOTAL ASSETS", 1000, 1200], ["CURRENT ASSETS", 400, 600, "extra"]]`))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 400.0, rows[1].PriorValue)
}

func TestParseRowsJSON_Lenient(t *testing.T) {
	rows, err := ParseRowsJSON([]byte(`[{'label': 'TOTAL ASSETS', 'prior': 1000, 'current': 1200},]`))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1000.0, rows[0].PriorValue)
}

func TestParseRowsJSON_Errors(t *testing.T) {
	_, err := ParseRowsJSON([]byte(`[["TOTAL ASSETS", 1000]]`))
	assert.ErrorIs(t, err, ErrStructuralInput)

	_, err = ParseRowsJSON([]byte(`[]`))
	assert.ErrorIs(t, err, ErrStructuralInput)

	_, err = ParseRowsJSON([]byte(`[42]`))
	assert.ErrorIs(t, err, ErrStructuralInput)
}
