package logsource

import (
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/monitor/azquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresWorkspaceID(t *testing.T) {
	_, err := NewClient("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspace id is required")
}

func TestConvertTable(t *testing.T) {
	in := &azquery.Table{
		Columns: []*azquery.Column{
			{Name: to.Ptr("name")},
			{Name: to.Ptr("count_")},
			{Name: nil},
		},
		Rows: []azquery.Row{
			{"GET /", float64(42), nil},
			{true, int64(7), map[string]any{"nested": "value"}},
		},
	}

	out := convertTable(in)

	assert.Equal(t, []string{"name", "count_", ""}, out.Columns)
	require.Len(t, out.Rows, 2)

	assert.Equal(t, "GET /", out.Rows[0][0])
	assert.Equal(t, float64(42), out.Rows[0][1])
	assert.Nil(t, out.Rows[0][2])

	assert.Equal(t, true, out.Rows[1][0])
	assert.Equal(t, int64(7), out.Rows[1][1])
	// Structured cells are stringified rather than dropped.
	assert.Equal(t, "map[nested:value]", out.Rows[1][2])
}

func TestConvertTable_Empty(t *testing.T) {
	out := convertTable(&azquery.Table{})
	assert.Empty(t, out.Columns)
	assert.Empty(t, out.Rows)
}
