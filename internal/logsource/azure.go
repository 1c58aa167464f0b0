// Package logsource executes KQL queries against Azure Log Analytics and
// turns the responses into result tables the benchmark can feed to models.
package logsource

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/monitor/azquery"

	"github.com/kqlbench/kqlbench/internal/models"
)

// Client queries a Log Analytics workspace with default Azure credentials.
type Client struct {
	logs        *azquery.LogsClient
	workspaceID string
}

// NewClient builds a client for the given workspace using the default
// credential chain (env vars, managed identity, az CLI).
func NewClient(workspaceID string) (*Client, error) {
	if workspaceID == "" {
		return nil, fmt.Errorf("workspace id is required")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("building azure credential: %w", err)
	}
	logs, err := azquery.NewLogsClient(cred, nil)
	if err != nil {
		return nil, fmt.Errorf("building logs client: %w", err)
	}
	return &Client{logs: logs, workspaceID: workspaceID}, nil
}

// Query runs a KQL query over the given lookback window and returns the
// primary result table. Cells come back as-is from the service; complex
// values are stringified so they can be rendered and serialized.
func (c *Client) Query(ctx context.Context, kql string, timespanHours int) (models.ResultTable, error) {
	if timespanHours <= 0 {
		timespanHours = 1
	}
	end := time.Now().UTC()
	start := end.Add(-time.Duration(timespanHours) * time.Hour)

	resp, err := c.logs.QueryWorkspace(ctx, c.workspaceID, azquery.Body{
		Query:    to.Ptr(kql),
		Timespan: to.Ptr(azquery.NewTimeInterval(start, end)),
	}, nil)
	if err != nil {
		return models.ResultTable{}, fmt.Errorf("querying workspace %s: %w", c.workspaceID, err)
	}
	if resp.Error != nil {
		return models.ResultTable{}, fmt.Errorf("query failed: %s", resp.Error.Error())
	}
	if len(resp.Tables) == 0 {
		return models.ResultTable{}, nil
	}

	return convertTable(resp.Tables[0]), nil
}

// ValidateConnection runs a trivial probe query against the workspace.
func (c *Client) ValidateConnection(ctx context.Context) error {
	_, err := c.Query(ctx, "print 'Connection successful'", 1)
	if err != nil {
		return fmt.Errorf("connection to workspace %s failed: %w", c.workspaceID, err)
	}
	return nil
}

func convertTable(t *azquery.Table) models.ResultTable {
	out := models.ResultTable{}
	for _, col := range t.Columns {
		name := ""
		if col.Name != nil {
			name = *col.Name
		}
		out.Columns = append(out.Columns, name)
	}
	for _, row := range t.Rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			switch cell.(type) {
			case nil, string, bool, float64, int64:
				cells[i] = cell
			default:
				cells[i] = fmt.Sprintf("%v", cell)
			}
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}
