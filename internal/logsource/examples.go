package logsource

import "strings"

// ExampleQuery is a named KQL query that works against common Application
// Insights and Log Analytics tables. These seed new benchmark specs and the
// ad-hoc query command's --example flag.
type ExampleQuery struct {
	Name  string
	Query string
}

// ExampleScenario groups example queries by what they investigate.
type ExampleScenario struct {
	ID      string
	Name    string
	Queries []ExampleQuery
}

// ExampleScenarios returns the built-in query catalog in a stable order.
func ExampleScenarios() []ExampleScenario {
	return []ExampleScenario{
		{
			ID:   "requests",
			Name: "Application Requests",
			Queries: []ExampleQuery{
				{
					Name:  "Recent Requests",
					Query: "requests\n| where timestamp > ago(1h)\n| project timestamp, name, resultCode, duration, client_City\n| order by timestamp desc\n| take 100",
				},
				{
					Name:  "Failed Requests",
					Query: "requests\n| where timestamp > ago(24h)\n| where success == false\n| summarize count() by name, resultCode\n| order by count_ desc",
				},
				{
					Name:  "Request Duration Stats",
					Query: "requests\n| where timestamp > ago(1h)\n| summarize avg(duration), percentile(duration, 95), max(duration) by bin(timestamp, 5m)\n| order by timestamp desc",
				},
			},
		},
		{
			ID:   "exceptions",
			Name: "Exceptions",
			Queries: []ExampleQuery{
				{
					Name:  "Recent Exceptions",
					Query: "exceptions\n| where timestamp > ago(24h)\n| project timestamp, type, outerMessage, innermostMessage\n| order by timestamp desc\n| take 50",
				},
				{
					Name:  "Exception Summary",
					Query: "exceptions\n| where timestamp > ago(7d)\n| summarize count() by type\n| order by count_ desc",
				},
			},
		},
		{
			ID:   "traces",
			Name: "Traces",
			Queries: []ExampleQuery{
				{
					Name:  "Recent Traces",
					Query: "traces\n| where timestamp > ago(1h)\n| project timestamp, severityLevel, message\n| order by timestamp desc\n| take 100",
				},
				{
					Name:  "Error Traces",
					Query: "traces\n| where timestamp > ago(24h)\n| where severityLevel >= 3\n| project timestamp, severityLevel, message\n| order by timestamp desc",
				},
			},
		},
		{
			ID:   "performance",
			Name: "Performance",
			Queries: []ExampleQuery{
				{
					Name:  "Page Load Times",
					Query: "pageViews\n| where timestamp > ago(24h)\n| summarize avg(duration) by name\n| order by avg_duration desc",
				},
				{
					Name:  "Slow Dependencies",
					Query: "dependencies\n| where timestamp > ago(1h)\n| where duration > 1000\n| project timestamp, name, target, duration, success\n| order by duration desc\n| take 50",
				},
			},
		},
		{
			ID:   "workspace",
			Name: "Workspace Health",
			Queries: []ExampleQuery{
				{
					Name:  "Heartbeat Check",
					Query: "Heartbeat\n| where TimeGenerated > ago(1h)\n| summarize count() by Computer\n| order by count_ desc",
				},
				{
					Name:  "Azure Activity",
					Query: "AzureActivity\n| where TimeGenerated > ago(24h)\n| summarize count() by OperationName, ActivityStatus\n| order by count_ desc\n| take 20",
				},
			},
		},
	}
}

// FindExample looks up a query as "scenario/name" (both case-insensitive)
// and returns it, or false when no such example exists.
func FindExample(scenarioID, name string) (ExampleQuery, bool) {
	for _, sc := range ExampleScenarios() {
		if !strings.EqualFold(sc.ID, scenarioID) {
			continue
		}
		for _, q := range sc.Queries {
			if strings.EqualFold(q.Name, name) {
				return q, true
			}
		}
	}
	return ExampleQuery{}, false
}
