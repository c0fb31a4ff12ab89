// Copyright 2025 David Stotijn
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dstotijn/go-mcp"
)

// Records with more columns than this are rendered as per-record key/value
// lists instead of a markdown table.
const maxTableColumns = 10

// createGetDatasetRecordsTool creates a tool to retrieve records from a
// dataset with optional ODSQL filtering and sorting.
func createGetDatasetRecordsTool(client *Client) mcp.Tool {
	type GetDatasetRecordsParams struct {
		// Unique identifier for the dataset
		DatasetID string `json:"dataset_id"`
		// Maximum number of records to return (default: 10)
		Limit int `json:"limit,omitempty"`
		// Number of records to skip (for pagination)
		Offset int `json:"offset,omitempty"`
		// ODSQL select clause to choose specific fields
		Select string `json:"select,omitempty"`
		// ODSQL where clause to filter records
		Where string `json:"where,omitempty"`
		// ODSQL order by clause to sort records
		OrderBy string `json:"order_by,omitempty"`
	}

	return mcp.CreateTool(mcp.ToolDef[GetDatasetRecordsParams]{
		Name:        "get_dataset_records",
		Description: "Get records from a dataset with optional filtering and sorting",
		HandleFunc: func(ctx context.Context, params GetDatasetRecordsParams) *mcp.CallToolResult {
			return getDatasetRecords(ctx, client, params.DatasetID, RecordQuery{
				Select:  params.Select,
				Where:   params.Where,
				OrderBy: params.OrderBy,
				Limit:   defaultLimit(params.Limit, 10),
				Offset:  params.Offset,
			})
		},
	})
}

func getDatasetRecords(ctx context.Context, client *Client, datasetID string, query RecordQuery) *mcp.CallToolResult {
	if datasetID == "" {
		return newToolCallErrorResult("Dataset identifier is required")
	}

	results, err := client.GetRecords(ctx, datasetID, query)
	if err != nil {
		return newToolCallErrorResult("Error retrieving dataset records: %v", err)
	}

	if len(results.Results) == 0 {
		return newToolCallResult(fmt.Sprintf("No records found for dataset '%s' with the specified criteria.", datasetID))
	}

	records := results.Results

	var b strings.Builder
	fmt.Fprintf(&b, "Records from dataset: %s (ID: %s)\n", datasetTitle(ctx, client, datasetID), datasetID)
	fmt.Fprintf(&b, "Showing %d of %d total records (offset: %d)\n", len(records), results.TotalCount, query.Offset)

	if columns := recordColumns(records[0]); len(columns) > maxTableColumns {
		fmt.Fprintf(&b, "\nFound %d fields in the records. Here's a summary of the first %d records:\n",
			len(columns), len(records))
		recordsList(&b, records)
	} else {
		b.WriteString("\n" + recordsTable(records) + "\n")
	}

	if query.Select != "" || query.Where != "" || query.OrderBy != "" {
		b.WriteString("\nNote: This query used ODSQL syntax:\n")
		if query.Select != "" {
			fmt.Fprintf(&b, "- SELECT: %s\n", query.Select)
		}
		if query.Where != "" {
			fmt.Fprintf(&b, "- WHERE: %s\n", query.Where)
		}
		if query.OrderBy != "" {
			fmt.Fprintf(&b, "- ORDER BY: %s\n", query.OrderBy)
		}
	}

	return newToolCallResult(strings.TrimRight(b.String(), "\n"))
}

// createGetDatasetAggregatesTool creates a tool to aggregate dataset records
// using ODSQL aggregation functions.
func createGetDatasetAggregatesTool(client *Client) mcp.Tool {
	type GetDatasetAggregatesParams struct {
		// Unique identifier for the dataset
		DatasetID string `json:"dataset_id"`
		// ODSQL select clause with aggregation functions (count, sum, avg, etc.)
		Select string `json:"select"`
		// ODSQL group by clause to aggregate by field values
		GroupBy string `json:"group_by,omitempty"`
		// ODSQL where clause to filter records
		Where string `json:"where,omitempty"`
		// Maximum number of results (default: 100)
		Limit int `json:"limit,omitempty"`
	}

	return mcp.CreateTool(mcp.ToolDef[GetDatasetAggregatesParams]{
		Name:        "get_dataset_aggregates",
		Description: "Get aggregated data from a dataset using ODSQL aggregation functions",
		HandleFunc: func(ctx context.Context, params GetDatasetAggregatesParams) *mcp.CallToolResult {
			return getDatasetAggregates(ctx, client, params.DatasetID, RecordQuery{
				Select:  params.Select,
				GroupBy: params.GroupBy,
				Where:   params.Where,
				Limit:   defaultLimit(params.Limit, 100),
			})
		},
	})
}

func getDatasetAggregates(ctx context.Context, client *Client, datasetID string, query RecordQuery) *mcp.CallToolResult {
	if datasetID == "" {
		return newToolCallErrorResult("Dataset identifier is required")
	}
	if query.Select == "" {
		return newToolCallErrorResult("Select clause is required")
	}

	results, err := client.GetRecords(ctx, datasetID, query)
	if err != nil {
		return newToolCallErrorResult("Error performing aggregation: %v", err)
	}

	if len(results.Results) == 0 {
		return newToolCallResult(fmt.Sprintf("No aggregation results found for dataset '%s' with the specified criteria.", datasetID))
	}

	queryDesc := "SELECT " + query.Select
	if query.GroupBy != "" {
		queryDesc += " GROUP BY " + query.GroupBy
	}
	if query.Where != "" {
		queryDesc += " WHERE " + query.Where
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Aggregation results for dataset: %s (ID: %s)\n", datasetTitle(ctx, client, datasetID), datasetID)
	fmt.Fprintf(&b, "Query: %s\n", queryDesc)
	fmt.Fprintf(&b, "Results: %d rows\n", len(results.Results))
	b.WriteString("\n" + recordsTable(results.Results))

	return newToolCallResult(b.String())
}

// createFacetAnalysisTool creates a tool to analyze facet value
// distributions for a dataset.
func createFacetAnalysisTool(client *Client) mcp.Tool {
	type FacetAnalysisParams struct {
		// Unique identifier for the dataset
		DatasetID string `json:"dataset_id"`
		// Comma-separated list of field names to use as facets
		Facets string `json:"facets"`
		// ODSQL where clause to filter records
		Where string `json:"where,omitempty"`
	}

	return mcp.CreateTool(mcp.ToolDef[FacetAnalysisParams]{
		Name:        "facet_analysis",
		Description: "Analyze facet values distribution for a dataset",
		HandleFunc: func(ctx context.Context, params FacetAnalysisParams) *mcp.CallToolResult {
			facets := []string{}
			for _, f := range strings.Split(params.Facets, ",") {
				if f = strings.TrimSpace(f); f != "" {
					facets = append(facets, f)
				}
			}
			return facetAnalysis(ctx, client, params.DatasetID, facets, params.Where)
		},
	})
}

func facetAnalysis(ctx context.Context, client *Client, datasetID string, facets []string, where string) *mcp.CallToolResult {
	if datasetID == "" {
		return newToolCallErrorResult("Dataset identifier is required")
	}
	if len(facets) == 0 {
		return newToolCallErrorResult("At least one facet field is required")
	}

	results, err := client.GetFacets(ctx, datasetID, facets, where)
	if err != nil {
		return newToolCallErrorResult("Error retrieving facets: %v", err)
	}

	if len(results.Facets) == 0 {
		return newToolCallResult(fmt.Sprintf("No facet data found for dataset '%s' with the specified criteria.", datasetID))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Facet analysis for dataset: %s (ID: %s)\n", datasetTitle(ctx, client, datasetID), datasetID)
	fmt.Fprintf(&b, "Analyzing facets: %s", strings.Join(facets, ", "))
	if where != "" {
		fmt.Fprintf(&b, " WHERE %s", where)
	}
	b.WriteString("\n")

	for _, facet := range results.Facets {
		fmt.Fprintf(&b, "\nFacet: %s (%d values)\n", facet.Name, len(facet.Facets))

		if len(facet.Facets) == 0 {
			b.WriteString("  No values found for this facet.\n")
			continue
		}

		values := make([]FacetValue, len(facet.Facets))
		copy(values, facet.Facets)
		sort.SliceStable(values, func(i, j int) bool {
			return values[i].Count > values[j].Count
		})

		shown := values
		if len(shown) > 20 {
			shown = shown[:20]
		}

		rows := make([][]string, 0, len(shown))
		for _, value := range shown {
			rows = append(rows, []string{value.Name, fmt.Sprintf("%d", value.Count), value.State})
		}

		b.WriteString("\n" + markdownTable([]string{"Value", "Count", "State"}, rows) + "\n")

		if len(values) > 20 {
			fmt.Fprintf(&b, "\n(Showing top 20 of %d values)\n", len(values))
		}
	}

	return newToolCallResult(strings.TrimRight(b.String(), "\n"))
}

// createSearchDatasetRecordsTool creates a tool to search for records within
// a dataset.
func createSearchDatasetRecordsTool(client *Client) mcp.Tool {
	type SearchDatasetRecordsParams struct {
		// Unique identifier for the dataset
		DatasetID string `json:"dataset_id"`
		// Search query to find records
		Query string `json:"query"`
		// Maximum number of records to return (default: 10)
		Limit int `json:"limit,omitempty"`
	}

	return mcp.CreateTool(mcp.ToolDef[SearchDatasetRecordsParams]{
		Name:        "search_dataset_records",
		Description: "Search for specific records within a dataset",
		HandleFunc: func(ctx context.Context, params SearchDatasetRecordsParams) *mcp.CallToolResult {
			return searchDatasetRecords(ctx, client, params.DatasetID, params.Query, params.Limit)
		},
	})
}

func searchDatasetRecords(ctx context.Context, client *Client, datasetID, query string, limit int) *mcp.CallToolResult {
	if datasetID == "" {
		return newToolCallErrorResult("Dataset identifier is required")
	}
	if query == "" {
		return newToolCallErrorResult("Search query is required")
	}

	results, err := client.SearchRecords(ctx, datasetID, query, defaultLimit(limit, 10))
	if err != nil {
		return newToolCallErrorResult("Error searching dataset records: %v", err)
	}

	if len(results.Results) == 0 {
		return newToolCallResult(fmt.Sprintf("No records found matching '%s' in dataset '%s'.", query, datasetID))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for '%s' in dataset: %s (ID: %s)\n", query, datasetTitle(ctx, client, datasetID), datasetID)
	fmt.Fprintf(&b, "Found %d matching records. Showing first %d:\n", results.TotalCount, len(results.Results))
	recordsList(&b, results.Results)

	return newToolCallResult(strings.TrimRight(b.String(), "\n"))
}

// createGetExportURLTool creates a tool that builds a download URL for
// dataset records in a given export format.
func createGetExportURLTool(client *Client) mcp.Tool {
	type GetExportURLParams struct {
		// Unique identifier for the dataset
		DatasetID string `json:"dataset_id"`
		// Export format (csv, json, geojson, etc.; default: csv)
		ExportFormat string `json:"export_format,omitempty"`
		// ODSQL select clause
		Select string `json:"select,omitempty"`
		// ODSQL where clause
		Where string `json:"where,omitempty"`
		// ODSQL group by clause
		GroupBy string `json:"group_by,omitempty"`
		// ODSQL order by clause
		OrderBy string `json:"order_by,omitempty"`
		// Maximum number of results
		Limit int `json:"limit,omitempty"`
	}

	return mcp.CreateTool(mcp.ToolDef[GetExportURLParams]{
		Name:        "get_export_url",
		Description: "Get a URL for exporting dataset records in various formats",
		HandleFunc: func(ctx context.Context, params GetExportURLParams) *mcp.CallToolResult {
			return getExportURL(ctx, client, params.DatasetID, params.ExportFormat, RecordQuery{
				Select:  params.Select,
				Where:   params.Where,
				GroupBy: params.GroupBy,
				OrderBy: params.OrderBy,
				Limit:   params.Limit,
			})
		},
	})
}

func getExportURL(ctx context.Context, client *Client, datasetID, format string, query RecordQuery) *mcp.CallToolResult {
	if datasetID == "" {
		return newToolCallErrorResult("Dataset identifier is required")
	}
	if format == "" {
		format = "csv"
	}

	exportURL := client.ExportURL(datasetID, format, query)

	var b strings.Builder
	fmt.Fprintf(&b, "Export URL for dataset: %s (ID: %s)\n", datasetTitle(ctx, client, datasetID), datasetID)
	fmt.Fprintf(&b, "Format: %s\n", strings.ToUpper(format))

	queryParams := []string{}
	if query.Select != "" {
		queryParams = append(queryParams, "SELECT: "+query.Select)
	}
	if query.Where != "" {
		queryParams = append(queryParams, "WHERE: "+query.Where)
	}
	if query.GroupBy != "" {
		queryParams = append(queryParams, "GROUP BY: "+query.GroupBy)
	}
	if query.OrderBy != "" {
		queryParams = append(queryParams, "ORDER BY: "+query.OrderBy)
	}
	if query.Limit > 0 {
		queryParams = append(queryParams, fmt.Sprintf("LIMIT: %d", query.Limit))
	}
	if len(queryParams) > 0 {
		fmt.Fprintf(&b, "Query parameters: %s\n", strings.Join(queryParams, ", "))
	}

	fmt.Fprintf(&b, "\nExport URL: %s\n", exportURL)
	b.WriteString("\nNote: This URL can be used to download the dataset in the specified format.")

	return newToolCallResult(b.String())
}
