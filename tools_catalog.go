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
	"strings"

	"github.com/dstotijn/go-mcp"
)

// createSearchDatasetsTool creates a tool to search the dataset catalog by
// keyword.
func createSearchDatasetsTool(client *Client) mcp.Tool {
	type SearchDatasetsParams struct {
		// Search query to find datasets
		Query string `json:"query"`
		// Maximum number of datasets to return (default: 10)
		Limit int `json:"limit,omitempty"`
	}

	return mcp.CreateTool(mcp.ToolDef[SearchDatasetsParams]{
		Name:        "search_datasets",
		Description: "Search for datasets by keyword",
		HandleFunc: func(ctx context.Context, params SearchDatasetsParams) *mcp.CallToolResult {
			return searchDatasets(ctx, client, params.Query, params.Limit)
		},
	})
}

func searchDatasets(ctx context.Context, client *Client, query string, limit int) *mcp.CallToolResult {
	if query == "" {
		return newToolCallErrorResult("Search query is required")
	}

	results, err := client.SearchDatasets(ctx, query, defaultLimit(limit, 10))
	if err != nil {
		return newToolCallErrorResult("Failed to search datasets: %v", err)
	}

	if len(results.Results) == 0 {
		return newToolCallResult("No datasets found matching your query.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d datasets matching '%s'. Here are the first %d results:\n",
		results.TotalCount, query, len(results.Results))

	for i, dataset := range results.Results {
		metas := dataset.Metas.Default

		title := metas.Title
		if title == "" {
			title = "Untitled Dataset"
		}
		publisher := metas.Publisher
		if publisher == "" {
			publisher = "Unknown Publisher"
		}
		description := stripHTML(metas.Description)
		if description == "" {
			description = "No description available."
		}

		fmt.Fprintf(&b, "\n%d. %s (ID: %s)\n", i+1, title, dataset.DatasetID)
		fmt.Fprintf(&b, "   Publisher: %s\n", publisher)
		fmt.Fprintf(&b, "   Description: %s\n", truncate(description, 300))
	}

	return newToolCallResult(b.String())
}

// createGetDatasetInfoTool creates a tool to retrieve detailed information
// about a dataset.
func createGetDatasetInfoTool(client *Client) mcp.Tool {
	type GetDatasetInfoParams struct {
		// Unique identifier for the dataset
		DatasetID string `json:"dataset_id"`
	}

	return mcp.CreateTool(mcp.ToolDef[GetDatasetInfoParams]{
		Name:        "get_dataset_info",
		Description: "Get detailed information about a specific dataset",
		HandleFunc: func(ctx context.Context, params GetDatasetInfoParams) *mcp.CallToolResult {
			return getDatasetInfo(ctx, client, params.DatasetID)
		},
	})
}

func getDatasetInfo(ctx context.Context, client *Client, datasetID string) *mcp.CallToolResult {
	if datasetID == "" {
		return newToolCallErrorResult("Dataset identifier is required")
	}

	dataset, err := client.GetDataset(ctx, datasetID)
	if err != nil {
		return newToolCallErrorResult("Error retrieving dataset: %v", err)
	}

	metas := dataset.Metas.Default

	title := metas.Title
	if title == "" {
		title = "Untitled Dataset"
	}
	publisher := metas.Publisher
	if publisher == "" {
		publisher = "Unknown Publisher"
	}
	description := stripHTML(metas.Description)
	if description == "" {
		description = "No description available."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dataset: %s (ID: %s)\n", title, datasetID)
	fmt.Fprintf(&b, "Publisher: %s\n", publisher)
	fmt.Fprintf(&b, "Record Count: %d\n", metas.RecordsCount)
	fmt.Fprintf(&b, "\nDescription:\n%s\n", description)
	fmt.Fprintf(&b, "\nFields (%d):\n", len(dataset.Fields))

	for _, field := range dataset.Fields {
		label := field.Label
		if label == "" {
			label = field.Name
		}
		line := fmt.Sprintf("  - %s (%s): %s", label, field.Name, field.Type)
		if field.Description != "" {
			line += " - " + field.Description
		}
		b.WriteString(line + "\n")
	}

	return newToolCallResult(strings.TrimRight(b.String(), "\n"))
}

// createListDatasetsByPublisherTool creates a tool to list datasets from a
// specific publisher.
func createListDatasetsByPublisherTool(client *Client) mcp.Tool {
	type ListDatasetsByPublisherParams struct {
		// Name of the publisher
		Publisher string `json:"publisher"`
		// Maximum number of datasets to return (default: 10)
		Limit int `json:"limit,omitempty"`
	}

	return mcp.CreateTool(mcp.ToolDef[ListDatasetsByPublisherParams]{
		Name:        "list_datasets_by_publisher",
		Description: "List datasets from a specific publisher",
		HandleFunc: func(ctx context.Context, params ListDatasetsByPublisherParams) *mcp.CallToolResult {
			return listDatasetsByPublisher(ctx, client, params.Publisher, params.Limit)
		},
	})
}

func listDatasetsByPublisher(ctx context.Context, client *Client, publisher string, limit int) *mcp.CallToolResult {
	if publisher == "" {
		return newToolCallErrorResult("Publisher is required")
	}

	results, err := client.ListDatasets(ctx, DatasetQuery{
		Publisher: publisher,
		Limit:     defaultLimit(limit, 10),
	})
	if err != nil {
		return newToolCallErrorResult("Failed to list datasets: %v", err)
	}

	if len(results.Results) == 0 {
		return newToolCallResult(fmt.Sprintf("No datasets found from publisher: %s.", publisher))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d datasets from publisher '%s'. Here are the first %d results:\n",
		results.TotalCount, publisher, len(results.Results))

	for i, dataset := range results.Results {
		metas := dataset.Metas.Default

		title := metas.Title
		if title == "" {
			title = "Untitled Dataset"
		}

		themeInfo := ""
		if len(metas.Theme) > 0 && metas.Theme[0] != "" {
			themeInfo = " | Theme: " + metas.Theme[0]
		}

		fmt.Fprintf(&b, "\n%d. %s (ID: %s)\n", i+1, title, dataset.DatasetID)
		fmt.Fprintf(&b, "   Records: %d%s\n", metas.RecordsCount, themeInfo)
	}

	return newToolCallResult(b.String())
}

// createListDatasetFieldsTool creates a tool to list the fields of a dataset
// with their types and descriptions.
func createListDatasetFieldsTool(client *Client) mcp.Tool {
	type ListDatasetFieldsParams struct {
		// Unique identifier for the dataset
		DatasetID string `json:"dataset_id"`
	}

	return mcp.CreateTool(mcp.ToolDef[ListDatasetFieldsParams]{
		Name:        "list_dataset_fields",
		Description: "List all fields in a dataset with their types and descriptions",
		HandleFunc: func(ctx context.Context, params ListDatasetFieldsParams) *mcp.CallToolResult {
			return listDatasetFields(ctx, client, params.DatasetID)
		},
	})
}

func listDatasetFields(ctx context.Context, client *Client, datasetID string) *mcp.CallToolResult {
	if datasetID == "" {
		return newToolCallErrorResult("Dataset identifier is required")
	}

	dataset, err := client.GetDataset(ctx, datasetID)
	if err != nil {
		return newToolCallErrorResult("Error retrieving dataset: %v", err)
	}

	if len(dataset.Fields) == 0 {
		return newToolCallResult(fmt.Sprintf("No fields found for dataset '%s'.", datasetID))
	}

	title := dataset.Metas.Default.Title
	if title == "" {
		title = "Untitled Dataset"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Fields for dataset: %s (ID: %s)\n", title, datasetID)

	for i, field := range dataset.Fields {
		label := field.Label
		if label == "" {
			label = field.Name
		}
		description := field.Description
		if description == "" {
			description = "No description available"
		}

		fmt.Fprintf(&b, "\n%d. %s (%s)\n", i+1, label, field.Name)
		fmt.Fprintf(&b, "   Type: %s\n", field.Type)
		fmt.Fprintf(&b, "   Description: %s\n", description)

		if len(field.Annotations) > 0 {
			annotations := make([]string, 0, len(field.Annotations))
			for _, key := range recordColumns(field.Annotations) {
				annotations = append(annotations, fmt.Sprintf("%s: %s", key, cellValue(field.Annotations[key])))
			}
			fmt.Fprintf(&b, "   Annotations: %s\n", strings.Join(annotations, ", "))
		}
	}

	return newToolCallResult(strings.TrimRight(b.String(), "\n"))
}
