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
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// treesHandler serves the trees dataset metadata and dispatches record and
// facet requests to the given handlers.
func treesHandler(records, facets http.HandlerFunc) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/explore/v2.1/catalog/datasets/trees", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(treesDatasetJSON))
	})
	if records != nil {
		mux.HandleFunc("/api/explore/v2.1/catalog/datasets/trees/records", records)
	}
	if facets != nil {
		mux.HandleFunc("/api/explore/v2.1/catalog/datasets/trees/facets", facets)
	}
	return mux
}

func TestGetDatasetRecords(t *testing.T) {
	t.Run("renders table for few columns", func(t *testing.T) {
		client := newTestClient(t, treesHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"total_count": 1200,
				"results": [
					{"name": "oak", "height": 12.5},
					{"name": "elm", "height": 7}
				]
			}`))
		}, nil))

		result := getDatasetRecords(context.Background(), client, "trees", RecordQuery{
			Where: "height > 5",
			Limit: 2,
		})
		text := resultText(t, result)

		assert.False(t, result.IsError)
		assert.Contains(t, text, "Records from dataset: Street Trees (ID: trees)")
		assert.Contains(t, text, "Showing 2 of 1200 total records (offset: 0)")
		assert.Contains(t, text, "| height | name |")
		assert.Contains(t, text, "| 12.5 | oak |")
		assert.Contains(t, text, "Note: This query used ODSQL syntax:")
		assert.Contains(t, text, "- WHERE: height > 5")
		assert.NotContains(t, text, "- SELECT:")
	})

	t.Run("renders list for many columns", func(t *testing.T) {
		record := map[string]any{}
		for i := 0; i < 12; i++ {
			record[fmt.Sprintf("field_%02d", i)] = i
		}
		body, _ := json.Marshal(map[string]any{
			"total_count": 1,
			"results":     []any{record},
		})

		client := newTestClient(t, treesHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Write(body)
		}, nil))

		result := getDatasetRecords(context.Background(), client, "trees", RecordQuery{Limit: 1})
		text := resultText(t, result)

		assert.Contains(t, text, "Found 12 fields in the records.")
		assert.Contains(t, text, "Record 1:")
		assert.Contains(t, text, "  field_00: 0")
		assert.NotContains(t, text, "| field_00 |")
	})

	t.Run("no records", func(t *testing.T) {
		client := newTestClient(t, treesHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"total_count": 0, "results": []}`))
		}, nil))

		result := getDatasetRecords(context.Background(), client, "trees", RecordQuery{Limit: 10})
		assert.Equal(t, "No records found for dataset 'trees' with the specified criteria.", resultText(t, result))
	})

	t.Run("missing dataset id", func(t *testing.T) {
		result := getDatasetRecords(context.Background(), nil, "", RecordQuery{})
		assert.True(t, result.IsError)
	})
}

func TestGetDatasetAggregates(t *testing.T) {
	t.Run("renders aggregation table", func(t *testing.T) {
		var gotQuery map[string]string

		client := newTestClient(t, treesHandler(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			gotQuery = map[string]string{
				"select":   q.Get("select"),
				"group_by": q.Get("group_by"),
			}
			w.Write([]byte(`{
				"total_count": 2,
				"results": [
					{"name": "oak", "count": 42},
					{"name": "elm", "count": 7}
				]
			}`))
		}, nil))

		result := getDatasetAggregates(context.Background(), client, "trees", RecordQuery{
			Select:  "name, count(*) as count",
			GroupBy: "name",
			Limit:   100,
		})
		text := resultText(t, result)

		assert.False(t, result.IsError)
		assert.Equal(t, "name, count(*) as count", gotQuery["select"])
		assert.Equal(t, "name", gotQuery["group_by"])
		assert.Contains(t, text, "Aggregation results for dataset: Street Trees (ID: trees)")
		assert.Contains(t, text, "Query: SELECT name, count(*) as count GROUP BY name")
		assert.Contains(t, text, "Results: 2 rows")
		assert.Contains(t, text, "| 42 | oak |")
	})

	t.Run("missing select", func(t *testing.T) {
		result := getDatasetAggregates(context.Background(), nil, "trees", RecordQuery{})
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "Select clause is required")
	})
}

func TestFacetAnalysis(t *testing.T) {
	t.Run("renders sorted facet tables", func(t *testing.T) {
		client := newTestClient(t, treesHandler(nil, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"facets": [
					{
						"name": "species",
						"facets": [
							{"name": "elm", "count": 7, "state": "displayed"},
							{"name": "oak", "count": 42, "state": "displayed"}
						]
					}
				]
			}`))
		}))

		result := facetAnalysis(context.Background(), client, "trees", []string{"species"}, "")
		text := resultText(t, result)

		assert.False(t, result.IsError)
		assert.Contains(t, text, "Facet analysis for dataset: Street Trees (ID: trees)")
		assert.Contains(t, text, "Facet: species (2 values)")

		// Sorted by count descending.
		oakIdx := strings.Index(text, "| oak | 42 |")
		elmIdx := strings.Index(text, "| elm | 7 |")
		assert.Greater(t, oakIdx, 0)
		assert.Greater(t, elmIdx, oakIdx)
	})

	t.Run("caps values at top 20", func(t *testing.T) {
		values := make([]map[string]any, 25)
		for i := range values {
			values[i] = map[string]any{
				"name":  fmt.Sprintf("value_%02d", i),
				"count": 100 - i,
				"state": "displayed",
			}
		}
		body, _ := json.Marshal(map[string]any{
			"facets": []any{map[string]any{"name": "species", "facets": values}},
		})

		client := newTestClient(t, treesHandler(nil, func(w http.ResponseWriter, r *http.Request) {
			w.Write(body)
		}))

		result := facetAnalysis(context.Background(), client, "trees", []string{"species"}, "")
		text := resultText(t, result)

		assert.Contains(t, text, "| value_19 | 81 |")
		assert.NotContains(t, text, "| value_20 |")
		assert.Contains(t, text, "(Showing top 20 of 25 values)")
	})

	t.Run("no facets requested", func(t *testing.T) {
		result := facetAnalysis(context.Background(), nil, "trees", nil, "")
		assert.True(t, result.IsError)
	})
}

func TestSearchDatasetRecords(t *testing.T) {
	t.Run("renders matches", func(t *testing.T) {
		var gotWhere string

		client := newTestClient(t, treesHandler(func(w http.ResponseWriter, r *http.Request) {
			gotWhere = r.URL.Query().Get("where")
			w.Write([]byte(`{"total_count": 1, "results": [{"name": "red oak"}]}`))
		}, nil))

		result := searchDatasetRecords(context.Background(), client, "trees", "red oak", 10)
		text := resultText(t, result)

		assert.False(t, result.IsError)
		assert.Equal(t, `search("red oak")`, gotWhere)
		assert.Contains(t, text, "Search results for 'red oak' in dataset: Street Trees (ID: trees)")
		assert.Contains(t, text, "Found 1 matching records. Showing first 1:")
		assert.Contains(t, text, "  name: red oak")
	})

	t.Run("no matches", func(t *testing.T) {
		client := newTestClient(t, treesHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"total_count": 0, "results": []}`))
		}, nil))

		result := searchDatasetRecords(context.Background(), client, "trees", "nothing", 10)
		assert.Equal(t, "No records found matching 'nothing' in dataset 'trees'.", resultText(t, result))
	})
}

func TestGetExportURL(t *testing.T) {
	t.Run("renders url and query parameters", func(t *testing.T) {
		client := newTestClient(t, treesHandler(nil, nil))

		result := getExportURL(context.Background(), client, "trees", "", RecordQuery{
			Where: "height > 10",
			Limit: 100,
		})
		text := resultText(t, result)

		assert.False(t, result.IsError)
		assert.Contains(t, text, "Export URL for dataset: Street Trees (ID: trees)")
		assert.Contains(t, text, "Format: CSV")
		assert.Contains(t, text, "Query parameters: WHERE: height > 10, LIMIT: 100")
		assert.Contains(t, text, "/api/explore/v2.1/catalog/datasets/trees/exports/csv?")
		assert.Contains(t, text, "Note: This URL can be used to download the dataset in the specified format.")
	})

	t.Run("missing dataset id", func(t *testing.T) {
		result := getExportURL(context.Background(), nil, "", "csv", RecordQuery{})
		assert.True(t, result.IsError)
	})
}
