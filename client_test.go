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
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{BaseURL: srv.URL}
	cfg.ApplyDefaults()
	cfg.RateLimit = 10000
	cfg.Burst = 10000
	cfg.Timeout = Duration(5 * time.Second)

	return NewClient(cfg, zap.NewNop())
}

func TestClientListDatasets(t *testing.T) {
	var gotPath string
	var gotWhere string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotWhere = r.URL.Query().Get("where")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_count": 2, "results": [{"dataset_id": "a"}, {"dataset_id": "b"}]}`))
	}))

	list, err := client.ListDatasets(context.Background(), DatasetQuery{
		Search:    "air quality",
		Publisher: "City of Paris",
		Limit:     10,
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/explore/v2.1/catalog/datasets", gotPath)
	assert.Equal(t, `"air quality" AND publisher="City of Paris"`, gotWhere)
	assert.Equal(t, 2, list.TotalCount)
	require.Len(t, list.Results, 2)
	assert.Equal(t, "a", list.Results[0].DatasetID)
}

func TestClientAuthHeader(t *testing.T) {
	var gotAuth, gotAccept string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	cfg := Config{BaseURL: srv.URL, APIKey: "secret"}
	cfg.ApplyDefaults()
	client := NewClient(cfg, zap.NewNop())

	_, err := client.GetDataset(context.Background(), "some-dataset")
	require.NoError(t, err)

	assert.Equal(t, "Apikey secret", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
}

func TestClientNoAuthHeaderWithoutKey(t *testing.T) {
	var gotAuth string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))

	_, err := client.GetDataset(context.Background(), "some-dataset")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClientGetRecords(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/explore/v2.1/catalog/datasets/trees/records", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "name, height", q.Get("select"))
		assert.Equal(t, "height > 10", q.Get("where"))
		assert.Equal(t, "height DESC", q.Get("order_by"))
		assert.Equal(t, "25", q.Get("limit"))
		assert.Equal(t, "50", q.Get("offset"))

		w.Write([]byte(`{"total_count": 120, "results": [{"name": "oak", "height": 12.5}]}`))
	}))

	list, err := client.GetRecords(context.Background(), "trees", RecordQuery{
		Select:  "name, height",
		Where:   "height > 10",
		OrderBy: "height DESC",
		Limit:   25,
		Offset:  50,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(120), list.TotalCount)
	require.Len(t, list.Results, 1)
	assert.Equal(t, "oak", list.Results[0]["name"])
}

func TestClientGetFacets(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/explore/v2.1/catalog/datasets/trees/facets", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, []string{"species", "district"}, q["facet"])
		assert.Equal(t, `district="12"`, q.Get("where"))

		w.Write([]byte(`{"facets": [{"name": "species", "facets": [{"name": "oak", "count": 42}]}]}`))
	}))

	list, err := client.GetFacets(context.Background(), "trees", []string{"species", "district"}, `district="12"`)
	require.NoError(t, err)

	require.Len(t, list.Facets, 1)
	assert.Equal(t, "species", list.Facets[0].Name)
	require.Len(t, list.Facets[0].Facets, 1)
	assert.Equal(t, int64(42), list.Facets[0].Facets[0].Count)
}

func TestClientErrorStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "invalid ODSQL"}`))
	}))

	_, err := client.GetRecords(context.Background(), "trees", RecordQuery{Limit: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 400")
	assert.Contains(t, err.Error(), "invalid ODSQL")
}

func TestClientExportURL(t *testing.T) {
	cfg := Config{BaseURL: "https://example.opendatasoft.com"}
	cfg.ApplyDefaults()
	client := NewClient(cfg, zap.NewNop())

	t.Run("with query options", func(t *testing.T) {
		u := client.ExportURL("trees", "csv", RecordQuery{
			Select: "name",
			Where:  "height > 10",
			Limit:  100,
		})
		assert.Equal(t,
			"https://example.opendatasoft.com/api/explore/v2.1/catalog/datasets/trees/exports/csv?limit=100&select=name&where=height+%3E+10",
			u)
	})

	t.Run("without query options", func(t *testing.T) {
		u := client.ExportURL("trees", "geojson", RecordQuery{})
		assert.Equal(t,
			"https://example.opendatasoft.com/api/explore/v2.1/catalog/datasets/trees/exports/geojson",
			u)
	})
}

func TestClientSearchRecords(t *testing.T) {
	var gotWhere string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotWhere = r.URL.Query().Get("where")
		w.Write([]byte(`{"total_count": 0, "results": []}`))
	}))

	_, err := client.SearchRecords(context.Background(), "trees", "red oak", 10)
	require.NoError(t, err)
	assert.Equal(t, `search("red oak")`, gotWhere)
}

func TestClientContextCancellation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetDataset(ctx, "trees")
	require.Error(t, err)
}
