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
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const apiPath = "/api/explore/v2.1"

// Client represents an Opendatasoft Explore API v2.1 client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// DatasetList represents the response from the catalog datasets endpoint.
type DatasetList struct {
	TotalCount int       `json:"total_count"`
	Results    []Dataset `json:"results"`
}

// Dataset represents an Opendatasoft dataset with its field schema.
type Dataset struct {
	DatasetID string  `json:"dataset_id"`
	Fields    []Field `json:"fields"`
	Metas     Metas   `json:"metas"`
}

// Metas holds dataset metadata templates; only the default template is used.
type Metas struct {
	Default DefaultMetas `json:"default"`
}

// DefaultMetas holds the default metadata template of a dataset.
type DefaultMetas struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Publisher    string   `json:"publisher"`
	License      string   `json:"license"`
	Theme        []string `json:"theme"`
	RecordsCount int64    `json:"records_count"`
}

// Field represents one field of a dataset schema.
type Field struct {
	Name        string         `json:"name"`
	Label       string         `json:"label"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Annotations map[string]any `json:"annotations"`
}

// RecordList represents the response from the records endpoint. Records are
// schemaless maps; the field set depends on the dataset and select clause.
type RecordList struct {
	TotalCount int64            `json:"total_count"`
	Results    []map[string]any `json:"results"`
}

// FacetList represents the response from the facets endpoint.
type FacetList struct {
	Facets []FacetField `json:"facets"`
}

// FacetField holds the value distribution of one facet field.
type FacetField struct {
	Name   string       `json:"name"`
	Facets []FacetValue `json:"facets"`
}

// FacetValue is a single facet value with its record count.
type FacetValue struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
	State string `json:"state"`
	Value string `json:"value"`
}

// NewClient creates a new Opendatasoft API client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout),
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		logger:  logger,
	}
}

// get issues a GET request against the Explore API and decodes the JSON
// response into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + apiPath + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Apikey "+c.apiKey)
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// ListDatasets lists datasets from the catalog, optionally filtered by
// free-text search, publisher, theme and a raw ODSQL where fragment.
func (c *Client) ListDatasets(ctx context.Context, q DatasetQuery) (*DatasetList, error) {
	var list DatasetList
	if err := c.get(ctx, "/catalog/datasets", q.Values(), &list); err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	return &list, nil
}

// GetDataset retrieves metadata and the field schema for a dataset.
func (c *Client) GetDataset(ctx context.Context, datasetID string) (*Dataset, error) {
	var dataset Dataset
	path := "/catalog/datasets/" + url.PathEscape(datasetID)
	if err := c.get(ctx, path, nil, &dataset); err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}
	return &dataset, nil
}

// GetRecords retrieves records from a dataset with the given ODSQL query.
func (c *Client) GetRecords(ctx context.Context, datasetID string, q RecordQuery) (*RecordList, error) {
	var list RecordList
	path := "/catalog/datasets/" + url.PathEscape(datasetID) + "/records"
	if err := c.get(ctx, path, q.Values(), &list); err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	return &list, nil
}

// GetFacets retrieves value distributions for the given facet fields.
func (c *Client) GetFacets(ctx context.Context, datasetID string, facets []string, where string) (*FacetList, error) {
	params := url.Values{}
	for _, f := range facets {
		params.Add("facet", f)
	}
	if where != "" {
		params.Set("where", where)
	}

	var list FacetList
	path := "/catalog/datasets/" + url.PathEscape(datasetID) + "/facets"
	if err := c.get(ctx, path, params, &list); err != nil {
		return nil, fmt.Errorf("failed to get facets: %w", err)
	}
	return &list, nil
}

// ExportURL builds the export URL for dataset records in the given format.
// The URL is returned without being fetched; exports can be arbitrarily
// large and are meant to be downloaded by the caller.
func (c *Client) ExportURL(datasetID, format string, q RecordQuery) string {
	path := fmt.Sprintf("/catalog/datasets/%s/exports/%s", url.PathEscape(datasetID), url.PathEscape(format))

	u := c.baseURL + apiPath + path
	if params := q.exportValues(); len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// SearchDatasets searches the catalog by keyword.
func (c *Client) SearchDatasets(ctx context.Context, query string, limit int) (*DatasetList, error) {
	return c.ListDatasets(ctx, DatasetQuery{Search: query, Limit: limit})
}

// SearchRecords performs a full-text search within a dataset.
func (c *Client) SearchRecords(ctx context.Context, datasetID, query string, limit int) (*RecordList, error) {
	return c.GetRecords(ctx, datasetID, RecordQuery{
		Where: searchClause(query),
		Limit: limit,
	})
}
