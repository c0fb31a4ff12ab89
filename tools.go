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

	"github.com/dstotijn/go-mcp"
)

func newToolCallResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Text: text,
			},
		},
	}
}

func newToolCallErrorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Text: fmt.Sprintf(format, args...),
			},
		},
		IsError: true,
	}
}

// datasetTitle looks up a dataset's title for use in output headers. Title
// lookup is cosmetic, so failures fall back to a placeholder instead of
// failing the tool call.
func datasetTitle(ctx context.Context, c *Client, datasetID string) string {
	dataset, err := c.GetDataset(ctx, datasetID)
	if err != nil || dataset.Metas.Default.Title == "" {
		return "Unknown Dataset"
	}
	return dataset.Metas.Default.Title
}

// defaultLimit returns limit, or def when the caller did not set one.
func defaultLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}
