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
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var htmlTagRe = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

// stripHTML removes HTML tags from dataset descriptions, which the catalog
// frequently stores as HTML fragments.
func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to at most n runes, appending an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// markdownTable renders a markdown table with the given headers and rows.
func markdownTable(headers []string, rows [][]string) string {
	var b strings.Builder

	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")

	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")

	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// cellValue renders a record value for display. Nested objects and arrays
// are rendered as compact JSON.
func cellValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return formatNumber(val)
	case bool:
		return strconv.FormatBool(val)
	case map[string]any, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// recordColumns returns the record's keys in a stable order.
func recordColumns(record map[string]any) []string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// recordsTable renders records as a markdown table using the first record's
// columns.
func recordsTable(records []map[string]any) string {
	headers := recordColumns(records[0])

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		row := make([]string, 0, len(headers))
		for _, key := range headers {
			row = append(row, cellValue(record[key]))
		}
		rows = append(rows, row)
	}

	return markdownTable(headers, rows)
}

// recordsList renders records as per-record key/value lists, used when
// records have too many columns for a table.
func recordsList(b *strings.Builder, records []map[string]any) {
	for i, record := range records {
		fmt.Fprintf(b, "\nRecord %d:\n", i+1)
		for _, key := range recordColumns(record) {
			fmt.Fprintf(b, "  %s: %s\n", key, cellValue(record[key]))
		}
	}
}

// formatNumber renders a JSON number without a spurious fraction for
// integral values.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// asFloat coerces a decoded JSON value to a float64.
func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	default:
		return 0, false
	}
}

// displayValue renders an aggregation result value, falling back to "N/A"
// for missing values.
func displayValue(v any) string {
	if v == nil {
		return "N/A"
	}
	return cellValue(v)
}

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// monthName returns the English month name for a 1-based month number.
func monthName(m int) string {
	if m < 1 || m > 12 {
		return strconv.Itoa(m)
	}
	return monthNames[m-1]
}
