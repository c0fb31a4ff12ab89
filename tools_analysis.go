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

var numericFieldTypes = map[string]bool{
	"int":     true,
	"double":  true,
	"decimal": true,
	"float":   true,
}

var dateFieldTypes = map[string]bool{
	"date":     true,
	"datetime": true,
}

var geoFieldTypes = map[string]bool{
	"geo_point_2d": true,
	"geo_shape":    true,
}

// findField looks up a field by name in a dataset schema.
func findField(dataset *Dataset, name string) (Field, bool) {
	for _, field := range dataset.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// fieldLabel returns the field's label, falling back to its name.
func fieldLabel(field Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

// firstResult returns the first aggregation result row, or nil.
func firstResult(list *RecordList) map[string]any {
	if list == nil || len(list.Results) == 0 {
		return nil
	}
	return list.Results[0]
}

// createSummarizeDatasetTool creates a tool that produces a markdown summary
// of a dataset: metadata, schema and sample records.
func createSummarizeDatasetTool(client *Client) mcp.Tool {
	type SummarizeDatasetParams struct {
		// Unique identifier for the dataset
		DatasetID string `json:"dataset_id"`
	}

	return mcp.CreateTool(mcp.ToolDef[SummarizeDatasetParams]{
		Name:        "summarize_dataset",
		Description: "Generate a comprehensive summary of a dataset including metadata, schema, and sample data",
		HandleFunc: func(ctx context.Context, params SummarizeDatasetParams) *mcp.CallToolResult {
			return summarizeDataset(ctx, client, params.DatasetID)
		},
	})
}

func summarizeDataset(ctx context.Context, client *Client, datasetID string) *mcp.CallToolResult {
	if datasetID == "" {
		return newToolCallErrorResult("Dataset identifier is required")
	}

	dataset, err := client.GetDataset(ctx, datasetID)
	if err != nil {
		return newToolCallErrorResult("Error retrieving dataset information: %v", err)
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
	theme := ""
	if len(metas.Theme) > 0 {
		theme = metas.Theme[0]
	}
	license := metas.License
	if license == "" {
		license = "Unknown License"
	}

	// Sample records are illustrative only, so a lookup failure does not
	// fail the summary.
	var samples []map[string]any
	if records, err := client.GetRecords(ctx, datasetID, RecordQuery{Limit: 5}); err == nil {
		samples = records.Results
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Dataset Summary: %s\n", title)
	b.WriteString("\n## Basic Information\n")
	fmt.Fprintf(&b, "- **Dataset ID**: %s\n", datasetID)
	fmt.Fprintf(&b, "- **Publisher**: %s\n", publisher)
	fmt.Fprintf(&b, "- **Theme**: %s\n", theme)
	fmt.Fprintf(&b, "- **License**: %s\n", license)
	fmt.Fprintf(&b, "- **Records Count**: %d\n", metas.RecordsCount)
	b.WriteString("\n## Description\n")
	b.WriteString(description + "\n")
	fmt.Fprintf(&b, "\n## Schema (%d fields)\n", len(dataset.Fields))

	typeCounts := map[string]int{}
	typeOrder := []string{}
	for _, field := range dataset.Fields {
		if _, seen := typeCounts[field.Type]; !seen {
			typeOrder = append(typeOrder, field.Type)
		}
		typeCounts[field.Type]++
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", fieldLabel(field), field.Name, field.Type)
	}

	b.WriteString("\n## Field Type Distribution\n")
	for _, fieldType := range typeOrder {
		fmt.Fprintf(&b, "- %s: %d fields\n", fieldType, typeCounts[fieldType])
	}

	if len(samples) > 0 {
		fmt.Fprintf(&b, "\n## Sample Records (%d of %d)\n", len(samples), metas.RecordsCount)
		for i, record := range samples {
			fmt.Fprintf(&b, "\n### Record %d\n", i+1)
			for _, key := range recordColumns(record) {
				fmt.Fprintf(&b, "- **%s**: %s\n", key, cellValue(record[key]))
			}
		}
	}

	return newToolCallResult(strings.TrimRight(b.String(), "\n"))
}

// createAnalyzeNumericFieldTool creates a tool that computes summary
// statistics and a value distribution for a numeric field.
func createAnalyzeNumericFieldTool(client *Client) mcp.Tool {
	type AnalyzeNumericFieldParams struct {
		// Unique identifier for the dataset
		DatasetID string `json:"dataset_id"`
		// Name of the numeric field to analyze
		FieldName string `json:"field_name"`
	}

	return mcp.CreateTool(mcp.ToolDef[AnalyzeNumericFieldParams]{
		Name:        "analyze_numeric_field",
		Description: "Analyze a numeric field in a dataset, including min, max, average, and distribution",
		HandleFunc: func(ctx context.Context, params AnalyzeNumericFieldParams) *mcp.CallToolResult {
			return analyzeNumericField(ctx, client, params.DatasetID, params.FieldName)
		},
	})
}

func analyzeNumericField(ctx context.Context, client *Client, datasetID, fieldName string) *mcp.CallToolResult {
	if datasetID == "" {
		return newToolCallErrorResult("Dataset identifier is required")
	}
	if fieldName == "" {
		return newToolCallErrorResult("Field name is required")
	}

	dataset, err := client.GetDataset(ctx, datasetID)
	if err != nil {
		return newToolCallErrorResult("Error validating field: %v", err)
	}

	field, ok := findField(dataset, fieldName)
	if !ok {
		return newToolCallErrorResult("Field '%s' not found in dataset '%s'.", fieldName, datasetID)
	}
	if !numericFieldTypes[field.Type] {
		return newToolCallErrorResult("Field '%s' is not a numeric field (type: %s).", fieldName, field.Type)
	}

	stats, err := client.GetRecords(ctx, datasetID, RecordQuery{
		Select: fmt.Sprintf("min(%s) as min, max(%s) as max, avg(%s) as avg, count(%s) as count",
			fieldName, fieldName, fieldName, fieldName),
		Limit: 1,
	})
	if err != nil {
		return newToolCallErrorResult("Error computing field statistics: %v", err)
	}

	row := firstResult(stats)
	if row == nil {
		return newToolCallErrorResult("Failed to compute statistics for field '%s'.", fieldName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Analysis of %s (%s)\n", fieldLabel(field), fieldName)
	fmt.Fprintf(&b, "\nDataset: %s (ID: %s)\n", datasetTitle(ctx, client, datasetID), datasetID)
	b.WriteString("\n## Basic Statistics\n")
	fmt.Fprintf(&b, "- **Count**: %s\n", displayValue(row["count"]))
	fmt.Fprintf(&b, "- **Minimum**: %s\n", displayValue(row["min"]))
	fmt.Fprintf(&b, "- **Maximum**: %s\n", displayValue(row["max"]))
	fmt.Fprintf(&b, "- **Average**: %s\n", displayValue(row["avg"]))

	if distribution := numericDistribution(ctx, client, datasetID, fieldName, row); len(distribution) > 0 {
		b.WriteString("\n## Value Distribution\n")
		b.WriteString(markdownTable([]string{"Range", "Count"}, distribution))
	}

	return newToolCallResult(strings.TrimRight(b.String(), "\n"))
}

// numericDistribution buckets a numeric field into 10 equal ranges between
// min and max and counts records per range. Returns nil when min/max are
// unavailable or equal, or when any range query fails.
func numericDistribution(ctx context.Context, client *Client, datasetID, fieldName string, stats map[string]any) [][]string {
	minVal, okMin := asFloat(stats["min"])
	maxVal, okMax := asFloat(stats["max"])
	if !okMin || !okMax {
		return nil
	}

	rangeSize := (maxVal - minVal) / 10
	if rangeSize <= 0 {
		return nil
	}

	rows := make([][]string, 0, 10)
	for i := 0; i < 10; i++ {
		lower := minVal + float64(i)*rangeSize
		upper := minVal + float64(i+1)*rangeSize

		op := "<"
		if i == 9 {
			// The last bucket includes the maximum value.
			op = "<="
		}
		where := fmt.Sprintf("%s >= %g AND %s %s %g", fieldName, lower, fieldName, op, upper)

		result, err := client.GetRecords(ctx, datasetID, RecordQuery{
			Select: "count(*) as count",
			Where:  where,
			Limit:  1,
		})
		if err != nil {
			return nil
		}

		count := 0.0
		if row := firstResult(result); row != nil {
			count, _ = asFloat(row["count"])
		}

		rows = append(rows, []string{
			fmt.Sprintf("%.2f - %.2f", lower, upper),
			formatNumber(count),
		})
	}

	return rows
}

// createAnalyzeTextFieldTool creates a tool that computes value frequencies
// for a text field.
func createAnalyzeTextFieldTool(client *Client) mcp.Tool {
	type AnalyzeTextFieldParams struct {
		// Unique identifier for the dataset
		DatasetID string `json:"dataset_id"`
		// Name of the text field to analyze
		FieldName string `json:"field_name"`
		// Maximum number of unique values to analyze (default: 20)
		Limit int `json:"limit,omitempty"`
	}

	return mcp.CreateTool(mcp.ToolDef[AnalyzeTextFieldParams]{
		Name:        "analyze_text_field",
		Description: "Analyze a text field in a dataset, including value frequency",
		HandleFunc: func(ctx context.Context, params AnalyzeTextFieldParams) *mcp.CallToolResult {
			return analyzeTextField(ctx, client, params.DatasetID, params.FieldName, params.Limit)
		},
	})
}

func analyzeTextField(ctx context.Context, client *Client, datasetID, fieldName string, limit int) *mcp.CallToolResult {
	if datasetID == "" {
		return newToolCallErrorResult("Dataset identifier is required")
	}
	if fieldName == "" {
		return newToolCallErrorResult("Field name is required")
	}

	dataset, err := client.GetDataset(ctx, datasetID)
	if err != nil {
		return newToolCallErrorResult("Error validating field: %v", err)
	}

	field, ok := findField(dataset, fieldName)
	if !ok {
		return newToolCallErrorResult("Field '%s' not found in dataset '%s'.", fieldName, datasetID)
	}
	if field.Type != "text" {
		return newToolCallErrorResult("Field '%s' is not a text field (type: %s).", fieldName, field.Type)
	}

	frequency, err := client.GetRecords(ctx, datasetID, RecordQuery{
		Select:  fmt.Sprintf("%s, count(*) as count", fieldName),
		GroupBy: fieldName,
		OrderBy: "count DESC",
		Limit:   defaultLimit(limit, 20),
	})
	if err != nil {
		return newToolCallErrorResult("Error computing value frequency: %v", err)
	}
	if len(frequency.Results) == 0 {
		return newToolCallErrorResult("Failed to compute value frequency for field '%s'.", fieldName)
	}

	totalRecords := 0.0
	if result, err := client.GetRecords(ctx, datasetID, RecordQuery{
		Select: "count(*) as total",
		Limit:  1,
	}); err == nil {
		if row := firstResult(result); row != nil {
			totalRecords, _ = asFloat(row["total"])
		}
	}

	distinctCount := "Unknown"
	if result, err := client.GetRecords(ctx, datasetID, RecordQuery{
		Select: fmt.Sprintf("count(distinct %s) as distinct_count", fieldName),
		Limit:  1,
	}); err == nil {
		if row := firstResult(result); row != nil {
			distinctCount = displayValue(row["distinct_count"])
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Analysis of %s (%s)\n", fieldLabel(field), fieldName)
	fmt.Fprintf(&b, "\nDataset: %s (ID: %s)\n", datasetTitle(ctx, client, datasetID), datasetID)
	b.WriteString("\n## Basic Statistics\n")
	if totalRecords > 0 {
		fmt.Fprintf(&b, "- **Total Records**: %s\n", formatNumber(totalRecords))
	} else {
		b.WriteString("- **Total Records**: Unknown\n")
	}
	fmt.Fprintf(&b, "- **Distinct Values**: %s\n", distinctCount)

	fmt.Fprintf(&b, "\n## Top %d Values by Frequency\n", len(frequency.Results))

	rows := make([][]string, 0, len(frequency.Results))
	for _, row := range frequency.Results {
		count, _ := asFloat(row["count"])

		percentage := "N/A"
		if totalRecords > 0 {
			percentage = fmt.Sprintf("%.2f%%", count/totalRecords*100)
		}

		rows = append(rows, []string{displayValue(row[fieldName]), formatNumber(count), percentage})
	}
	b.WriteString(markdownTable([]string{"Value", "Count", "Percentage"}, rows))

	return newToolCallResult(b.String())
}

// createAnalyzeDateFieldTool creates a tool that computes the date range and
// yearly/monthly distributions for a date field.
func createAnalyzeDateFieldTool(client *Client) mcp.Tool {
	type AnalyzeDateFieldParams struct {
		// Unique identifier for the dataset
		DatasetID string `json:"dataset_id"`
		// Name of the date field to analyze
		FieldName string `json:"field_name"`
	}

	return mcp.CreateTool(mcp.ToolDef[AnalyzeDateFieldParams]{
		Name:        "analyze_date_field",
		Description: "Analyze a date field in a dataset, including range, distribution by year/month",
		HandleFunc: func(ctx context.Context, params AnalyzeDateFieldParams) *mcp.CallToolResult {
			return analyzeDateField(ctx, client, params.DatasetID, params.FieldName)
		},
	})
}

func analyzeDateField(ctx context.Context, client *Client, datasetID, fieldName string) *mcp.CallToolResult {
	if datasetID == "" {
		return newToolCallErrorResult("Dataset identifier is required")
	}
	if fieldName == "" {
		return newToolCallErrorResult("Field name is required")
	}

	dataset, err := client.GetDataset(ctx, datasetID)
	if err != nil {
		return newToolCallErrorResult("Error validating field: %v", err)
	}

	field, ok := findField(dataset, fieldName)
	if !ok {
		return newToolCallErrorResult("Field '%s' not found in dataset '%s'.", fieldName, datasetID)
	}
	if !dateFieldTypes[field.Type] {
		return newToolCallErrorResult("Field '%s' is not a date field (type: %s).", fieldName, field.Type)
	}

	stats, err := client.GetRecords(ctx, datasetID, RecordQuery{
		Select: fmt.Sprintf("min(%s) as min_date, max(%s) as max_date, count(%s) as count",
			fieldName, fieldName, fieldName),
		Limit: 1,
	})
	if err != nil {
		return newToolCallErrorResult("Error computing field statistics: %v", err)
	}

	row := firstResult(stats)
	if row == nil {
		return newToolCallErrorResult("Failed to compute statistics for field '%s'.", fieldName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Analysis of %s (%s)\n", fieldLabel(field), fieldName)
	fmt.Fprintf(&b, "\nDataset: %s (ID: %s)\n", datasetTitle(ctx, client, datasetID), datasetID)
	b.WriteString("\n## Basic Statistics\n")
	fmt.Fprintf(&b, "- **Count**: %s\n", displayValue(row["count"]))
	fmt.Fprintf(&b, "- **Earliest Date**: %s\n", displayValue(row["min_date"]))
	fmt.Fprintf(&b, "- **Latest Date**: %s\n", displayValue(row["max_date"]))

	// Year and month distributions are best-effort; a failing group-by
	// query (e.g. on an unsupported field) just omits the section.
	var years []map[string]any
	if result, err := client.GetRecords(ctx, datasetID, RecordQuery{
		Select:  fmt.Sprintf("year(%s) as year, count(*) as count", fieldName),
		GroupBy: fmt.Sprintf("year(%s)", fieldName),
		OrderBy: "year",
		Limit:   100,
	}); err == nil {
		years = result.Results
	}

	if len(years) > 0 {
		b.WriteString("\n## Distribution by Year\n")

		rows := make([][]string, 0, len(years))
		for _, yearRow := range years {
			rows = append(rows, []string{displayValue(yearRow["year"]), displayValue(yearRow["count"])})
		}
		b.WriteString(markdownTable([]string{"Year", "Count"}, rows) + "\n")

		if monthly := monthlyDistribution(ctx, client, datasetID, fieldName, years); len(monthly) > 0 {
			fmt.Fprintf(&b, "\n## Monthly Distribution (Last %d Years)\n", len(monthly))
			for _, ym := range monthly {
				fmt.Fprintf(&b, "\n### %d\n", ym.year)

				rows := make([][]string, 0, len(ym.months))
				for _, monthRow := range ym.months {
					month, _ := asFloat(monthRow["month"])
					rows = append(rows, []string{monthName(int(month)), displayValue(monthRow["count"])})
				}
				b.WriteString(markdownTable([]string{"Month", "Count"}, rows) + "\n")
			}
		}
	}

	return newToolCallResult(strings.TrimRight(b.String(), "\n"))
}

type yearMonths struct {
	year   int
	months []map[string]any
}

// monthlyDistribution fetches per-month counts for up to the 5 most recent
// years in the year distribution.
func monthlyDistribution(ctx context.Context, client *Client, datasetID, fieldName string, years []map[string]any) []yearMonths {
	recent := []int{}
	for _, row := range years {
		if year, ok := asFloat(row["year"]); ok {
			recent = append(recent, int(year))
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(recent)))
	if len(recent) > 5 {
		recent = recent[:5]
	}

	var result []yearMonths
	for _, year := range recent {
		months, err := client.GetRecords(ctx, datasetID, RecordQuery{
			Select:  fmt.Sprintf("month(%s) as month, count(*) as count", fieldName),
			Where:   fmt.Sprintf("year(%s) = %d", fieldName, year),
			GroupBy: fmt.Sprintf("month(%s)", fieldName),
			OrderBy: "month",
			Limit:   12,
		})
		if err != nil {
			continue
		}
		if len(months.Results) > 0 {
			result = append(result, yearMonths{year: year, months: months.Results})
		}
	}

	return result
}

// createGenerateDatasetStatisticsTool creates a tool that computes summary
// statistics for every field in a dataset, grouped by field type.
func createGenerateDatasetStatisticsTool(client *Client) mcp.Tool {
	type GenerateDatasetStatisticsParams struct {
		// Unique identifier for the dataset
		DatasetID string `json:"dataset_id"`
	}

	return mcp.CreateTool(mcp.ToolDef[GenerateDatasetStatisticsParams]{
		Name:        "generate_dataset_statistics",
		Description: "Generate comprehensive statistics for all fields in a dataset",
		HandleFunc: func(ctx context.Context, params GenerateDatasetStatisticsParams) *mcp.CallToolResult {
			return generateDatasetStatistics(ctx, client, params.DatasetID)
		},
	})
}

func generateDatasetStatistics(ctx context.Context, client *Client, datasetID string) *mcp.CallToolResult {
	if datasetID == "" {
		return newToolCallErrorResult("Dataset identifier is required")
	}

	dataset, err := client.GetDataset(ctx, datasetID)
	if err != nil {
		return newToolCallErrorResult("Error retrieving dataset information: %v", err)
	}
	if len(dataset.Fields) == 0 {
		return newToolCallErrorResult("No fields found for dataset '%s'.", datasetID)
	}

	var numeric, text, date, geo, other []Field
	for _, field := range dataset.Fields {
		switch {
		case numericFieldTypes[field.Type]:
			numeric = append(numeric, field)
		case field.Type == "text":
			text = append(text, field)
		case dateFieldTypes[field.Type]:
			date = append(date, field)
		case geoFieldTypes[field.Type]:
			geo = append(geo, field)
		default:
			other = append(other, field)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Dataset Statistics: %s\n", datasetTitle(ctx, client, datasetID))
	fmt.Fprintf(&b, "\nDataset ID: %s\n", datasetID)
	b.WriteString("\n## Field Count by Type\n")
	fmt.Fprintf(&b, "- **Numeric Fields**: %d\n", len(numeric))
	fmt.Fprintf(&b, "- **Text Fields**: %d\n", len(text))
	fmt.Fprintf(&b, "- **Date Fields**: %d\n", len(date))
	fmt.Fprintf(&b, "- **Geographic Fields**: %d\n", len(geo))
	fmt.Fprintf(&b, "- **Other Fields**: %d\n", len(other))
	b.WriteString("\n## Detailed Field Information\n")

	totalRecords := 0.0
	if result, err := client.GetRecords(ctx, datasetID, RecordQuery{
		Select: "count(*) as total",
		Limit:  1,
	}); err == nil {
		if row := firstResult(result); row != nil {
			totalRecords, _ = asFloat(row["total"])
		}
	}

	if len(numeric) > 0 {
		b.WriteString("\n### Numeric Fields\n")
		b.WriteString(numericFieldStats(ctx, client, datasetID, numeric) + "\n")
	}

	if len(text) > 0 {
		b.WriteString("\n### Text Fields\n")
		b.WriteString(textFieldStats(ctx, client, datasetID, text, totalRecords) + "\n")
	}

	if len(date) > 0 {
		b.WriteString("\n### Date Fields\n")
		b.WriteString(dateFieldStats(ctx, client, datasetID, date, totalRecords) + "\n")
	}

	if len(geo) > 0 {
		b.WriteString("\n### Geographic Fields\n")
		b.WriteString(geoFieldStats(ctx, client, datasetID, geo, totalRecords) + "\n")
	}

	if len(other) > 0 {
		b.WriteString("\n### Other Fields\n")

		rows := make([][]string, 0, len(other))
		for _, field := range other {
			rows = append(rows, []string{
				fmt.Sprintf("%s (%s)", fieldLabel(field), field.Name),
				field.Type,
			})
		}
		b.WriteString(markdownTable([]string{"Field", "Type"}, rows) + "\n")
	}

	return newToolCallResult(strings.TrimRight(b.String(), "\n"))
}

// numericFieldStats fetches min/max/avg/count for all numeric fields in a
// single aggregation query.
func numericFieldStats(ctx context.Context, client *Client, datasetID string, fields []Field) string {
	selects := make([]string, 0, len(fields)*4)
	for _, field := range fields {
		selects = append(selects,
			fmt.Sprintf("min(%s) as min_%s", field.Name, field.Name),
			fmt.Sprintf("max(%s) as max_%s", field.Name, field.Name),
			fmt.Sprintf("avg(%s) as avg_%s", field.Name, field.Name),
			fmt.Sprintf("count(%s) as count_%s", field.Name, field.Name),
		)
	}

	stats := map[string]any{}
	if result, err := client.GetRecords(ctx, datasetID, RecordQuery{
		Select: strings.Join(selects, ", "),
		Limit:  1,
	}); err == nil {
		if row := firstResult(result); row != nil {
			stats = row
		}
	}

	rows := make([][]string, 0, len(fields))
	for _, field := range fields {
		rows = append(rows, []string{
			fmt.Sprintf("%s (%s)", fieldLabel(field), field.Name),
			field.Type,
			displayValue(stats["count_"+field.Name]),
			displayValue(stats["min_"+field.Name]),
			displayValue(stats["max_"+field.Name]),
			displayValue(stats["avg_"+field.Name]),
		})
	}

	return markdownTable([]string{"Field", "Type", "Count", "Min", "Max", "Average"}, rows)
}

// textFieldStats fetches distinct and fill-rate stats per text field.
func textFieldStats(ctx context.Context, client *Client, datasetID string, fields []Field, totalRecords float64) string {
	rows := make([][]string, 0, len(fields))
	for _, field := range fields {
		distinctCount := "N/A"
		fillRate := "N/A"

		if result, err := client.GetRecords(ctx, datasetID, RecordQuery{
			Select: fmt.Sprintf("count(distinct %s) as distinct_count, count(%s) as count", field.Name, field.Name),
			Limit:  1,
		}); err == nil {
			if row := firstResult(result); row != nil {
				distinctCount = displayValue(row["distinct_count"])
				if count, ok := asFloat(row["count"]); ok && totalRecords > 0 {
					fillRate = fmt.Sprintf("%.2f%%", count/totalRecords*100)
				}
			}
		}

		rows = append(rows, []string{
			fmt.Sprintf("%s (%s)", fieldLabel(field), field.Name),
			distinctCount,
			fillRate,
		})
	}

	return markdownTable([]string{"Field", "Distinct Values", "Fill Rate"}, rows)
}

// dateFieldStats fetches the date range and fill rate per date field.
func dateFieldStats(ctx context.Context, client *Client, datasetID string, fields []Field, totalRecords float64) string {
	rows := make([][]string, 0, len(fields))
	for _, field := range fields {
		minDate := "N/A"
		maxDate := "N/A"
		fillRate := "N/A"

		if result, err := client.GetRecords(ctx, datasetID, RecordQuery{
			Select: fmt.Sprintf("min(%s) as min_date, max(%s) as max_date, count(%s) as count",
				field.Name, field.Name, field.Name),
			Limit: 1,
		}); err == nil {
			if row := firstResult(result); row != nil {
				minDate = displayValue(row["min_date"])
				maxDate = displayValue(row["max_date"])
				if count, ok := asFloat(row["count"]); ok && totalRecords > 0 {
					fillRate = fmt.Sprintf("%.2f%%", count/totalRecords*100)
				}
			}
		}

		rows = append(rows, []string{
			fmt.Sprintf("%s (%s)", fieldLabel(field), field.Name),
			minDate,
			maxDate,
			fillRate,
		})
	}

	return markdownTable([]string{"Field", "Earliest Date", "Latest Date", "Fill Rate"}, rows)
}

// geoFieldStats fetches the fill rate per geographic field.
func geoFieldStats(ctx context.Context, client *Client, datasetID string, fields []Field, totalRecords float64) string {
	rows := make([][]string, 0, len(fields))
	for _, field := range fields {
		fillRate := "N/A"

		if result, err := client.GetRecords(ctx, datasetID, RecordQuery{
			Select: fmt.Sprintf("count(%s) as count", field.Name),
			Limit:  1,
		}); err == nil {
			if row := firstResult(result); row != nil {
				if count, ok := asFloat(row["count"]); ok && totalRecords > 0 {
					fillRate = fmt.Sprintf("%.2f%%", count/totalRecords*100)
				}
			}
		}

		rows = append(rows, []string{
			fmt.Sprintf("%s (%s)", fieldLabel(field), field.Name),
			field.Type,
			fillRate,
		})
	}

	return markdownTable([]string{"Field", "Type", "Fill Rate"}, rows)
}
