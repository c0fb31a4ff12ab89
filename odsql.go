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
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// RecordQuery holds ODSQL query options for the records and exports
// endpoints. Clause fragments are forwarded verbatim to the remote service;
// the service performs all parsing and validation.
type RecordQuery struct {
	Select  string
	Where   string
	GroupBy string
	OrderBy string
	Limit   int
	Offset  int
}

// Values encodes the query as URL parameters. Limit and offset are always
// sent (the records endpoint paginates by default), clause fragments only
// when non-empty.
func (q RecordQuery) Values() url.Values {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("offset", strconv.Itoa(q.Offset))

	if q.Select != "" {
		v.Set("select", q.Select)
	}
	if q.Where != "" {
		v.Set("where", q.Where)
	}
	if q.GroupBy != "" {
		v.Set("group_by", q.GroupBy)
	}
	if q.OrderBy != "" {
		v.Set("order_by", q.OrderBy)
	}

	return v
}

// exportValues encodes the query for the exports endpoint, where limit is
// optional and offset is not supported.
func (q RecordQuery) exportValues() url.Values {
	v := url.Values{}

	if q.Select != "" {
		v.Set("select", q.Select)
	}
	if q.Where != "" {
		v.Set("where", q.Where)
	}
	if q.GroupBy != "" {
		v.Set("group_by", q.GroupBy)
	}
	if q.OrderBy != "" {
		v.Set("order_by", q.OrderBy)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}

	return v
}

// DatasetQuery holds filter options for the catalog datasets endpoint.
type DatasetQuery struct {
	// Free-text search term, matched as a quoted ODSQL literal.
	Search string
	// Exact publisher match.
	Publisher string
	// Exact theme match.
	Theme string
	// Raw ODSQL where fragment, forwarded verbatim.
	Where  string
	Limit  int
	Offset int
}

// Values encodes the query as URL parameters. The search term, publisher
// and theme filters and the raw where fragment are combined into a single
// where clause joined with AND.
func (q DatasetQuery) Values() url.Values {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("offset", strconv.Itoa(q.Offset))

	clauses := []string{}
	if q.Search != "" {
		clauses = append(clauses, quoteLiteral(q.Search))
	}
	if q.Where != "" {
		clauses = append(clauses, q.Where)
	}
	if q.Publisher != "" {
		clauses = append(clauses, fmt.Sprintf("publisher=%s", quoteLiteral(q.Publisher)))
	}
	if q.Theme != "" {
		clauses = append(clauses, fmt.Sprintf("theme=%s", quoteLiteral(q.Theme)))
	}

	if where := andWhere(clauses...); where != "" {
		v.Set("where", where)
	}

	return v
}

// andWhere joins non-empty ODSQL clauses with AND.
func andWhere(clauses ...string) string {
	parts := clauses[:0:0]
	for _, c := range clauses {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " AND ")
}

// quoteLiteral wraps s in double quotes for use as an ODSQL string literal,
// escaping embedded quotes and backslashes.
func quoteLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// searchClause builds a full-text search where clause for a record query.
func searchClause(query string) string {
	return fmt.Sprintf("search(%s)", quoteLiteral(query))
}
