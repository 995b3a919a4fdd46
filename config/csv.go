// Copyright 2025 Poiesic Systems
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


package config

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/poiesic/designkit/catalog"
	"github.com/poiesic/designkit/core"
)

// maxFieldLength caps any single cell of user-supplied CSV.
const maxFieldLength = 1000

// Required column sets. A file missing any of these is skipped with a
// file-level validation error; extra columns are carried as output fields.
var (
	domainRequiredColumns = []string{"term", "description", "examples", "category"}
	stackRequiredColumns  = []string{"Category", "Guideline", "Description", "Do", "Don't"}
)

// csvTable is one parsed user CSV: its records plus the row- and
// file-level problems found along the way. Parsing is permissive; a bad
// row never fails the file and a bad file never fails the load.
type csvTable struct {
	records []core.Record
	errors  []core.ValidationError
}

// parseDomainCSV reads one domains/<name>.csv. The file name (without
// extension) is the domain key; record IDs are slugs of the term column.
func parseDomainCSV(path, domain string) csvTable {
	return parseCSV(path, domain, domainRequiredColumns, "term",
		func(row map[string]string) []string {
			fields := make([]string, 0, 4)
			for _, col := range domainRequiredColumns {
				if v := row[col]; v != "" {
					fields = append(fields, v)
				}
			}
			return fields
		})
}

// parseStackCSV reads one stacks/<name>.csv, which follows the built-in
// stack table shape. Record IDs are slugs of the Guideline column.
func parseStackCSV(path, stack string) csvTable {
	return parseCSV(path, stack, stackRequiredColumns, "Guideline",
		func(row map[string]string) []string {
			fields := make([]string, 0, 5)
			for _, col := range stackRequiredColumns {
				if v := row[col]; v != "" {
					fields = append(fields, v)
				}
			}
			return fields
		})
}

func parseCSV(path, domain string, required []string, idColumn string, searchFields func(map[string]string) []string) csvTable {
	var out csvTable
	file := filepath.Base(path)

	f, err := os.Open(path)
	if err != nil {
		out.errors = append(out.errors, core.ValidationError{File: file, Message: err.Error()})
		return out
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		out.errors = append(out.errors, core.ValidationError{File: file, Message: fmt.Sprintf("invalid csv: %v", err)})
		return out
	}
	if len(rows) == 0 {
		return out
	}

	colAt := make(map[string]int, len(rows[0]))
	header := make([]string, 0, len(rows[0]))
	for i, name := range rows[0] {
		name = strings.TrimSpace(name)
		colAt[name] = i
		header = append(header, name)
	}
	for _, col := range required {
		if _, ok := colAt[col]; !ok {
			out.errors = append(out.errors, core.ValidationError{
				File:    file,
				Field:   col,
				Message: "required column missing, file skipped",
			})
			return out
		}
	}

	origin := core.ExternalOrigin(file)
	seen := make(map[string]int, len(rows)-1)
	for rowNum, raw := range rows[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i >= len(raw) {
				break
			}
			row[col] = core.TruncateField(strings.TrimSpace(raw[i]), maxFieldLength)
		}

		idValue := row[idColumn]
		if idValue == "" {
			out.errors = append(out.errors, core.ValidationError{
				File:    file,
				Row:     rowNum + 2, // 1-based, counting the header
				Field:   idColumn,
				Message: "empty identifier, row skipped",
			})
			continue
		}
		id := catalog.Slug(idValue)
		seen[id]++
		if n := seen[id]; n > 1 {
			id = fmt.Sprintf("%s-%d", id, n)
		}

		rec := core.Record{
			ID:           id,
			Domain:       domain,
			SearchFields: searchFields(row),
			OutputFields: make(map[string]string, len(row)),
			Origin:       origin,
		}
		for col, v := range row {
			if v != "" {
				rec.OutputFields[col] = v
			}
		}
		if kwCell, ok := firstNonEmpty(row, "keywords", "Keywords"); ok {
			if kws := catalog.SplitKeywords(kwCell); len(kws) > 0 {
				rec.ListFields = map[string][]string{"keywords": kws}
				rec.SearchFields = append(rec.SearchFields, kwCell)
			}
		}
		if boostCell, ok := firstNonEmpty(row, "boost", "priority_boost"); ok {
			if boost, err := strconv.ParseFloat(boostCell, 64); err == nil && boost > 0 {
				rec.PriorityBoost = boost
			} else {
				out.errors = append(out.errors, core.ValidationError{
					File:    file,
					Row:     rowNum + 2,
					Field:   "boost",
					Message: fmt.Sprintf("invalid boost %q, ignored", boostCell),
				})
			}
		}

		if err := core.ValidateRecord(&rec); err != nil {
			out.errors = append(out.errors, core.ValidationError{
				File:    file,
				Row:     rowNum + 2,
				Message: fmt.Sprintf("row skipped: %v", err),
			})
			continue
		}
		out.records = append(out.records, rec)
	}
	return out
}

func firstNonEmpty(row map[string]string, cols ...string) (string, bool) {
	for _, col := range cols {
		if v := row[col]; v != "" {
			return v, true
		}
	}
	return "", false
}

// tableKey derives the domain or stack key from a CSV file name:
// "domains/my-colors.csv" configures domain "my-colors".
func tableKey(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
