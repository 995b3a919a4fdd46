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

// parseReasoningCSV reads one user reasoning-rule file. It follows the
// built-in ui-reasoning shape: UI_Category, Keywords, Reasoning, and an
// optional numeric Priority (lower sorts first; default is file order).
func parseReasoningCSV(path string) ([]core.ReasoningRule, []core.ValidationError) {
	file := filepath.Base(path)

	f, err := os.Open(path)
	if err != nil {
		return nil, []core.ValidationError{{File: file, Message: err.Error()}}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, []core.ValidationError{{File: file, Message: fmt.Sprintf("invalid csv: %v", err)}}
	}
	if len(rows) < 2 {
		return nil, nil
	}

	colAt := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		colAt[strings.TrimSpace(name)] = i
	}
	if _, ok := colAt["UI_Category"]; !ok {
		return nil, []core.ValidationError{{File: file, Field: "UI_Category", Message: "required column missing, file skipped"}}
	}

	cell := func(row []string, col string) string {
		i, ok := colAt[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rules []core.ReasoningRule
	var errs []core.ValidationError
	origin := core.ExternalOrigin(file)
	for rowNum, row := range rows[1:] {
		category := cell(row, "UI_Category")
		if category == "" {
			errs = append(errs, core.ValidationError{
				File:    file,
				Row:     rowNum + 2,
				Field:   "UI_Category",
				Message: "empty category, row skipped",
			})
			continue
		}
		priority := len(rules)
		if p := cell(row, "Priority"); p != "" {
			if parsed, err := strconv.Atoi(p); err == nil {
				priority = parsed
			}
		}
		rules = append(rules, core.ReasoningRule{
			Category: category,
			Keywords: catalog.SplitKeywords(cell(row, "Keywords")),
			Guidance: cell(row, "Reasoning"),
			Priority: priority,
			Source:   origin,
		})
	}
	return rules, errs
}
