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


// Package merge combines built-in and external records for one domain
// under the conflict-resolution policy:
//
//  1. search fields are structurally critical to ranking: built-in wins
//  2. scalar display fields: external wins
//  3. list fields (keyword lists): concatenate and de-duplicate
//
// New external records are appended with a small positive priority boost
// so user customization surfaces ahead of built-in entries with equal
// lexical score. Merging is a pure function of its inputs, so repeating
// the same merge yields an identical record set and conflict list.
package merge

import (
	"slices"
	"sort"
	"strings"

	"github.com/poiesic/designkit/core"
)

// DefaultExternalBoost is the priority boost given to external records
// that do not collide with a built-in ID and carry no boost of their own.
const DefaultExternalBoost = 0.25

// Records merges external records into a built-in record set. Built-in
// order is preserved; colliding external records are folded into their
// built-in counterparts; the rest are appended in input order.
func Records(builtin, external []core.Record) ([]core.Record, []core.Conflict) {
	out := make([]core.Record, len(builtin))
	byID := make(map[string]int, len(builtin))
	for i := range builtin {
		out[i] = builtin[i].Clone()
		byID[strings.ToLower(builtin[i].ID)] = i
	}

	var conflicts []core.Conflict
	for i := range external {
		ext := &external[i]
		if at, ok := byID[strings.ToLower(ext.ID)]; ok {
			merged, cs := record(out[at], *ext)
			out[at] = merged
			conflicts = append(conflicts, cs...)
			continue
		}
		appended := ext.Clone()
		if appended.PriorityBoost == 0 {
			appended.PriorityBoost = DefaultExternalBoost
		}
		out = append(out, appended)
	}
	return out, conflicts
}

// record folds one external record into its built-in counterpart,
// emitting exactly one conflict per differing field.
func record(builtin, ext core.Record) (core.Record, []core.Conflict) {
	merged := builtin.Clone()
	var conflicts []core.Conflict

	// Search fields drive scoring: built-in wins.
	if len(ext.SearchFields) > 0 && !slices.Equal(builtin.SearchFields, ext.SearchFields) {
		conflicts = append(conflicts, core.Conflict{
			Domain:        builtin.Domain,
			RecordID:      builtin.ID,
			Field:         "search_fields",
			BuiltinValue:  strings.Join(builtin.SearchFields, " | "),
			ExternalValue: strings.Join(ext.SearchFields, " | "),
			Resolution:    core.ResolutionUsedBuiltin,
		})
	}

	for _, field := range sortedKeys(ext.OutputFields) {
		extValue := ext.OutputFields[field]
		builtinValue, collides := builtin.OutputFields[field]
		if merged.OutputFields == nil {
			merged.OutputFields = map[string]string{}
		}
		merged.OutputFields[field] = extValue
		if collides && builtinValue != extValue {
			conflicts = append(conflicts, core.Conflict{
				Domain:        builtin.Domain,
				RecordID:      builtin.ID,
				Field:         field,
				BuiltinValue:  builtinValue,
				ExternalValue: extValue,
				Resolution:    core.ResolutionUsedExternal,
			})
		}
	}

	for _, field := range sortedListKeys(ext.ListFields) {
		extValues := ext.ListFields[field]
		builtinValues, collides := builtin.ListFields[field]
		union := dedupe(append(append([]string(nil), builtinValues...), extValues...))
		if merged.ListFields == nil {
			merged.ListFields = map[string][]string{}
		}
		merged.ListFields[field] = union
		if collides && !slices.Equal(builtinValues, union) {
			conflicts = append(conflicts, core.Conflict{
				Domain:        builtin.Domain,
				RecordID:      builtin.ID,
				Field:         field,
				BuiltinValue:  strings.Join(builtinValues, ", "),
				ExternalValue: strings.Join(extValues, ", "),
				Resolution:    core.ResolutionMergedList,
			})
		}
	}

	return merged, conflicts
}

// dedupe removes duplicates case-insensitively, keeping first occurrences
// in order.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedListKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
