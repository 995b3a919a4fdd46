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


package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/designkit/core"
)

func builtinMinimal() core.Record {
	return core.Record{
		ID:           "minimal",
		Domain:       "style",
		SearchFields: []string{"Minimal", "clean whitespace simple"},
		OutputFields: map[string]string{
			"description": "Less is more",
			"complexity":  "low",
		},
		ListFields: map[string][]string{
			"keywords": {"clean", "simple"},
		},
		Origin: core.OriginBuiltin,
	}
}

func TestRecordsCollision(t *testing.T) {
	external := core.Record{
		ID:           "minimal",
		Domain:       "style",
		SearchFields: []string{"Minimal", "brutalist concrete"},
		OutputFields: map[string]string{
			"description": "Our house take on minimalism",
		},
		ListFields: map[string][]string{
			"keywords": {"Clean", "stark"},
		},
		Origin: core.ExternalOrigin("styles.csv"),
	}

	merged, conflicts := Records([]core.Record{builtinMinimal()}, []core.Record{external})
	require.Len(t, merged, 1)

	rec := merged[0]
	// Search fields are critical: built-in wins and ranking is unchanged.
	assert.Equal(t, []string{"Minimal", "clean whitespace simple"}, rec.SearchFields)
	// Scalar output fields: external wins; untouched fields survive.
	assert.Equal(t, "Our house take on minimalism", rec.OutputFields["description"])
	assert.Equal(t, "low", rec.OutputFields["complexity"])
	// List fields: union, de-duplicated case-insensitively.
	assert.Equal(t, []string{"clean", "simple", "stark"}, rec.ListFields["keywords"])

	require.Len(t, conflicts, 3)
	byField := map[string]core.Conflict{}
	for _, c := range conflicts {
		byField[c.Field] = c
	}
	assert.Equal(t, core.ResolutionUsedBuiltin, byField["search_fields"].Resolution)
	assert.Equal(t, core.ResolutionUsedExternal, byField["description"].Resolution)
	assert.Equal(t, core.ResolutionMergedList, byField["keywords"].Resolution)
	assert.Equal(t, "minimal", byField["description"].RecordID)
	assert.Equal(t, "style", byField["description"].Domain)
}

func TestRecordsEqualValuesNoConflict(t *testing.T) {
	external := builtinMinimal()
	external.Origin = core.ExternalOrigin("styles.csv")

	merged, conflicts := Records([]core.Record{builtinMinimal()}, []core.Record{external})
	require.Len(t, merged, 1)
	assert.Empty(t, conflicts, "identical values must not report conflicts")
}

func TestRecordsAppendsNewExternal(t *testing.T) {
	external := core.Record{
		ID:           "neo-brutalism",
		Domain:       "style",
		SearchFields: []string{"Neo-Brutalism", "raw concrete bold"},
		Origin:       core.ExternalOrigin("styles.csv"),
	}

	merged, conflicts := Records([]core.Record{builtinMinimal()}, []core.Record{external})
	require.Len(t, merged, 2)
	assert.Empty(t, conflicts)

	appended := merged[1]
	assert.Equal(t, "neo-brutalism", appended.ID)
	assert.Equal(t, DefaultExternalBoost, appended.PriorityBoost)
}

func TestRecordsKeepsExplicitBoost(t *testing.T) {
	external := core.Record{
		ID:            "custom",
		Domain:        "style",
		SearchFields:  []string{"Custom"},
		Origin:        core.ExternalOrigin("styles.csv"),
		PriorityBoost: 0.8,
	}

	merged, _ := Records(nil, []core.Record{external})
	require.Len(t, merged, 1)
	assert.Equal(t, 0.8, merged[0].PriorityBoost)
}

func TestRecordsCaseInsensitiveIDs(t *testing.T) {
	external := core.Record{
		ID:           "MINIMAL",
		Domain:       "style",
		SearchFields: []string{"Minimal"},
		OutputFields: map[string]string{"description": "override"},
		Origin:       core.ExternalOrigin("styles.csv"),
	}

	merged, conflicts := Records([]core.Record{builtinMinimal()}, []core.Record{external})
	require.Len(t, merged, 1, "IDs differing only in case must collide")
	assert.Equal(t, "override", merged[0].OutputFields["description"])
	require.Len(t, conflicts, 2)
}

func TestRecordsIdempotent(t *testing.T) {
	builtin := []core.Record{builtinMinimal()}
	external := []core.Record{{
		ID:           "minimal",
		Domain:       "style",
		SearchFields: []string{"Minimal", "different"},
		OutputFields: map[string]string{"description": "changed"},
		Origin:       core.ExternalOrigin("styles.csv"),
	}}

	first, firstConflicts := Records(builtin, external)
	second, secondConflicts := Records(builtin, external)

	assert.Equal(t, first, second)
	assert.Equal(t, firstConflicts, secondConflicts)
}

func TestRecordsInputsUntouched(t *testing.T) {
	builtin := []core.Record{builtinMinimal()}
	external := []core.Record{{
		ID:           "minimal",
		Domain:       "style",
		SearchFields: []string{"Minimal"},
		OutputFields: map[string]string{"description": "changed"},
		Origin:       core.ExternalOrigin("styles.csv"),
	}}

	Records(builtin, external)

	assert.Equal(t, "Less is more", builtin[0].OutputFields["description"],
		"merge must not mutate its inputs")
}
