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


package core

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsHexColor reports whether s is a 6-digit hex color like "#1A73E8".
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// ValidateRecord validates a Record according to the store contract.
//
// Validation rules:
//   - ID and Domain must not be empty
//   - at least one search field must carry text
//
// OutputFields and ListFields may be empty; they are display-only.
func ValidateRecord(r *Record) error {
	if r == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: id is empty", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.Domain) == "" {
		return fmt.Errorf("%w: domain is empty", ErrInvalidRecord)
	}
	for _, f := range r.SearchFields {
		if strings.TrimSpace(f) != "" {
			return nil
		}
	}
	return fmt.Errorf("%w: no search fields", ErrInvalidRecord)
}

// TruncateField caps s at limit bytes without splitting a multi-byte
// rune: the cut backs up to the nearest rune boundary, so the result is
// always valid UTF-8 when the input is.
func TruncateField(s string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// ValidateBrandProfile validates a BrandProfile. Every color value must be
// a 6-digit hex string, and a style may not be both preferred and avoided.
// Absent sections are valid; defaults cover them.
func ValidateBrandProfile(p *BrandProfile) error {
	if p == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidBrandProfile)
	}
	for role, value := range p.Colors {
		if !IsHexColor(value) {
			return fmt.Errorf("%w: color %q is not a 6-digit hex value: %q", ErrInvalidBrandProfile, role, value)
		}
	}
	avoided := make(map[string]bool, len(p.StylePreferences.Avoided))
	for _, s := range p.StylePreferences.Avoided {
		avoided[strings.ToLower(s)] = true
	}
	for _, s := range p.StylePreferences.Preferred {
		if avoided[strings.ToLower(s)] {
			return fmt.Errorf("%w: style %q is both preferred and avoided", ErrInvalidBrandProfile, s)
		}
	}
	return nil
}
