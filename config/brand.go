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
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/poiesic/designkit/core"
)

// brandFile is the on-disk shape of brand.json. Nested neutral and
// semantic palettes flatten into the profile's single role map
// ("neutral.light" becomes role "neutral-light").
type brandFile struct {
	Colors struct {
		Primary    string            `json:"primary"`
		Secondary  string            `json:"secondary"`
		Accent     string            `json:"accent"`
		CTA        string            `json:"cta"`
		Background string            `json:"background"`
		Text       string            `json:"text"`
		Neutral    map[string]string `json:"neutral"`
		Semantic   map[string]string `json:"semantic"`
	} `json:"colors"`
	Typography struct {
		Fonts map[string]struct {
			Name      string   `json:"name"`
			Fallbacks []string `json:"fallbacks"`
		} `json:"fonts"`
		ScaleRatio float64 `json:"scale_ratio"`
	} `json:"typography"`
	StylePreferences struct {
		Preferred  []string `json:"preferred_styles"`
		Avoided    []string `json:"avoided_styles"`
		Philosophy string   `json:"design_philosophy"`
	} `json:"style_preferences"`
}

// parseBrand reads a brand profile. A missing file disables brand
// processing silently; a present but broken file yields validation
// errors and no profile. Roles with invalid hex values are dropped
// individually, never the whole profile.
func parseBrand(path string) (*core.BrandProfile, []core.ValidationError) {
	file := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []core.ValidationError{{File: file, Message: err.Error()}}
	}

	var raw brandFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, []core.ValidationError{{File: file, Message: "invalid json: " + err.Error()}}
	}

	profile := &core.BrandProfile{Colors: map[string]string{}}
	var errs []core.ValidationError
	addColor := func(role, hex string) {
		if hex == "" {
			return
		}
		if !core.IsHexColor(hex) {
			errs = append(errs, core.ValidationError{
				File:    file,
				Field:   role,
				Message: "invalid hex color " + hex + ", role dropped",
			})
			return
		}
		profile.Colors[role] = hex
	}

	addColor("primary", raw.Colors.Primary)
	addColor("secondary", raw.Colors.Secondary)
	addColor("accent", raw.Colors.Accent)
	addColor("cta", raw.Colors.CTA)
	addColor("background", raw.Colors.Background)
	addColor("text", raw.Colors.Text)
	for shade, hex := range raw.Colors.Neutral {
		addColor("neutral-"+shade, hex)
	}
	for role, hex := range raw.Colors.Semantic {
		addColor(role, hex)
	}

	if len(raw.Typography.Fonts) > 0 {
		profile.Typography.Fonts = make(map[string]core.Font, len(raw.Typography.Fonts))
		for role, f := range raw.Typography.Fonts {
			if f.Name == "" {
				errs = append(errs, core.ValidationError{
					File:    file,
					Field:   role,
					Message: "font without a name, role dropped",
				})
				continue
			}
			profile.Typography.Fonts[role] = core.Font{Name: f.Name, Fallbacks: f.Fallbacks}
		}
	}
	profile.Typography.ScaleRatio = raw.Typography.ScaleRatio

	profile.StylePreferences = core.StylePreferences{
		Preferred:  raw.StylePreferences.Preferred,
		Avoided:    raw.StylePreferences.Avoided,
		Philosophy: raw.StylePreferences.Philosophy,
	}

	if err := core.ValidateBrandProfile(profile); err != nil {
		errs = append(errs, core.ValidationError{File: file, Message: err.Error()})
		return nil, errs
	}
	return profile, errs
}
