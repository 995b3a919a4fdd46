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
	"errors"
	"fmt"
)

var (
	// ErrUnknownDomain indicates a query named a domain or stack that has no
	// contributing records. Fatal to that query only, never to the process.
	ErrUnknownDomain = errors.New("unknown domain")

	// ErrNoDomainConfigured indicates the domain routing table is empty.
	// This is a configuration bug, not a runtime condition.
	ErrNoDomainConfigured = errors.New("no domains configured")

	// ErrInvalidRecord indicates a Record failed shape validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrInvalidBrandProfile indicates a BrandProfile failed validation.
	ErrInvalidBrandProfile = errors.New("invalid brand profile")
)

// ValidationError is a non-fatal parse or validation failure scoped to one
// file (Row == 0) or one row of an external configuration source. Loads
// accumulate these and keep going.
type ValidationError struct {
	File    string
	Row     int
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	switch {
	case e.Row > 0 && e.Field != "":
		return fmt.Sprintf("%s: row %d: field %q: %s", e.File, e.Row, e.Field, e.Message)
	case e.Row > 0:
		return fmt.Sprintf("%s: row %d: %s", e.File, e.Row, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: field %q: %s", e.File, e.Field, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
}
