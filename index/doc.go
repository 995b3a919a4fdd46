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


// Package index builds per-domain term statistics over knowledge-base
// records and scores queries against them with BM25.
//
// A DomainIndex is an immutable snapshot: once built it is never mutated,
// so concurrent readers may share it freely. Rebuilds produce a new value
// that callers swap in atomically.
//
// Scoring guarantees:
//   - results are ordered by non-increasing score, ties broken by
//     priority boost descending, then record ID ascending
//   - a record whose ID or full search field equals the query verbatim
//     (case-insensitive) is placed ahead of all BM25-ordered results
//   - a record with zero term overlap scores exactly its priority boost
//     and reports TermMatches == 0, so callers can distinguish boosted
//     no-match records from lexical hits
package index
