// Copyright 2025 The Docmill Authors
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


// Package storage provides the record repository abstraction for docmill.
//
// This package defines the repository interface that decouples storage
// implementation from the pipeline, together with the mus-format binary
// serializers for the record types. Different storage backends (BadgerDB,
// in-memory, etc.) can be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.RecordRepository interface to
// enforce abstraction and enable multiple storage backend implementations:
//
//	repo, err := badger.NewRecordRepository(backend)  // returns storage.RecordRepository
//
// This design decision prioritizes:
//   - Abstraction: Prevents accidental coupling to BadgerDB specifics
//   - Swappability: Easy to add alternative backends
//   - Testing: Consumers can use in-memory backends without modification
//
// # Data Layout
//
// Every record of a lineage tree is stored under its root document, so a
// document's full derivation history (analysis result, fragments, chunks)
// can be read back or deleted as a unit.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
