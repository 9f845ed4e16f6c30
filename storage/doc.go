// Copyright 2025 Calyptra
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


// Package storage provides the storage abstraction layer for forage.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic. It allows for different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// The evidence record store is append-only: records are written once by the
// ingestion pipeline and never mutated, only deleted wholesale when the
// corpus is cleared. The artifact file table tracks one entry per uploaded
// file and is mutated as ingestion advances.
//
// # Architecture
//
//   - Repository: common operations (similarity search, transactions)
//   - RecordRepository: append-only evidence records with a date index
//   - ArtifactRepository: the artifact file table
//   - ConfigRepository: persisted LLM endpoint configuration
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines; record appends are atomic
// per batch so readers never observe a partial record.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support.
package storage
