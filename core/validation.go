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


package core

import (
	"fmt"
	"time"
)

// ValidateRecord validates a Record according to domain rules.
//
// Validation rules:
//   - Contents must not be empty
//   - ArtifactPath must not be empty
//   - Timestamp, when set, must not be in the future
//
// NOT validated (populated by the ingestion pipeline):
//   - Vector (can be empty until the embedding stage runs)
//   - ID (0 is valid from database sequences)
func ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.Contents == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyContent)
	}

	if record.ArtifactPath == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyArtifactPath)
	}

	if record.HasTimestamp() && !IsValidTimestamp(record.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateArtifactFile validates an ArtifactFile according to domain rules.
//
// Validation rules:
//   - Path must not be empty
//   - Status must be a known IngestStatus
//
// NOT validated (populated as ingestion advances):
//   - Hashes and FileType (set when the file is first read)
//   - ItemCount (grows incrementally)
func ValidateArtifactFile(file *ArtifactFile) error {
	if file == nil {
		return fmt.Errorf("%w: artifact file is nil", ErrInvalidArtifactFile)
	}

	if file.Path == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArtifactFile, ErrEmptyArtifactPath)
	}

	if err := ValidateIngestStatus(file.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArtifactFile, err)
	}

	return nil
}

// ValidateIngestStatus validates that an IngestStatus has a valid value.
func ValidateIngestStatus(status IngestStatus) error {
	if status < StatusQueued || status > StatusError {
		return fmt.Errorf("%w: value %d", ErrInvalidIngestStatus, status)
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
