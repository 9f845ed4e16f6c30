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


package storage

import (
	"github.com/calyptra/forage/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	var id core.ID
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalRecord serializes a Record to bytes.
func MarshalRecord(record *core.Record) []byte {
	buf := make([]byte, core.RecordMUS.Size(*record))
	core.RecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalRecord deserializes a Record from bytes. Timestamps come back in
// the local zone from the wire format and are normalized to UTC.
func UnmarshalRecord(data []byte) (*core.Record, error) {
	record, _, err := core.RecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	record.Timestamp = record.Timestamp.UTC()
	record.InsertedAt = record.InsertedAt.UTC()
	return &record, nil
}

// MarshalArtifactFile serializes an ArtifactFile to bytes.
func MarshalArtifactFile(file *core.ArtifactFile) []byte {
	buf := make([]byte, core.ArtifactFileMUS.Size(*file))
	core.ArtifactFileMUS.Marshal(*file, buf)
	return buf
}

// UnmarshalArtifactFile deserializes an ArtifactFile from bytes.
func UnmarshalArtifactFile(data []byte) (*core.ArtifactFile, error) {
	file, _, err := core.ArtifactFileMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	file.EnteredAt = file.EnteredAt.UTC()
	file.UpdatedAt = file.UpdatedAt.UTC()
	return &file, nil
}
