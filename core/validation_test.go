package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateRecord(t *testing.T) {
	validTime := time.Now().Add(-1 * time.Hour)
	futureTime := time.Now().Add(1 * time.Hour)

	tests := []struct {
		name    string
		record  *Record
		wantErr error
	}{
		{
			name: "valid record",
			record: &Record{
				Id:           1,
				ArtifactPath: "upload/system.evtx",
				Contents:     "4624 - An account was successfully logged on",
				Timestamp:    validTime,
			},
			wantErr: nil,
		},
		{
			name: "valid record with empty vector",
			record: &Record{
				Id:           1,
				ArtifactPath: "upload/mft.bin",
				Contents:     "\\Users\\admin\\AppData\\Roaming\\payload.exe",
				Timestamp:    validTime,
				Vector:       nil,
			},
			wantErr: nil,
		},
		{
			name: "valid record without timestamp",
			record: &Record{
				Id:           2,
				ArtifactPath: "upload/report.txt",
				Contents:     "executive summary of the incident",
			},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidRecord,
		},
		{
			name: "empty contents",
			record: &Record{
				Id:           1,
				ArtifactPath: "upload/system.evtx",
				Contents:     "",
				Timestamp:    validTime,
			},
			wantErr: ErrEmptyContent,
		},
		{
			name: "empty artifact path",
			record: &Record{
				Id:        1,
				Contents:  "orphaned event",
				Timestamp: validTime,
			},
			wantErr: ErrEmptyArtifactPath,
		},
		{
			name: "future timestamp",
			record: &Record{
				Id:           1,
				ArtifactPath: "upload/system.evtx",
				Contents:     "event from the future",
				Timestamp:    futureTime,
			},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRecord() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateArtifactFile(t *testing.T) {
	tests := []struct {
		name    string
		file    *ArtifactFile
		wantErr error
	}{
		{
			name: "valid file",
			file: &ArtifactFile{
				Path:   "upload/system.evtx",
				Size:   4096,
				Status: StatusQueued,
			},
			wantErr: nil,
		},
		{
			name: "valid error file",
			file: &ArtifactFile{
				Path:      "upload/corrupt.bin",
				Status:    StatusError,
				ErrDetail: "no parser matched",
			},
			wantErr: nil,
		},
		{
			name:    "nil file",
			file:    nil,
			wantErr: ErrInvalidArtifactFile,
		},
		{
			name: "empty path",
			file: &ArtifactFile{
				Status: StatusQueued,
			},
			wantErr: ErrEmptyArtifactPath,
		},
		{
			name: "zero status",
			file: &ArtifactFile{
				Path: "upload/system.evtx",
			},
			wantErr: ErrInvalidIngestStatus,
		},
		{
			name: "out of range status",
			file: &ArtifactFile{
				Path:   "upload/system.evtx",
				Status: IngestStatus(42),
			},
			wantErr: ErrInvalidIngestStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArtifactFile(tt.file)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateArtifactFile() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateArtifactFile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsValidTimestamp(t *testing.T) {
	if !IsValidTimestamp(time.Now().Add(-time.Minute)) {
		t.Error("past timestamp should be valid")
	}
	if IsValidTimestamp(time.Now().Add(time.Minute)) {
		t.Error("future timestamp should be invalid")
	}
}
