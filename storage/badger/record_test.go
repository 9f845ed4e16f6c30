package badger

import (
	"context"
	"testing"
	"time"

	"github.com/calyptra/forage/core"
	"github.com/calyptra/forage/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRecords_AssignsIDs(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer recordRepo.Close()

	ctx := context.Background()
	stored, err := recordRepo.AddRecords(ctx,
		&core.Record{ArtifactPath: "upload/system.evtx", Contents: "4688 process creation"},
		&core.Record{ArtifactPath: "upload/system.evtx", Contents: "4624 logon type 3"},
	)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	for _, rec := range stored {
		assert.NotZero(t, rec.Id)
		assert.False(t, rec.InsertedAt.IsZero())
	}
	assert.NotEqual(t, stored[0].Id, stored[1].Id)
}

func TestAddRecords_KeepsExplicitID(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer recordRepo.Close()

	ctx := context.Background()
	id := core.IDFromContent("upload/mft.bin:entry-42")
	stored, err := recordRepo.AddRecords(ctx, &core.Record{
		Id:           id,
		ArtifactPath: "upload/mft.bin",
		Contents:     "\\Temp\\payload.exe created",
	})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, id, stored[0].Id)
}

func TestAddRecords_RejectsInvalid(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer recordRepo.Close()

	_, err = recordRepo.AddRecords(context.Background(), &core.Record{
		ArtifactPath: "upload/system.evtx",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmptyContent)
}

func TestGetRecord(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer recordRepo.Close()

	ctx := context.Background()
	stored, err := recordRepo.AddRecords(ctx, &core.Record{
		ArtifactPath: "upload/system.evtx",
		Contents:     "7045 service installed",
		Metadata:     map[string]string{"channel": "System"},
	})
	require.NoError(t, err)

	got, err := recordRepo.GetRecord(ctx, stored[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "7045 service installed", got.Contents)
	assert.Equal(t, "System", got.Metadata["channel"])
}

func TestGetRecord_TimestampsReadBackUTC(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer recordRepo.Close()

	ctx := context.Background()
	ts := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	stored, err := recordRepo.AddRecords(ctx, &core.Record{
		ArtifactPath: "upload/events.jsonl",
		Contents:     "process_start powershell.exe",
		Timestamp:    ts,
	})
	require.NoError(t, err)

	got, err := recordRepo.GetRecord(ctx, stored[0].Id)
	require.NoError(t, err)
	assert.Equal(t, ts, got.Timestamp)
	assert.Equal(t, time.UTC, got.Timestamp.Location())
	assert.Equal(t, time.UTC, got.InsertedAt.Location())
}

func TestGetRecord_NotFound(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer recordRepo.Close()

	_, err = recordRepo.GetRecord(context.Background(), core.ID(999999))
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetRecords_SkipsMissing(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer recordRepo.Close()

	ctx := context.Background()
	stored, err := recordRepo.AddRecords(ctx,
		&core.Record{ArtifactPath: "a", Contents: "first"},
		&core.Record{ArtifactPath: "a", Contents: "second"},
	)
	require.NoError(t, err)

	got, err := recordRepo.GetRecords(ctx, stored[0].Id, core.ID(424242), stored[1].Id)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestGetRecordsByDateRange(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer recordRepo.Close()

	ctx := context.Background()
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	_, err = recordRepo.AddRecords(ctx,
		&core.Record{ArtifactPath: "a", Contents: "day one", Timestamp: base},
		&core.Record{ArtifactPath: "a", Contents: "day two", Timestamp: base.Add(24 * time.Hour)},
		&core.Record{ArtifactPath: "a", Contents: "day three", Timestamp: base.Add(48 * time.Hour)},
		&core.Record{ArtifactPath: "a", Contents: "undated"},
	)
	require.NoError(t, err)

	got, err := recordRepo.GetRecordsByDateRange(ctx, base, base.Add(36*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by timestamp ascending
	assert.Equal(t, "day one", got[0].Contents)
	assert.Equal(t, "day two", got[1].Contents)
}

func TestCountRecords(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer recordRepo.Close()

	ctx := context.Background()
	count, err := recordRepo.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = recordRepo.AddRecords(ctx,
		&core.Record{ArtifactPath: "a", Contents: "one"},
		&core.Record{ArtifactPath: "a", Contents: "two"},
		&core.Record{ArtifactPath: "a", Contents: "three"},
	)
	require.NoError(t, err)

	count, err = recordRepo.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestDeleteAllRecords(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer recordRepo.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	_, err = recordRepo.AddRecords(ctx,
		&core.Record{ArtifactPath: "a", Contents: "one", Timestamp: now},
		&core.Record{ArtifactPath: "a", Contents: "two", Timestamp: now},
	)
	require.NoError(t, err)

	require.NoError(t, recordRepo.DeleteAllRecords(ctx))

	count, err := recordRepo.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	byDate, err := recordRepo.GetRecordsByDateRange(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, byDate)
}
