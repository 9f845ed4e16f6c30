package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/forage/ai"
	"github.com/calyptra/forage/ai/mock"
	"github.com/calyptra/forage/core"
	"github.com/calyptra/forage/ingest"
	"github.com/calyptra/forage/rag"
	"github.com/calyptra/forage/storage"
	"github.com/calyptra/forage/storage/badger"
)

type memConfigStore struct {
	cfg *core.LLMConfig
}

func (m *memConfigStore) LLMConfig(ctx context.Context) (*core.LLMConfig, error) {
	return m.cfg, nil
}

func (m *memConfigStore) UpdateLLMConfig(ctx context.Context, update *core.LLMConfig) (*core.LLMConfig, error) {
	m.cfg.Merge(update)
	return m.cfg, nil
}

type testStack struct {
	handler    http.Handler
	coord      *ingest.Coordinator
	orch       *rag.Orchestrator
	recordRepo storage.RecordRepository
	embedder   *mock.MockEmbedder
	generator  *mock.MockGenerator
}

func newTestStack(t *testing.T, responses ...string) *testStack {
	t.Helper()

	recordRepo, artifactRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder := mock.NewMockEmbedder()
	generator := mock.NewMockGenerator(responses...)
	provider := mock.NewMockProviderWithServices(embedder, generator)

	coord, err := ingest.NewCoordinator(recordRepo, artifactRepo, provider)
	require.NoError(t, err)
	t.Cleanup(coord.Release)

	orch, err := rag.NewOrchestrator(recordRepo, provider)
	require.NoError(t, err)

	srv := NewServer(coord, orch, &memConfigStore{cfg: core.DefaultLLMConfig()},
		WithUploadDir(t.TempDir()))
	return &testStack{
		handler:    srv.Handler(),
		coord:      coord,
		orch:       orch,
		recordRepo: recordRepo,
		embedder:   embedder,
		generator:  generator,
	}
}

func (ts *testStack) addRecord(t *testing.T, contents string, meta map[string]string) {
	t.Helper()
	vector, err := ts.embedder.EmbedText(context.Background(), contents)
	require.NoError(t, err)
	_, err = ts.recordRepo.AddRecords(context.Background(), &core.Record{
		ArtifactPath: "/cases/host1/events.jsonl",
		Contents:     contents,
		Metadata:     meta,
		Timestamp:    time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		Vector:       vector,
	})
	require.NoError(t, err)
}

func (ts *testStack) do(t *testing.T, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func TestUploadProgressArtifacts(t *testing.T) {
	ts := newTestStack(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("files", "auth.log")
	require.NoError(t, err)
	_, err = part.Write([]byte(
		"2024-01-15 10:00:00 session opened for user root\n" +
			"2024-01-15 10:00:05 authentication failure from 10.0.0.1\n" +
			"2024-01-15 10:01:30 session closed for user root\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response": "OK"}`, rec.Body.String())

	ts.coord.Wait()

	rec = ts.do(t, http.MethodGet, "/progress", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var progress struct {
		Response map[string]struct {
			Status    string `json:"status"`
			ItemCount int    `json:"item_count"`
		} `json:"response"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &progress))
	require.Len(t, progress.Response, 1)
	for _, entry := range progress.Response {
		assert.Equal(t, "done", entry.Status)
		assert.Equal(t, 3, entry.ItemCount)
	}

	rec = ts.do(t, http.MethodGet, "/artifacts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var artifacts struct {
		Response []struct {
			Filepath  string `json:"filepath"`
			FileSz    int64  `json:"file_sz"`
			FileType  string `json:"file_type"`
			ItemCount int    `json:"item_count"`
		} `json:"response"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &artifacts))
	require.Len(t, artifacts.Response, 1)
	assert.True(t, strings.HasSuffix(artifacts.Response[0].Filepath, "auth.log"))
	assert.Equal(t, "Text Log File", artifacts.Response[0].FileType)
	assert.Equal(t, 3, artifacts.Response[0].ItemCount)
	assert.Greater(t, artifacts.Response[0].FileSz, int64(0))
}

func TestUploadRejectsEmptyForm(t *testing.T) {
	ts := newTestStack(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryLifecycle(t *testing.T) {
	ts := newTestStack(t,
		`{}`,
		"Evidence of the zz_beacon.dll implant being staged and executed on the host over the incident window.",
		`["zz_beacon.dll", "evil_stage2.ps1"]`,
		`["zz_beacon.dll"]`,
		"The implant zz_beacon.dll was executed at 10:00 on the compromised host.",
	)
	ts.addRecord(t, "process started zz_beacon.dll", nil)

	// Idle before any job.
	rec := ts.do(t, http.MethodPost, "/query", `{"query_type": "rag_query_status"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var status statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "Idle", status.Status)
	assert.Empty(t, status.ID)

	// Admit a job.
	rec = ts.do(t, http.MethodPost, "/query",
		`{"query_type": "new_rag_query", "query_list": [["user", "was a beacon implant run?"]]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var accepted struct {
		Response string `json:"response"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	require.NotEmpty(t, accepted.Response)
	require.NotEqual(t, "BUSY", accepted.Response)

	// Poll until terminal, concatenating msg deltas.
	var answer strings.Builder
	require.Eventually(t, func() bool {
		rec := ts.do(t, http.MethodPost, "/query", `{"query_type": "rag_query_status"}`)
		var s statusResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
			return false
		}
		answer.WriteString(s.Msg)
		return s.Status == "Done"
	}, 10*time.Second, time.Millisecond)

	assert.Equal(t, "The implant zz_beacon.dll was executed at 10:00 on the compromised host.", answer.String())

	// Cancel on a terminal job acknowledges without effect.
	rec = ts.do(t, http.MethodPost, "/query", `{"query_type": "cancel_rag_query"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response": "OK"}`, rec.Body.String())
}

func TestQueryBusy(t *testing.T) {
	release := make(chan struct{})
	ts := newTestStack(t)
	ts.generator.GenerateFunc = func(ctx context.Context, msgs []ai.Message) (string, error) {
		<-release
		return "{}", nil
	}

	rec := ts.do(t, http.MethodPost, "/query",
		`{"query_type": "new_rag_query", "query_list": [["user", "first question"]]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/query",
		`{"query_type": "new_rag_query", "query_list": [["user", "second question"]]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response": "BUSY"}`, rec.Body.String())

	close(release)
	require.Eventually(t, func() bool {
		job := ts.orch.Job()
		return job != nil && job.Status().Terminal()
	}, 10*time.Second, time.Millisecond)
}

func TestQueryUnknownType(t *testing.T) {
	ts := newTestStack(t)
	rec := ts.do(t, http.MethodPost, "/query", `{"query_type": "bogus"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDataQuery(t *testing.T) {
	ts := newTestStack(t)
	ts.addRecord(t, "service installed remote admin tool", map[string]string{"event_id": "7045"})

	rec := ts.do(t, http.MethodPost, "/data_query",
		`{"query_string": "remote admin tool", "n_results": 10}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var hits []dataHit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hits))
	require.Len(t, hits, 1)
	assert.Contains(t, hits[0].Event, "service installed")
	assert.Equal(t, "7045", hits[0].Meta["event_id"])
}

func TestDataQueryConditions(t *testing.T) {
	ts := newTestStack(t)
	ts.addRecord(t, "suspicious powershell invocation", nil)

	// The record's timestamp (2024-01-15) is outside the requested window.
	rec := ts.do(t, http.MethodPost, "/data_query",
		`{"query_string": "powershell", "condition_dict": {"start": "2025-01-01T00:00:00Z", "end": "2025-02-01T00:00:00Z"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var hits []dataHit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hits))
	assert.Empty(t, hits)

	rec = ts.do(t, http.MethodPost, "/data_query",
		`{"query_string": "powershell", "condition_dict": {"contains": ["powershell"]}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hits))
	assert.Len(t, hits, 1)
}

func TestConfigRoundTrip(t *testing.T) {
	ts := newTestStack(t)

	rec := ts.do(t, http.MethodGet, "/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cfg core.LLMConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.NotEmpty(t, cfg.APIURL)

	rec = ts.do(t, http.MethodPost, "/config", `{"model": "qwen2.5:14b", "temperature": 0.3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, "qwen2.5:14b", cfg.Model)
	assert.InDelta(t, 0.3, cfg.Temperature, 1e-9)
}

func TestDeleteDB(t *testing.T) {
	ts := newTestStack(t)
	ts.addRecord(t, "some evidence line", nil)

	rec := ts.do(t, http.MethodGet, "/delete_db", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response": "OK"}`, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/data_query", `{"query_string": "some evidence line"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var hits []dataHit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hits))
	assert.Empty(t, hits)
}
