package ioc

import (
	"context"
	"testing"

	"github.com/calyptra/forage/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTactics_Complete(t *testing.T) {
	all := Tactics()
	require.Len(t, all, 11)

	seen := map[string]bool{}
	for _, tactic := range all {
		assert.NotEmpty(t, tactic.ID)
		assert.NotEmpty(t, tactic.Name)
		assert.NotEmpty(t, tactic.Description)
		assert.NotEmpty(t, tactic.Strings)
		assert.False(t, seen[tactic.ID], "duplicate tactic %s", tactic.ID)
		seen[tactic.ID] = true
	}

	for _, id := range []string{"TA0001", "TA0008", "TA0011"} {
		assert.True(t, seen[id])
	}
}

func TestByID(t *testing.T) {
	tactic, ok := ByID("TA0008")
	require.True(t, ok)
	assert.Equal(t, "Lateral Movement", tactic.Name)
	assert.Contains(t, tactic.Strings, "psexec.exe")

	_, ok = ByID("TA9999")
	assert.False(t, ok)
}

func TestStringsFor(t *testing.T) {
	assert.Contains(t, StringsFor("TA0006"), "mimikatz")
	assert.Empty(t, StringsFor("unknown"))
}

func TestCorpusMatch(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	corpus, err := NewCorpus(embedder)
	require.NoError(t, err)

	ctx := context.Background()
	vec, err := embedder.EmbedText(ctx, "lateral movement with psexec")
	require.NoError(t, err)

	matched, err := corpus.Match(ctx, vec, 3)
	require.NoError(t, err)
	assert.Len(t, matched, 3)

	// Tactic embeddings computed once and reused
	callsAfterFirst := embedder.CallCount()
	_, err = corpus.Match(ctx, vec, 3)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, embedder.CallCount())
}

func TestCorpusSeedStrings(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	corpus, err := NewCorpus(embedder)
	require.NoError(t, err)

	ctx := context.Background()
	vec, err := embedder.EmbedText(ctx, "credential theft from lsass")
	require.NoError(t, err)

	seeds, err := corpus.SeedStrings(ctx, vec, 2)
	require.NoError(t, err)
	assert.NotEmpty(t, seeds)
}

func TestCorpusMatch_EmptyInputs(t *testing.T) {
	corpus, err := NewCorpus(mock.NewMockEmbedder())
	require.NoError(t, err)

	matched, err := corpus.Match(context.Background(), nil, 3)
	require.NoError(t, err)
	assert.Empty(t, matched)

	matched, err = corpus.Match(context.Background(), []float32{1}, 0)
	require.NoError(t, err)
	assert.Empty(t, matched)
}
