package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/calyptra/forage/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGenerator_ScriptedResponses(t *testing.T) {
	gen := NewMockGenerator("first", "second")
	ctx := context.Background()

	out, err := gen.Generate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "first", out)

	out, err = gen.Generate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "second", out)

	// Last response repeats once the script runs out
	out, err = gen.Generate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "second", out)

	assert.Equal(t, 3, gen.CallCount())
}

func TestMockGenerator_StreamConcatenation(t *testing.T) {
	response := "lateral movement via psexec\nobserved on host alpha"
	gen := NewMockGenerator(response)

	var streamed string
	out, err := gen.GenerateStream(context.Background(), nil, func(token string) error {
		streamed += token
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, response, out)
	assert.Equal(t, response, streamed)
}

func TestMockGenerator_StreamAbort(t *testing.T) {
	gen := NewMockGenerator("one two three four")
	abort := errors.New("stop")

	calls := 0
	out, err := gen.GenerateStream(context.Background(), nil, func(token string) error {
		calls++
		if calls == 2 {
			return abort
		}
		return nil
	})
	require.ErrorIs(t, err, abort)
	assert.Equal(t, "one two ", out)
}

func TestMockGenerator_ErrorInjection(t *testing.T) {
	gen := NewMockGenerator("unused")
	gen.Err = errors.New("model offline")

	_, err := gen.Generate(context.Background(), []ai.Message{{Role: ai.RoleUser, Content: "q"}})
	require.Error(t, err)
}
