package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cloudwego/eino/compose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairArguments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "valid", input: `{"query":"aphid"}`, want: `{"query":"aphid"}`},
		{name: "empty", input: "  ", want: `{}`},
		{name: "code fence", input: "```json\n{\"query\":\"aphid\"}\n```", want: `{"query":"aphid"}`},
		{name: "surrounding text", input: `Action Input: {"query":"aphid"} done`, want: `{"query":"aphid"}`},
		{name: "trailing comma", input: `{"query":"aphid",}`, want: `{"query":"aphid"}`},
		{name: "missing brace", input: `{"query":"aphid"`, want: `{"query":"aphid"}`},
		{name: "single quotes", input: `{'query': 'aphid'}`, want: `{"query":"aphid"}`},
		{name: "plain query", input: `tomato blight`, want: `{"query":"tomato blight"}`},
		{name: "quoted plain query", input: `"tomato blight"`, want: `{"query":"tomato blight"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairArguments(tt.input)
			require.True(t, json.Valid([]byte(got)), got)
			assert.JSONEq(t, tt.want, got)
		})
	}
}

func TestObservationMiddleware(t *testing.T) {
	mw := NewObservationMiddleware(nil)
	in := &compose.ToolInput{Name: "wikipedia", Arguments: `{"query":"x"}`}

	t.Run("passes success through", func(t *testing.T) {
		ep := mw.Invokable(func(ctx context.Context, in *compose.ToolInput) (*compose.ToolOutput, error) {
			return &compose.ToolOutput{Result: "fine"}, nil
		})
		out, err := ep(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "fine", out.Result)
	})

	t.Run("converts error", func(t *testing.T) {
		ep := mw.Invokable(func(ctx context.Context, in *compose.ToolInput) (*compose.ToolOutput, error) {
			return nil, errors.New("page not found")
		})
		out, err := ep(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "Tool 'wikipedia' failed: page not found. Try a different query or answer from what you already know.", out.Result)
	})

	t.Run("custom observation", func(t *testing.T) {
		custom := NewObservationMiddleware(func(ctx context.Context, in *compose.ToolInput, err error) string {
			return "custom: " + err.Error()
		})
		ep := custom.Invokable(func(ctx context.Context, in *compose.ToolInput) (*compose.ToolOutput, error) {
			return nil, errors.New("boom")
		})
		out, err := ep(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "custom: boom", out.Result)
	})

	t.Run("stream error", func(t *testing.T) {
		ep := mw.Streamable(func(ctx context.Context, in *compose.ToolInput) (*compose.StreamToolOutput, error) {
			return nil, errors.New("timeout")
		})
		out, err := ep(context.Background(), in)
		require.NoError(t, err)
		chunk, err := out.Result.Recv()
		require.NoError(t, err)
		assert.Contains(t, chunk, "timeout")
	})
}

func TestArgumentRepairMiddleware(t *testing.T) {
	mw := NewArgumentRepairMiddleware()
	var seen string
	ep := mw.Invokable(func(ctx context.Context, in *compose.ToolInput) (*compose.ToolOutput, error) {
		seen = in.Arguments
		return &compose.ToolOutput{Result: "ok"}, nil
	})

	_, err := ep(context.Background(), &compose.ToolInput{Name: "arxiv", Arguments: `{"query":"soil",}`})
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"soil"}`, seen)
}
