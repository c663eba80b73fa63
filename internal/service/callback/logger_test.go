package callback

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_OnError(t *testing.T) {
	log, hook := test.NewNullLogger()
	l := NewLogger(log, false)

	info := &callbacks.RunInfo{Name: "wikipedia", Type: "Wikipedia", Component: "Tool"}
	l.OnError(context.Background(), info, errors.New("timeout"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "wikipedia", entry.Data["name"])
	assert.Equal(t, "timeout", entry.Data[logrus.ErrorKey].(error).Error())
}

func TestLogger_DebugOnly(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	info := &callbacks.RunInfo{Name: "agent"}

	NewLogger(log, false).OnStart(context.Background(), info, "input")
	assert.Empty(t, hook.AllEntries())

	NewLogger(log, true).OnStart(context.Background(), info, "input")
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "input", hook.LastEntry().Data["input"])
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "model input",
			got:  summarizeInput(&model.CallbackInput{Messages: []*schema.Message{schema.UserMessage("a"), schema.UserMessage("b")}}),
			want: "2 messages",
		},
		{
			name: "tool input",
			got:  summarizeInput(&tool.CallbackInput{ArgumentsInJSON: `{"query":"maize"}`}),
			want: `{"query":"maize"}`,
		},
		{
			name: "model output",
			got:  summarizeOutput(&model.CallbackOutput{Message: schema.AssistantMessage("done", nil)}),
			want: "done",
		},
		{
			name: "tool output",
			got:  summarizeOutput(&tool.CallbackOutput{Response: "Maize is a cereal."}),
			want: "Maize is a cereal.",
		},
		{
			name: "nil",
			got:  summarizeOutput(nil),
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	long := strings.Repeat("x", 500)
	assert.Equal(t, maxLoggedChars+3, len(clip(long)))
}
