package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name   string
		index  int
		want   string
		wantOK bool
	}{
		{name: "first", index: 0, want: "Apple___Apple_scab", wantOK: true},
		{name: "healthy tomato", index: 37, want: "Tomato___healthy", wantOK: true},
		{name: "negative", index: -1, wantOK: false},
		{name: "out of range", index: LabelCount, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Label(tt.index)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabelOrUnknown(t *testing.T) {
	assert.Equal(t, "Potato___Late_blight", LabelOrUnknown(21))
	assert.Equal(t, UnknownLabel, LabelOrUnknown(99))
}

func TestLabelMapIsBijection(t *testing.T) {
	all := Labels()
	require.Len(t, all, LabelCount)

	seen := make(map[string]bool, LabelCount)
	for i, name := range all {
		require.False(t, seen[name], "duplicate label %q", name)
		seen[name] = true

		idx, ok := LabelIndex(name)
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}
}

func TestLabelsReturnsCopy(t *testing.T) {
	all := Labels()
	all[0] = "mutated"

	got, _ := Label(0)
	assert.Equal(t, "Apple___Apple_scab", got)
}
