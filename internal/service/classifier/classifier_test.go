package classifier

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/ashwinyue/agri-assist/internal/model"
	"github.com/ashwinyue/agri-assist/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ========== Mock Inferencer ==========

type mockInferencer struct {
	scores    []float32
	err       error
	panicWith any
	lastInput []float32
	calls     int
}

func (m *mockInferencer) Infer(ctx context.Context, input []float32) ([]float32, error) {
	m.calls++
	m.lastInput = input
	if m.panicWith != nil {
		panic(m.panicWith)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.scores, nil
}

func oneHot(index int) []float32 {
	scores := make([]float32, model.LabelCount)
	scores[index] = 0.9
	return scores
}

func encodePNG(t *testing.T, img image.Image) *bytes.Reader {
	return bytes.NewReader(testutil.EncodePNG(t, img))
}

// ========== Classify 测试 ==========

func TestClassify_HealthyTomato(t *testing.T) {
	m := &mockInferencer{scores: oneHot(37)}
	c := New(NewStaticHandle(m))

	got := c.Classify(context.Background(), encodePNG(t, testutil.SolidImage(300, 200, color.RGBA{G: 200, A: 255})))

	assert.Equal(t, "Prediction: Tomato___healthy", got)
	assert.Equal(t, 1, m.calls)
	assert.Len(t, m.lastInput, InputSize*InputSize*Channels)
}

func TestClassify_JPEG(t *testing.T) {
	buf := bytes.NewReader(testutil.EncodeJPEG(t, testutil.SolidImage(64, 64, color.RGBA{R: 120, A: 255})))

	c := New(NewStaticHandle(&mockInferencer{scores: oneHot(21)}))
	got := c.Classify(context.Background(), buf)

	assert.Equal(t, "Prediction: Potato___Late_blight", got)
}

func TestClassify_NeverFails(t *testing.T) {
	valid := func() *bytes.Reader { return encodePNG(t, testutil.SolidImage(32, 32, color.White)) }

	tests := []struct {
		name       string
		handle     *ModelHandle
		input      func() *bytes.Reader
		wantPrefix string
		wantSubstr string
	}{
		{
			name:       "garbage bytes",
			handle:     NewStaticHandle(&mockInferencer{scores: oneHot(0)}),
			input:      func() *bytes.Reader { return bytes.NewReader([]byte("not an image")) },
			wantPrefix: errorPrefix,
			wantSubstr: "decode",
		},
		{
			name:       "inference error",
			handle:     NewStaticHandle(&mockInferencer{err: errors.New("runtime exploded")}),
			input:      valid,
			wantPrefix: errorPrefix,
			wantSubstr: "runtime exploded",
		},
		{
			name:       "runtime panic",
			handle:     NewStaticHandle(&mockInferencer{panicWith: "bad shape"}),
			input:      valid,
			wantPrefix: errorPrefix,
			wantSubstr: "bad shape",
		},
		{
			name:       "empty scores",
			handle:     NewStaticHandle(&mockInferencer{scores: []float32{}}),
			input:      valid,
			wantPrefix: errorPrefix,
		},
		{
			name:       "model unavailable",
			handle:     NewModelHandle(nil),
			input:      valid,
			wantPrefix: errorPrefix,
			wantSubstr: "unavailable",
		},
		{
			name:       "index outside label map",
			handle:     NewStaticHandle(&mockInferencer{scores: append(make([]float32, model.LabelCount), 5)}),
			input:      valid,
			wantPrefix: predictionPrefix,
			wantSubstr: model.UnknownLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.handle).Classify(context.Background(), tt.input())
			assert.True(t, strings.HasPrefix(got, tt.wantPrefix), "got %q", got)
			assert.Contains(t, got, tt.wantSubstr)
		})
	}
}

// ========== Argmax 测试 ==========

func TestArgmax(t *testing.T) {
	tests := []struct {
		name   string
		scores []float32
		want   int
	}{
		{name: "single", scores: []float32{0.1}, want: 0},
		{name: "last wins", scores: []float32{0.1, 0.2, 0.7}, want: 2},
		{name: "ties take lowest index", scores: []float32{0.2, 0.4, 0.4, 0.1}, want: 1},
		{name: "all equal", scores: []float32{0.5, 0.5, 0.5}, want: 0},
		{name: "negative", scores: []float32{-3, -1, -2}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Argmax(tt.scores))
		})
	}
}

// ========== Preprocess 测试 ==========

func TestPreprocess_ScalesToUnitRange(t *testing.T) {
	input, err := Preprocess(testutil.SolidImage(500, 400, color.RGBA{R: 255, G: 0, B: 51, A: 255}))
	require.NoError(t, err)
	require.Len(t, input, InputSize*InputSize*Channels)

	assert.InDelta(t, 1.0, input[0], 1e-6)
	assert.InDelta(t, 0.0, input[1], 1e-6)
	assert.InDelta(t, 0.2, input[2], 1e-6)
	for _, v := range input {
		require.GreaterOrEqual(t, v, float32(0))
		require.LessOrEqual(t, v, float32(1))
	}
}

func TestPreprocess_EmptyImage(t *testing.T) {
	_, err := Preprocess(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	assert.Error(t, err)

	_, err = Preprocess(nil)
	assert.Error(t, err)
}

// ========== ModelHandle 测试 ==========

func TestModelHandle_LoadsOnce(t *testing.T) {
	loads := 0
	m := &mockInferencer{scores: oneHot(3)}
	h := NewModelHandle(func(ctx context.Context) (Inferencer, error) {
		loads++
		return m, nil
	})

	assert.False(t, h.Loaded())
	for i := 0; i < 3; i++ {
		got, err := h.Get(context.Background())
		require.NoError(t, err)
		assert.Same(t, m, got)
	}
	assert.Equal(t, 1, loads)
	assert.True(t, h.Loaded())
}

func TestModelHandle_RetriesAfterFailure(t *testing.T) {
	attempts := 0
	h := NewModelHandle(func(ctx context.Context) (Inferencer, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("download failed")
		}
		return &mockInferencer{}, nil
	})

	_, err := h.Get(context.Background())
	assert.ErrorIs(t, err, ErrModelUnavailable)

	_, err = h.Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
}
