package classifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrModelUnavailable 模型无法加载
var ErrModelUnavailable = errors.New("classification model unavailable")

// Inferencer 单次前向推理
type Inferencer interface {
	// Infer 输入 NHWC float32 张量，返回各类别得分
	Infer(ctx context.Context, input []float32) ([]float32, error)
}

// Loader 加载模型
type Loader func(ctx context.Context) (Inferencer, error)

// ModelHandle 延迟加载的模型句柄
// 第一次 Get 时加载，成功后不再重新加载，失败时下次调用会重试
type ModelHandle struct {
	mu     sync.Mutex
	loader Loader
	model  Inferencer
}

// NewModelHandle 创建模型句柄
func NewModelHandle(loader Loader) *ModelHandle {
	return &ModelHandle{loader: loader}
}

// NewStaticHandle 用已加载的模型创建句柄
func NewStaticHandle(m Inferencer) *ModelHandle {
	return &ModelHandle{model: m}
}

// Get 获取模型，必要时加载
func (h *ModelHandle) Get(ctx context.Context) (Inferencer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.model != nil {
		return h.model, nil
	}
	if h.loader == nil {
		return nil, ErrModelUnavailable
	}

	m, err := h.loader(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	h.model = m
	return m, nil
}

// Loaded 模型是否已加载
func (h *ModelHandle) Loaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.model != nil
}

// Close 释放模型资源
func (h *ModelHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.model.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
