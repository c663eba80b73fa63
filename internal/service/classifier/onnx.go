package classifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/ashwinyue/agri-assist/internal/model"
	"github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"
)

// ONNXConfig ONNX 推理配置
type ONNXConfig struct {
	ModelPath     string
	InputName     string
	OutputName    string
	SharedLibrary string
}

// ArtifactFetcher 确保模型文件在本地可用
type ArtifactFetcher interface {
	Ensure(ctx context.Context, localPath, remote string) (string, error)
}

var ortInitOnce sync.Once
var ortInitErr error

func initRuntime(sharedLibrary string) error {
	ortInitOnce.Do(func() {
		if sharedLibrary != "" {
			ort.SetSharedLibraryPath(sharedLibrary)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// ONNXModel onnxruntime 推理会话
type ONNXModel struct {
	session     *ort.DynamicAdvancedSession
	outputShape ort.Shape
}

// NewONNXLoader 返回先下载再加载 ONNX 模型的 Loader
func NewONNXLoader(fetcher ArtifactFetcher, source string, cfg *ONNXConfig) Loader {
	return func(ctx context.Context) (Inferencer, error) {
		path, err := fetcher.Ensure(ctx, cfg.ModelPath, source)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch model: %w", err)
		}

		if err := initRuntime(cfg.SharedLibrary); err != nil {
			return nil, fmt.Errorf("failed to initialize onnxruntime: %w", err)
		}

		session, err := ort.NewDynamicAdvancedSession(path,
			[]string{cfg.InputName}, []string{cfg.OutputName}, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create onnx session: %w", err)
		}

		logrus.WithFields(logrus.Fields{
			"path":   path,
			"input":  cfg.InputName,
			"output": cfg.OutputName,
		}).Info("plant disease model loaded")

		return &ONNXModel{
			session:     session,
			outputShape: ort.NewShape(1, model.LabelCount),
		}, nil
	}
}

// Infer 执行一次前向推理
func (m *ONNXModel) Infer(ctx context.Context, input []float32) ([]float32, error) {
	in, err := ort.NewTensor(ort.NewShape(InputShape...), input)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer in.Destroy()

	out, err := ort.NewEmptyTensor[float32](m.outputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer out.Destroy()

	if err := m.session.Run([]ort.Value{in}, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	scores := make([]float32, len(out.GetData()))
	copy(scores, out.GetData())
	return scores, nil
}

// Close 释放会话
func (m *ONNXModel) Close() error {
	return m.session.Destroy()
}
