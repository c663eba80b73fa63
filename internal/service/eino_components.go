package service

import (
	"context"
	"fmt"

	"github.com/ashwinyue/agri-assist/internal/config"
	"github.com/ashwinyue/agri-assist/internal/service/artifact"
	"github.com/ashwinyue/agri-assist/internal/service/callback"
	"github.com/ashwinyue/agri-assist/internal/service/classifier"
	"github.com/ashwinyue/agri-assist/internal/service/translate"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/sirupsen/logrus"
)

// SetupCallbacks 注册 eino 全局日志回调
func SetupCallbacks(cfg *config.Config) {
	callback.SetupGlobalCallbacks(logrus.StandardLogger(), cfg.App.Debug)
}

// newChatModel 创建支持工具调用的 ChatModel
// groq、deepseek 均走 OpenAI 兼容接口
func newChatModel(ctx context.Context, cfg *config.Config) (model.ToolCallingChatModel, error) {
	aiCfg := cfg.AI
	if aiCfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required for provider: %s", aiCfg.Provider)
	}

	temperature := aiCfg.Temperature

	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      aiCfg.APIKey,
		BaseURL:     aiCfg.BaseURL,
		Model:       aiCfg.Model,
		Temperature: &temperature,
	})
}

// newTranslator 创建翻译器
func newTranslator(ctx context.Context, cfg *config.Config, chatModel model.BaseChatModel) (*translate.Translator, error) {
	var backend translate.Backend

	switch cfg.Translate.Provider {
	case "gemini":
		gemini, err := translate.NewGeminiBackend(ctx, cfg.Translate.Gemini.APIKey, cfg.Translate.Gemini.Model)
		if err != nil {
			return nil, err
		}
		backend = gemini
	case "llm", "":
		backend = translate.NewChatModelBackend(chatModel)
	default:
		return nil, fmt.Errorf("unsupported translate provider: %s", cfg.Translate.Provider)
	}

	return translate.NewTranslator(translate.NewLinguaDetector(), backend), nil
}

// newArtifactFetcher 按模型来源注册对应的存储源
func newArtifactFetcher(ctx context.Context, cfg *config.Config) (*artifact.Fetcher, func() error, error) {
	opts := []artifact.Option{
		artifact.WithSource(artifact.SchemeHTTP, artifact.NewHTTPSource(nil)),
		artifact.WithSource(artifact.SchemeHTTPS, artifact.NewHTTPSource(nil)),
	}
	closer := func() error { return nil }

	if cfg.Classifier.ModelSource == "" {
		return artifact.NewFetcher(opts...), closer, nil
	}

	ref, err := artifact.ParseRef(cfg.Classifier.ModelSource)
	if err != nil {
		return nil, nil, err
	}

	switch ref.Scheme {
	case artifact.SchemeGCS:
		gcs, err := artifact.NewGCSSource(ctx)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, artifact.WithSource(artifact.SchemeGCS, gcs))
		closer = gcs.Close
	case artifact.SchemeMinIO:
		mc := cfg.Storage.MinIO
		src, err := artifact.NewMinIOSource(&artifact.MinIOConfig{
			Endpoint:  mc.Endpoint,
			AccessKey: mc.AccessKey,
			SecretKey: mc.SecretKey,
			UseSSL:    mc.UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, artifact.WithSource(artifact.SchemeMinIO, src))
	}

	return artifact.NewFetcher(opts...), closer, nil
}

// newModelHandle 创建懒加载的模型句柄
func newModelHandle(cfg *config.Config, fetcher *artifact.Fetcher) *classifier.ModelHandle {
	cc := cfg.Classifier
	return classifier.NewModelHandle(classifier.NewONNXLoader(fetcher, cc.ModelSource, &classifier.ONNXConfig{
		ModelPath:     cc.ModelPath,
		InputName:     cc.InputName,
		OutputName:    cc.OutputName,
		SharedLibrary: cc.SharedLibrary,
	}))
}
