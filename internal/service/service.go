// Package service 组装各业务组件
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ashwinyue/agri-assist/internal/config"
	"github.com/ashwinyue/agri-assist/internal/service/agent"
	"github.com/ashwinyue/agri-assist/internal/service/assistant"
	"github.com/ashwinyue/agri-assist/internal/service/classifier"
	"github.com/ashwinyue/agri-assist/internal/service/session"
	"github.com/ashwinyue/agri-assist/internal/service/tool"
	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/sirupsen/logrus"
)

// Services 服务集合
type Services struct {
	Config    *config.Config
	Sessions  *session.Manager
	Assistant *assistant.Service

	// 模型句柄，启动时预热
	ModelHandle *classifier.ModelHandle

	Tools []einotool.BaseTool

	closers []func() error
}

// NewServices 创建所有服务
func NewServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	chatModel, err := newChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	translator, err := newTranslator(ctx, cfg, chatModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}

	tools := tool.NewSet(ctx, tool.Options{Config: cfg.Tools})
	logrus.WithField("tools", tool.ListNames(ctx, tools)).Info("agent tools initialized")

	qa := agent.New(chatModel, tools, agent.Config{
		MaxIterations:    cfg.Agent.MaxIterations,
		MaxExecutionTime: cfg.Agent.MaxExecutionTime,
		FallbackTimeout:  cfg.Agent.FallbackTimeout,
	})

	fetcher, closeFetcher, err := newArtifactFetcher(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact fetcher: %w", err)
	}

	handle := newModelHandle(cfg, fetcher)

	return &Services{
		Config:      cfg,
		Sessions:    session.NewManager(),
		Assistant:   assistant.NewService(translator, qa, classifier.New(handle), cfg.Agent.MemorySize),
		ModelHandle: handle,
		Tools:       tools,
		closers:     []func() error{handle.Close, closeFetcher},
	}, nil
}

// WarmUp 预先下载并加载病害识别模型
func (s *Services) WarmUp(ctx context.Context) error {
	if _, err := s.ModelHandle.Get(ctx); err != nil {
		return err
	}
	return nil
}

// Close 释放资源
func (s *Services) Close() error {
	var errs []error
	for _, c := range s.closers {
		if c == nil {
			continue
		}
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
