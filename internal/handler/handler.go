package handler

import (
	"context"

	"github.com/ashwinyue/agri-assist/internal/service"
	"github.com/ashwinyue/agri-assist/internal/service/tool"
)

// Handlers 处理器集合
type Handlers struct {
	Session *SessionHandler
	System  *SystemHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Session: NewSessionHandler(svc.Sessions, svc.Assistant, svc.Config.Classifier.MaxUploadBytes),
		System:  NewSystemHandler(svc.Config.App.Version, toolDescriptors(svc), svc.ModelHandle.Loaded),
	}
}

// toolDescriptors 从已构建的工具读取名称与描述
func toolDescriptors(svc *service.Services) []tool.Descriptor {
	ctx := context.Background()
	out := make([]tool.Descriptor, 0, len(svc.Tools))
	for _, t := range svc.Tools {
		info, err := t.Info(ctx)
		if err != nil {
			continue
		}
		out = append(out, tool.Descriptor{Name: info.Name, Description: info.Desc})
	}
	return out
}
