package handler

import (
	"github.com/ashwinyue/agri-assist/internal/model"
	"github.com/ashwinyue/agri-assist/internal/service/tool"
	"github.com/gin-gonic/gin"
)

// SystemHandler 系统处理器
type SystemHandler struct {
	version     string
	tools       []tool.Descriptor
	modelLoaded func() bool
}

// NewSystemHandler 创建系统处理器
func NewSystemHandler(version string, tools []tool.Descriptor, modelLoaded func() bool) *SystemHandler {
	if modelLoaded == nil {
		modelLoaded = func() bool { return false }
	}
	return &SystemHandler{version: version, tools: tools, modelLoaded: modelLoaded}
}

// Health 健康检查
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":       "ok",
		"version":      h.version,
		"model_loaded": h.modelLoaded(),
	})
}

// ListTools 列出 Agent 工具
// GET /api/v1/tools
func (h *SystemHandler) ListTools(c *gin.Context) {
	Success(c, h.tools)
}

// ListLabels 列出病害标签
// GET /api/v1/labels
func (h *SystemHandler) ListLabels(c *gin.Context) {
	Success(c, gin.H{
		"count":  model.LabelCount,
		"labels": model.Labels(),
	})
}
