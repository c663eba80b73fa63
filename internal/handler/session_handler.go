package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ashwinyue/agri-assist/internal/model"
	"github.com/ashwinyue/agri-assist/internal/service/assistant"
	"github.com/ashwinyue/agri-assist/internal/service/session"
	"github.com/gin-gonic/gin"
)

const imageFormField = "image"

// SessionHandler 会话处理器
type SessionHandler struct {
	sessions       *session.Manager
	assistant      *assistant.Service
	maxUploadBytes int64
}

// NewSessionHandler 创建会话处理器
func NewSessionHandler(sessions *session.Manager, svc *assistant.Service, maxUploadBytes int64) *SessionHandler {
	return &SessionHandler{
		sessions:       sessions,
		assistant:      svc,
		maxUploadBytes: maxUploadBytes,
	}
}

// SessionResponse 会话信息
type SessionResponse struct {
	ID       string           `json:"id"`
	Messages []model.ChatTurn `json:"messages"`
}

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ClassifyResponse 图片识别结果
type ClassifyResponse struct {
	Result string `json:"result"`
}

// ResetResponse 重置结果
type ResetResponse struct {
	Message  string           `json:"message"`
	Messages []model.ChatTurn `json:"messages"`
}

// CreateSession 创建会话
// POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	st := h.sessions.Create()
	Created(c, SessionResponse{ID: st.ID, Messages: st.Transcript()})
}

// GetMessages 获取对话记录
// GET /api/v1/sessions/:id/messages
func (h *SessionHandler) GetMessages(c *gin.Context) {
	st, ok := h.lookup(c)
	if !ok {
		return
	}
	Success(c, SessionResponse{ID: st.ID, Messages: st.Transcript()})
}

// SendMessage 发送文本消息
// POST /api/v1/sessions/:id/messages
func (h *SessionHandler) SendMessage(c *gin.Context) {
	st, ok := h.lookup(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "content is required")
		return
	}

	reply, err := h.assistant.HandleText(c.Request.Context(), st, req.Content)
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyMessage) {
			BadRequest(c, err.Error())
			return
		}
		Error(c, err)
		return
	}

	Success(c, reply)
}

// ClassifyImage 上传作物图片识别病害
// POST /api/v1/sessions/:id/images
func (h *SessionHandler) ClassifyImage(c *gin.Context) {
	st, ok := h.lookup(c)
	if !ok {
		return
	}

	if h.maxUploadBytes > 0 {
		if c.Request.ContentLength > h.maxUploadBytes {
			RequestEntityTooLarge(c, fmt.Sprintf("image exceeds %d bytes", h.maxUploadBytes))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile(imageFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RequestEntityTooLarge(c, fmt.Sprintf("image exceeds %d bytes", h.maxUploadBytes))
			return
		}
		BadRequest(c, "image is required: "+err.Error())
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		Error(c, err)
		return
	}
	defer f.Close()

	result := h.assistant.HandleImage(c.Request.Context(), st, f)
	Success(c, ClassifyResponse{Result: result})
}

// ResetSession 清空对话
// POST /api/v1/sessions/:id/reset
func (h *SessionHandler) ResetSession(c *gin.Context) {
	st, ok := h.lookup(c)
	if !ok {
		return
	}

	msg := h.assistant.Reset(st)
	Success(c, ResetResponse{Message: msg, Messages: st.Transcript()})
}

// DeleteSession 结束会话
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		Error(c, err)
		return
	}
	NoContent(c)
}

// lookup 按路径参数取会话，不存在时写入 404
func (h *SessionHandler) lookup(c *gin.Context) (*session.State, bool) {
	st, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		Error(c, err)
		return nil, false
	}
	return st, true
}
