// Package assistant 编排一次用户交互：图片走病害识别，文本走翻译与问答 Agent
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ashwinyue/agri-assist/internal/model"
	"github.com/ashwinyue/agri-assist/internal/service/session"
	"github.com/ashwinyue/agri-assist/internal/service/translate"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
)

const (
	// QuestionPrefix 附加在翻译后问题前的固定指令
	QuestionPrefix = "You are an agriculture expert. Answer only farming-related questions.\n" +
		"Be accurate, clear, and concise.\n\n" +
		"User's Question: "

	// ResetMessage 清空会话后的提示
	ResetMessage = "Chat cleared!"

	defaultMemorySize = 5
)

// ErrEmptyMessage 消息为空
var ErrEmptyMessage = errors.New("message is empty")

// Translator 翻译接口
type Translator interface {
	ToEnglish(ctx context.Context, text string) translate.Result
	FromEnglish(ctx context.Context, text, lang string) (string, error)
}

// Answerer 问答接口
type Answerer interface {
	Answer(ctx context.Context, question string, memory []*schema.Message) (string, error)
}

// ImageClassifier 图片识别接口
type ImageClassifier interface {
	Classify(ctx context.Context, r io.Reader) string
}

// Reply 文本消息的处理结果
type Reply struct {
	Language   string `json:"language"`
	Translated string `json:"translated"`
	Answer     string `json:"answer,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Failed 是否处理失败
func (r Reply) Failed() bool {
	return r.Error != ""
}

// Service 会话编排服务
type Service struct {
	translator Translator
	agent      Answerer
	classifier ImageClassifier
	memorySize int
}

// NewService 创建编排服务
func NewService(translator Translator, agent Answerer, classifier ImageClassifier, memorySize int) *Service {
	if memorySize <= 0 {
		memorySize = defaultMemorySize
	}
	return &Service{
		translator: translator,
		agent:      agent,
		classifier: classifier,
		memorySize: memorySize,
	}
}

// HandleText 处理一条文本消息
// 用户消息先入记录；失败时只返回错误信息，不追加助手消息
func (s *Service) HandleText(ctx context.Context, st *session.State, text string) (Reply, error) {
	if strings.TrimSpace(text) == "" {
		return Reply{}, ErrEmptyMessage
	}

	st.Lock()
	defer st.Unlock()

	log := logrus.WithField("session_id", st.ID)
	st.AppendTurn(model.RoleUser, text)

	forward := s.translator.ToEnglish(ctx, text)
	reply := Reply{Language: forward.Lang, Translated: forward.Text}

	st.TrimMemory(s.memorySize)
	answer, err := s.agent.Answer(ctx, QuestionPrefix+forward.Text, st.Memory())
	if err != nil {
		log.WithError(err).Error("agent failed")
		reply.Error = renderError(err)
		return reply, nil
	}

	final := answer
	// 正向翻译已降级时语言未知，直接返回英文回答
	if !forward.Degraded() {
		final, err = s.translator.FromEnglish(ctx, answer, forward.Lang)
		if err != nil {
			log.WithError(err).WithField("lang", forward.Lang).Error("backward translation failed")
			reply.Error = renderError(err)
			return reply, nil
		}
	}

	st.Remember(forward.Text, answer)
	st.AppendTurn(model.RoleAssistant, final)
	reply.Answer = final

	log.WithFields(logrus.Fields{
		"lang":     forward.Lang,
		"degraded": forward.Degraded(),
	}).Info("question answered")
	return reply, nil
}

// HandleImage 识别上传的作物图片，结果不写入对话记录
func (s *Service) HandleImage(ctx context.Context, st *session.State, r io.Reader) string {
	st.Lock()
	defer st.Unlock()

	result := s.classifier.Classify(ctx, r)
	logrus.WithFields(logrus.Fields{
		"session_id": st.ID,
		"result":     result,
	}).Info("image classified")
	return result
}

// Reset 清空对话记录与记忆
func (s *Service) Reset(st *session.State) string {
	st.Lock()
	defer st.Unlock()

	st.Reset()
	return ResetMessage
}

func renderError(err error) string {
	return fmt.Sprintf("❌ Error: %v", err)
}
