package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const llmSystemPrompt = `You are a professional translator for an agricultural assistant.
Translate the user's text accurately, keeping crop names, pest names, chemical names, numbers and units intact.
Return ONLY the translated text, with no explanation, quotes or notes.`

const llmUserTemplate = `Translate the following text from language code "%s" to language code "%s".

Text:
%s`

// ChatModelBackend 基于 LLM 的翻译后端
type ChatModelBackend struct {
	chatModel model.BaseChatModel
}

// NewChatModelBackend 创建 LLM 翻译后端
func NewChatModelBackend(chatModel model.BaseChatModel) *ChatModelBackend {
	return &ChatModelBackend{chatModel: chatModel}
}

// Translate 翻译文本
func (b *ChatModelBackend) Translate(ctx context.Context, text, source, target string) (string, error) {
	if b.chatModel == nil {
		return "", errors.New("translation model not configured")
	}

	messages := []*schema.Message{
		schema.SystemMessage(llmSystemPrompt),
		schema.UserMessage(fmt.Sprintf(llmUserTemplate, source, target, text)),
	}

	resp, err := b.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}

	out := strings.TrimSpace(resp.Content)
	if out == "" {
		return "", errors.New("empty translation")
	}
	return out, nil
}
