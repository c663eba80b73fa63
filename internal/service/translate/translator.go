// Package translate 提供语言识别与多语种翻译
// 正向翻译失败时降级为原文透传，反向翻译失败直接返回错误
package translate

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	// LangEnglish 英语
	LangEnglish = "en"
	// LangUnknown 识别或翻译失败时的语言代码
	LangUnknown = "unknown"
)

// ErrUnsupportedLanguage 无法翻译到该语言
var ErrUnsupportedLanguage = errors.New("unsupported target language")

// Backend 翻译后端
type Backend interface {
	// Translate 将 text 从 source 翻译为 target，语言均为 ISO 639-1 代码
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Result 正向翻译结果
type Result struct {
	Text string
	Lang string
	// Cause 降级原因，仅在 Degraded 时非空
	Cause error
}

// Degraded 是否降级为原文透传
func (r Result) Degraded() bool {
	return r.Lang == LangUnknown
}

// Translator 翻译器
type Translator struct {
	detector Detector
	backend  Backend
}

// NewTranslator 创建翻译器
func NewTranslator(detector Detector, backend Backend) *Translator {
	return &Translator{detector: detector, backend: backend}
}

// ToEnglish 识别语言并翻译为英语
// 已是英语时原样返回；任一步失败返回原文和 "unknown"
func (t *Translator) ToEnglish(ctx context.Context, text string) Result {
	lang, err := t.detector.Detect(text)
	if err != nil {
		return t.degrade(text, err)
	}
	if lang == LangEnglish {
		return Result{Text: text, Lang: LangEnglish}
	}

	translated, err := t.backend.Translate(ctx, text, lang, LangEnglish)
	if err != nil {
		return t.degrade(text, fmt.Errorf("translate %s->en: %w", lang, err))
	}

	return Result{Text: translated, Lang: lang}
}

// FromEnglish 将英文译回 lang，lang 为 en 时原样返回
func (t *Translator) FromEnglish(ctx context.Context, text, lang string) (string, error) {
	if lang == LangEnglish {
		return text, nil
	}
	if lang == "" || lang == LangUnknown {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}

	translated, err := t.backend.Translate(ctx, text, LangEnglish, lang)
	if err != nil {
		return "", fmt.Errorf("translate en->%s: %w", lang, err)
	}
	return translated, nil
}

func (t *Translator) degrade(text string, cause error) Result {
	logrus.WithError(cause).Warn("forward translation degraded to pass-through")
	return Result{Text: text, Lang: LangUnknown, Cause: cause}
}
