package translate

import (
	"errors"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// ErrUndetectable 无法识别语言
var ErrUndetectable = errors.New("language could not be detected")

// Detector 语言识别接口，返回 ISO 639-1 小写代码
type Detector interface {
	Detect(text string) (string, error)
}

// LinguaDetector 基于 lingua 的语言识别
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector 创建语言识别器，模型按需懒加载
func NewLinguaDetector() *LinguaDetector {
	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

// Detect 识别文本语言
func (d *LinguaDetector) Detect(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrUndetectable
	}
	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", ErrUndetectable
	}
	return strings.ToLower(language.IsoCode639_1().String()), nil
}
