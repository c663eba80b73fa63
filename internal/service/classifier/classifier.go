// Package classifier 提供作物病害图片识别
package classifier

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/ashwinyue/agri-assist/internal/model"
	"github.com/sirupsen/logrus"
)

const (
	predictionPrefix = "Prediction: "
	errorPrefix      = "Error during prediction: "
)

// Classifier 病害识别器
type Classifier struct {
	handle *ModelHandle
}

// New 创建识别器，模型句柄由调用方持有
func New(handle *ModelHandle) *Classifier {
	return &Classifier{handle: handle}
}

// Classify 解码并识别上传的图片
// 总是返回 "Prediction: <label>" 或 "Error during prediction: <message>"
func (c *Classifier) Classify(ctx context.Context, r io.Reader) string {
	img, err := Decode(r)
	if err != nil {
		return formatError(err)
	}
	return c.ClassifyImage(ctx, img)
}

// ClassifyImage 识别已解码的图片
func (c *Classifier) ClassifyImage(ctx context.Context, img image.Image) (result string) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Error("classifier panic recovered")
			result = formatError(fmt.Errorf("%v", r))
		}
	}()

	label, err := c.predict(ctx, img)
	if err != nil {
		logrus.WithError(err).Warn("plant disease prediction failed")
		return formatError(err)
	}
	return predictionPrefix + label
}

func (c *Classifier) predict(ctx context.Context, img image.Image) (string, error) {
	input, err := Preprocess(img)
	if err != nil {
		return "", err
	}

	m, err := c.handle.Get(ctx)
	if err != nil {
		return "", err
	}

	scores, err := m.Infer(ctx, input)
	if err != nil {
		return "", err
	}
	if len(scores) == 0 {
		return "", fmt.Errorf("model returned no scores")
	}

	return model.LabelOrUnknown(Argmax(scores)), nil
}

// Argmax 返回最大值下标，相同取最小下标
func Argmax(scores []float32) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}

func formatError(err error) string {
	return errorPrefix + err.Error()
}
