package classifier

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	// 注册额外的解码器，JPEG/PNG 由 imaging 自带
	_ "golang.org/x/image/webp"
)

const (
	// InputSize 模型输入边长
	InputSize = 224
	// Channels RGB 通道数
	Channels = 3
)

// InputShape 模型输入形状 NHWC
var InputShape = []int64{1, InputSize, InputSize, Channels}

// Decode 解码上传的图片，按 EXIF 自动旋转
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Preprocess 缩放到 224x224 并归一化到 [0,1]
// 输出按 NHWC 排列，批大小为 1，丢弃 alpha 通道
func Preprocess(img image.Image) ([]float32, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image: %dx%d", b.Dx(), b.Dy())
	}

	resized := imaging.Resize(img, InputSize, InputSize, imaging.CatmullRom)

	out := make([]float32, 0, InputSize*InputSize*Channels)
	for y := 0; y < InputSize; y++ {
		row := resized.Pix[y*resized.Stride : y*resized.Stride+InputSize*4]
		for x := 0; x < InputSize; x++ {
			px := row[x*4 : x*4+4]
			out = append(out,
				float32(px[0])/255.0,
				float32(px[1])/255.0,
				float32(px[2])/255.0,
			)
		}
	}
	return out, nil
}
