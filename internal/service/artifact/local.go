package artifact

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
)

// LocalSource 本地文件源，用于从共享卷复制模型
type LocalSource struct{}

// Open 打开本地文件
func (LocalSource) Open(ctx context.Context, ref *Ref) (io.ReadCloser, error) {
	f, err := os.Open(ref.Key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open local artifact", goerr.Value("path", ref.Key))
	}
	return f, nil
}
