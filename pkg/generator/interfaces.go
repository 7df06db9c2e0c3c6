package generator

import (
	"context"
)

// ImageGenerator は、ワークフローを実行して生成画像のバイト列を返すためのインターフェースを定義します。
// *ComfyClient が実装します。
type ImageGenerator interface {
	Generate(ctx context.Context, graph Graph) ([]byte, error)
}
