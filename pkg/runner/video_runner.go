package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shouni/go-webtoon-kit/pkg/asset"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/storage"
)

// VideoBuilder はフレーム画像のフォルダから動画ファイルを作ります。*video.Builder が実装します。
type VideoBuilder interface {
	Build(ctx context.Context, frameFolder, outputPath string) (*domain.VideoResult, error)
}

// VideoRunner は動画を一時ディレクトリに作成してからストアの video/ 以下に保存します。
type VideoRunner struct {
	builder VideoBuilder
	store   storage.Store
	newName func() string
}

// NewVideoRunner は VideoRunner を初期化します。
func NewVideoRunner(builder VideoBuilder, store storage.Store) *VideoRunner {
	return &VideoRunner{builder: builder, store: store, newName: newVideoName}
}

// Run は frameFolder 内の PNG 画像を連結した動画を保存し、その結果を返します。
func (r *VideoRunner) Run(ctx context.Context, frameFolder string) (*domain.VideoResult, error) {
	tmpDir, err := os.MkdirTemp("", "webtoon-video-*")
	if err != nil {
		return nil, fmt.Errorf("一時ディレクトリの作成に失敗しました: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	name := r.newName()
	out, err := asset.ResolveOutputPath(tmpDir, name)
	if err != nil {
		return nil, fmt.Errorf("出力パスの解決に失敗しました: %w", err)
	}

	res, err := r.builder.Build(ctx, frameFolder, out)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Clean(out))
	if err != nil {
		return nil, domain.WrapError(domain.CodeEncoderFailed, "encoded video could not be read", err)
	}
	url, err := r.store.Write(ctx, asset.VideoKey(name), data, "video/mp4")
	if err != nil {
		return nil, domain.WrapError(domain.CodeStorageError, "video could not be written", err)
	}

	res.VideoURL = url
	slog.InfoContext(ctx, "VideoRunner: 動画を保存しました", "video_url", url, "frames", res.FrameCount)
	return res, nil
}
