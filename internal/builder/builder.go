package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-webtoon-kit/internal/config"
	"github.com/shouni/go-webtoon-kit/pkg/storage"
	"github.com/shouni/go-webtoon-kit/pkg/workflow"
)

// BuildCharacterRunner はキャラクター生成を担当する Runner を構築します。
func BuildCharacterRunner(appCtx *AppContext) (workflow.CharacterRunner, error) {
	r, err := appCtx.Manager.BuildCharacterRunner()
	if err != nil {
		return nil, fmt.Errorf("CharacterRunnerの初期化に失敗しました: %w", err)
	}
	return r, nil
}

// BuildSceneRunner はシーン生成を担当する Runner を構築します。
func BuildSceneRunner(appCtx *AppContext) (workflow.SceneRunner, error) {
	r, err := appCtx.Manager.BuildSceneRunner()
	if err != nil {
		return nil, fmt.Errorf("SceneRunnerの初期化に失敗しました: %w", err)
	}
	return r, nil
}

// BuildWebtoonRunner はシーンへの吹き出し合成とページ連結を担当する Runner を構築します。
func BuildWebtoonRunner(appCtx *AppContext) (workflow.WebtoonRunner, error) {
	r, err := appCtx.Manager.BuildWebtoonRunner()
	if err != nil {
		return nil, fmt.Errorf("WebtoonRunnerの初期化に失敗しました: %w", err)
	}
	return r, nil
}

// BuildVideoRunner はフレーム画像から動画を作る Runner を構築します。
func BuildVideoRunner(appCtx *AppContext) (workflow.VideoRunner, error) {
	r, err := appCtx.Manager.BuildVideoRunner()
	if err != nil {
		return nil, fmt.Errorf("VideoRunnerの初期化に失敗しました: %w", err)
	}
	return r, nil
}

// InitializeStore は設定に応じてローカルまたは S3 のストアを初期化します。
func InitializeStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendS3:
		client, err := storage.NewS3Client(ctx, storage.S3Options{
			Region:         cfg.AWSRegion,
			EndpointURL:    cfg.AWSEndpointURL,
			ForcePathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "S3 ストアを使用します", "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
		return storage.NewS3Store(client, cfg.S3Bucket, cfg.S3Prefix), nil
	default:
		return storage.NewLocalStore(cfg.DataDir)
	}
}
