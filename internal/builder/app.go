package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-webtoon-kit/internal/config"
	"github.com/shouni/go-webtoon-kit/pkg/storage"
	"github.com/shouni/go-webtoon-kit/pkg/workflow"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config  *config.Config    // Configは、環境変数から読み込まれたグローバルな設定です。
	Store   storage.Store     // Storeは、画像や動画の保存先です（ローカル or S3）。
	Manager *workflow.Manager // Managerは、各 Runner とそれらが共有するキャッシュを管理します。
}

// NewAppContext は設定から保存先を初期化し、AppContext を生成する
func NewAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	store, err := InitializeStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ストレージの初期化に失敗しました: %w", err)
	}

	manager, err := workflow.New(ctx, workflow.ManagerArgs{
		Config: cfg.Config,
		Store:  store,
	})
	if err != nil {
		return nil, err
	}

	return &AppContext{
		Config:  cfg,
		Store:   store,
		Manager: manager,
	}, nil
}
