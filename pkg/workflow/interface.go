package workflow

import (
	"github.com/shouni/go-webtoon-kit/pkg/config"
	"github.com/shouni/go-webtoon-kit/pkg/generator"
	"github.com/shouni/go-webtoon-kit/pkg/storage"
)

// ManagerArgs は Manager の初期化に必要な依存関係です。
type ManagerArgs struct {
	Config  config.Config
	Presets *config.Presets // nil なら同梱のプリセット
	Store   storage.Store
	// Generator が nil の場合は Config.ComfyURL に接続する ComfyClient を作成します。
	Generator generator.ImageGenerator
	// HTTPClient は ComfyClient が使う HTTP クライアントです。nil なら Config.RequestTimeout で httpkit のクライアントを作成します。
	HTTPClient generator.HTTPDoer
}
