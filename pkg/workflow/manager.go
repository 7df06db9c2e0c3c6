package workflow

import (
	"context"
	"fmt"

	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/go-webtoon-kit/pkg/bubble"
	"github.com/shouni/go-webtoon-kit/pkg/config"
	"github.com/shouni/go-webtoon-kit/pkg/director"
	"github.com/shouni/go-webtoon-kit/pkg/generator"
	"github.com/shouni/go-webtoon-kit/pkg/parser"
	"github.com/shouni/go-webtoon-kit/pkg/publisher"
	"github.com/shouni/go-webtoon-kit/pkg/resource"
	"github.com/shouni/go-webtoon-kit/pkg/runner"
	"github.com/shouni/go-webtoon-kit/pkg/storage"
	"github.com/shouni/go-webtoon-kit/pkg/video"
)

// Manager は、ワークフローの各工程を担う Runner 群を構築・管理します。
// シーンキャッシュやキャラクター一覧は Manager ごとに1つで、構築した Runner 間で共有されます。
type Manager struct {
	cfg        config.Config
	presets    *config.Presets
	store      storage.Store
	gen        generator.ImageGenerator
	scenes     *storage.SceneRepository
	characters *storage.CharacterImages
	composer   *generator.ReferenceComposer
	sceneCache *resource.SceneCache
	charStore  *resource.CharacterStore
	styles     *resource.StyleCatalog
}

// New は、設定と保存先を基に新しい Manager を初期化します。
func New(_ context.Context, args ManagerArgs) (*Manager, error) {
	if args.Store == nil {
		return nil, fmt.Errorf("Store は必須です")
	}

	presets := args.Presets
	if presets == nil {
		presets = config.DefaultPresets()
	}
	if args.Config.Checkpoint != "" {
		p := *presets
		p.Checkpoint = args.Config.Checkpoint
		presets = &p
	}

	gen := args.Generator
	if gen == nil {
		httpClient := args.HTTPClient
		if httpClient == nil {
			httpClient = httpkit.New(args.Config.RequestTimeout)
		}
		client, err := generator.NewComfyClient(args.Config.ComfyURL, args.Config.RateInterval, httpClient)
		if err != nil {
			return nil, fmt.Errorf("ComfyUI クライアントの初期化に失敗しました: %w", err)
		}
		gen = client
	}

	chars := storage.NewCharacterImages(args.Store)
	return &Manager{
		cfg:        args.Config,
		presets:    presets,
		store:      args.Store,
		gen:        gen,
		scenes:     storage.NewSceneRepository(args.Store, args.Config.SceneCacheTTL),
		characters: chars,
		composer:   generator.NewReferenceComposer(chars),
		sceneCache: resource.NewSceneCache(),
		charStore:  resource.NewCharacterStore(),
		styles:     resource.NewStyleCatalog(presets),
	}, nil
}

// Presets は ComfyUI ワークフローに使うプリセットを返します。
func (m *Manager) Presets() *config.Presets { return m.presets }

// Styles は選択可能な画像スタイルのカタログを返します。
func (m *Manager) Styles() *resource.StyleCatalog { return m.styles }

// SceneCache は生成記録のシーンキャッシュを返します。
func (m *Manager) SceneCache() *resource.SceneCache { return m.sceneCache }

// Characters はキャラクター画像の読み書きに使うストアを返します。
func (m *Manager) Characters() *storage.CharacterImages { return m.characters }

// BuildCharacterRunner は、キャラクター生成を担当する Runner を作成します。
func (m *Manager) BuildCharacterRunner() (CharacterRunner, error) {
	return runner.NewCharacterRunner(m.presets, m.styles, m.gen, m.characters, m.charStore, m.composer), nil
}

// BuildSceneRunner は、シーン生成を担当する Runner を作成します。
func (m *Manager) BuildSceneRunner() (SceneRunner, error) {
	return runner.NewSceneRunner(m.presets, m.gen, m.composer, m.scenes, m.sceneCache), nil
}

// BuildWebtoonRunner は、吹き出しの合成とページ連結を担当する Runner を作成します。
func (m *Manager) BuildWebtoonRunner() (WebtoonRunner, error) {
	renderer, err := bubble.NewRendererFromFile(m.cfg.FontPath, m.cfg.FontSize)
	if err != nil {
		return nil, fmt.Errorf("吹き出しレンダラーの初期化に失敗しました: %w", err)
	}
	pub := publisher.NewWebtoonPublisher(
		m.scenes,
		m.store,
		m.sceneCache,
		director.NewPlanner(),
		renderer,
		publisher.Options{Gap: m.cfg.Gap, Concurrency: m.cfg.Concurrency},
	)
	return runner.NewWebtoonRunner(pub, parser.NewScriptParser(), m.cfg.BuildTimeout), nil
}

// BuildVideoRunner は、フレーム画像から動画を作る Runner を作成します。
func (m *Manager) BuildVideoRunner() (VideoRunner, error) {
	return runner.NewVideoRunner(video.NewBuilder(m.cfg.FFmpegPath, m.cfg.FrameDuration, nil), m.store), nil
}
