package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-webtoon-kit/pkg/asset"
	"github.com/shouni/go-webtoon-kit/pkg/bubble"
	"github.com/shouni/go-webtoon-kit/pkg/compositor"
	"github.com/shouni/go-webtoon-kit/pkg/director"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/parser"
	"github.com/shouni/go-webtoon-kit/pkg/storage"
)

// SceneLoader はシーン ID からデコード済みのシーン画像を取得します。
// 存在しない場合は SceneNotFound を返す必要があります。
type SceneLoader interface {
	LoadScene(ctx context.Context, id string) (*domain.SceneImage, error)
}

// RecordAppender は生成記録を追記するシーンキャッシュです。
type RecordAppender interface {
	Append(ctx context.Context, record any) error
}

// BuildRequest はページ組み立ての入力です。
// SpeechBubbles は JSON 配列、または配列をエンコードした JSON 文字列を受け付けます。
type BuildRequest struct {
	SceneIDs      []string        `json:"scene_ids"`
	SpeechBubbles json.RawMessage `json:"speech_bubbles,omitempty"`
}

// Options はページ組み立ての動作を制御する設定項目です。
type Options struct {
	Gap         int
	Concurrency int
	NewID       func() string
}

// NewWebtoonID は "webtoon-<uuid>" 形式のページ ID を返します。
func NewWebtoonID() string {
	return "webtoon-" + uuid.NewString()
}

// WebtoonPublisher は複数のシーン画像に吹き出しを重ね、縦に連結した1枚のページとして保存します。
type WebtoonPublisher struct {
	scenes  SceneLoader
	store   storage.Store
	cache   RecordAppender
	planner *director.Planner
	painter compositor.Painter
	opts    Options
}

// NewWebtoonPublisher は WebtoonPublisher を作成します。未設定の Options は既定値で補います。
func NewWebtoonPublisher(
	scenes SceneLoader,
	store storage.Store,
	cache RecordAppender,
	planner *director.Planner,
	painter compositor.Painter,
	opts Options,
) *WebtoonPublisher {
	if opts.Gap <= 0 {
		opts.Gap = compositor.DefaultGap
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.NewID == nil {
		opts.NewID = NewWebtoonID
	}
	if planner == nil {
		planner = director.NewPlanner()
	}
	return &WebtoonPublisher{
		scenes:  scenes,
		store:   store,
		cache:   cache,
		planner: planner,
		painter: painter,
		opts:    opts,
	}
}

// Build はセリフ入力を正規化してからページを組み立てます。
func (wp *WebtoonPublisher) Build(ctx context.Context, req BuildRequest) (*domain.PageRecord, error) {
	entries, err := parser.ParseSpeechBubbles(req.SpeechBubbles)
	if err != nil {
		return nil, err
	}
	return wp.BuildEntries(ctx, req.SceneIDs, entries)
}

// BuildEntries はシーンを sceneIDs の順に読み込み、各シーンに吹き出しを重ねてから縦に連結します。
// 完成したページを保存し、PageRecord をシーンキャッシュに追記して返します。
// 途中で失敗した場合は何も残しません。
func (wp *WebtoonPublisher) BuildEntries(ctx context.Context, sceneIDs []string, entries []domain.DialogueEntry) (*domain.PageRecord, error) {
	if len(sceneIDs) == 0 {
		return nil, domain.NewError(domain.CodeInvalidCanvasDimensions, "at least one scene is required")
	}

	logger := slog.With("scenes", len(sceneIDs), "speech_bubbles", len(entries))
	logger.InfoContext(ctx, "Webtoon ページの組み立てを開始します")
	startTime := time.Now()

	groups := domain.GroupByScene(entries)

	// 1. シーンの読み込みは順番に行う
	scenes := make([]*domain.SceneImage, len(sceneIDs))
	for i, id := range sceneIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scene, err := wp.scenes.LoadScene(ctx, id)
		if err != nil {
			if domain.CodeOf(err) == "" {
				return nil, domain.WrapError(domain.CodeStorageError, fmt.Sprintf("scene %q could not be loaded", id), err)
			}
			return nil, err
		}
		scenes[i] = scene
	}

	// 2. 吹き出しの合成はシーンごとに独立しているので並列に行う
	annotated := make([]image.Image, len(scenes))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(wp.opts.Concurrency)
	for i, scene := range scenes {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			texts := groups.Texts(scene.ID)
			img, err := wp.annotate(scene, texts)
			if err != nil {
				return fmt.Errorf("シーン %s への吹き出しの合成に失敗しました: %w", scene.ID, err)
			}
			logger.DebugContext(egCtx, "シーンに吹き出しを合成しました", "scene_id", scene.ID, "bubbles", len(texts))
			annotated[i] = img
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// 3. sceneIDs の順に縦へ連結
	page, err := compositor.StackPage(annotated, wp.opts.Gap)
	if err != nil {
		return nil, domain.WrapError(domain.CodeStorageError, "page canvas could not be created", err)
	}

	// 4. 保存と記録
	record, err := wp.persist(ctx, page, sceneIDs, len(entries))
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Webtoon ページを保存しました",
		"webtoon_id", record.WebtoonID,
		"url", record.WebtoonURL,
		"width", record.Metadata.Width,
		"height", record.Metadata.Height,
		"duration", time.Since(startTime).Round(time.Millisecond),
	)
	return record, nil
}

// annotate はシーン1枚分の吹き出しを配置し、シーン画像のコピーに重ねます。
func (wp *WebtoonPublisher) annotate(scene *domain.SceneImage, texts []string) (*image.RGBA, error) {
	specs, err := wp.planner.Plan(scene.Width(), texts)
	if err != nil {
		return nil, err
	}

	placed := make([]compositor.Placed, 0, len(specs))
	for _, spec := range specs {
		b, err := bubble.New(spec.Lines, spec.Width)
		if err != nil {
			return nil, err
		}
		placed = append(placed, compositor.Placed{Bubble: b, At: image.Pt(spec.Left, spec.Top)})
	}
	return compositor.OverlayBubbles(scene.Image, placed, wp.painter)
}

func (wp *WebtoonPublisher) persist(ctx context.Context, page *image.RGBA, sceneIDs []string, bubbleCount int) (*domain.PageRecord, error) {
	data, err := compositor.EncodePNG(page)
	if err != nil {
		return nil, domain.WrapError(domain.CodeStorageError, "page could not be encoded", err)
	}

	id := wp.opts.NewID()
	key := asset.WebtoonKey(id)
	location, err := wp.store.Write(ctx, key, data, "image/png")
	if err != nil {
		return nil, domain.WrapError(domain.CodeStorageError, "page could not be written", err)
	}

	bounds := page.Bounds()
	record := &domain.PageRecord{
		WebtoonID:  id,
		WebtoonURL: location,
		SceneIDs:   append([]string(nil), sceneIDs...),
		Metadata: domain.PageMetadata{
			Width:             bounds.Dx(),
			Height:            bounds.Dy(),
			Gap:               wp.opts.Gap,
			SpeechBubbleCount: bubbleCount,
		},
	}

	if err := wp.cache.Append(ctx, record); err != nil {
		// 記録できなかったページは残さない
		if delErr := wp.store.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			slog.WarnContext(ctx, "保存済みページの削除に失敗しました", "key", key, "error", delErr)
		}
		return nil, domain.WrapError(domain.CodeStorageError, "page record could not be appended", err)
	}
	return record, nil
}
