package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-webtoon-kit/pkg/config"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/generator"
)

// SceneRunner はキャラクター画像と説明文からシーン画像を生成し、記録をシーンキャッシュに追記します。
type SceneRunner struct {
	presets  *config.Presets
	gen      generator.ImageGenerator
	composer *generator.ReferenceComposer
	scenes   SceneImageStore
	cache    RecordAppender

	newID func() string
	seed  func() int64
}

// NewSceneRunner は依存性を注入して SceneRunner を初期化します。
func NewSceneRunner(
	presets *config.Presets,
	gen generator.ImageGenerator,
	composer *generator.ReferenceComposer,
	scenes SceneImageStore,
	cache RecordAppender,
) *SceneRunner {
	return &SceneRunner{
		presets:  presets,
		gen:      gen,
		composer: composer,
		scenes:   scenes,
		cache:    cache,
		newID:    newSceneID,
		seed:     randomSeed,
	}
}

// Create は指定キャラクターを合成したシーンを生成します。characterIDs は空でも構いません。
func (r *SceneRunner) Create(ctx context.Context, characterIDs []string, description string) (*domain.SceneRecord, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("シーンの説明が空です")
	}

	refs, err := r.composer.Prepare(ctx, characterIDs)
	if err != nil {
		return nil, fmt.Errorf("キャラクター画像の準備に失敗しました: %w", err)
	}

	seed := r.seed()
	slog.InfoContext(ctx, "SceneRunner: シーン生成を開始します", "characters", len(characterIDs), "seed", seed)
	data, err := r.gen.Generate(ctx, generator.SceneGraph(r.presets, refs, description, seed))
	if err != nil {
		return nil, fmt.Errorf("シーン画像の生成に失敗しました: %w", err)
	}

	return r.record(ctx, data, domain.SceneMetadata{
		CharacterIDs:     characterIDs,
		SceneDescription: description,
	})
}

// Update は既存シーンを元に修正指示を反映した新しいシーンを生成します。元のシーンは残ります。
func (r *SceneRunner) Update(ctx context.Context, sceneID, modification string) (*domain.SceneRecord, error) {
	src, err := r.scenes.ReadSceneBytes(ctx, sceneID)
	if err != nil {
		return nil, err
	}

	seed := r.seed()
	slog.InfoContext(ctx, "SceneRunner: シーン更新を開始します", "source_scene_id", sceneID, "seed", seed)
	data, err := r.gen.Generate(ctx, generator.UpdateSceneGraph(r.presets, generator.EncodeImage(src), modification, seed))
	if err != nil {
		return nil, fmt.Errorf("シーン画像の再生成に失敗しました: %w", err)
	}

	return r.record(ctx, data, domain.SceneMetadata{
		SourceSceneID: sceneID,
		Modification:  modification,
	})
}

func (r *SceneRunner) record(ctx context.Context, data []byte, meta domain.SceneMetadata) (*domain.SceneRecord, error) {
	id := r.newID()
	url, err := r.scenes.SaveScene(ctx, id, data)
	if err != nil {
		return nil, err
	}

	rec := &domain.SceneRecord{SceneID: id, ImageURL: url, Metadata: meta}
	if err := r.cache.Append(ctx, rec); err != nil {
		return nil, domain.WrapError(domain.CodeStorageError, "scene record could not be cached", err)
	}
	slog.InfoContext(ctx, "SceneRunner: シーンを保存しました", "scene_id", id, "image_url", url)
	return rec, nil
}
