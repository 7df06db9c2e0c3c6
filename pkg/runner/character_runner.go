package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-webtoon-kit/pkg/config"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/generator"
	"github.com/shouni/go-webtoon-kit/pkg/resource"
)

// CharacterRunner はキャラクター画像の生成・再生成と、シーンで使うキャラクターの確定を行います。
type CharacterRunner struct {
	presets  *config.Presets
	styles   *resource.StyleCatalog
	gen      generator.ImageGenerator
	images   CharacterImageStore
	store    *resource.CharacterStore
	composer *generator.ReferenceComposer

	newID func() string
	seed  func() int64
}

// NewCharacterRunner は依存性を注入して CharacterRunner を初期化します。composer は nil でも構いません。
func NewCharacterRunner(
	presets *config.Presets,
	styles *resource.StyleCatalog,
	gen generator.ImageGenerator,
	images CharacterImageStore,
	store *resource.CharacterStore,
	composer *generator.ReferenceComposer,
) *CharacterRunner {
	return &CharacterRunner{
		presets:  presets,
		styles:   styles,
		gen:      gen,
		images:   images,
		store:    store,
		composer: composer,
		newID:    newCharacterID,
		seed:     randomSeed,
	}
}

// Create はプロンプトとスタイルから新しいキャラクターを生成して保存します。
func (r *CharacterRunner) Create(ctx context.Context, prompt, styleID string) (*domain.Character, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("キャラクターのプロンプトが空です")
	}
	style, err := r.styles.Lookup(styleID)
	if err != nil {
		return nil, err
	}

	full := generator.BuildPrompt(prompt, style.PromptSuffix)
	// 同じプロンプトからは同じキャラクターが得られるようにする
	seed := r.presets.Seed
	if seed == 0 {
		seed = domain.GetSeedFromPrompt(full)
	}

	slog.InfoContext(ctx, "CharacterRunner: キャラクター生成を開始します", "style", style.ID, "seed", seed)
	data, err := r.gen.Generate(ctx, generator.CharacterGraph(r.presets, full, seed))
	if err != nil {
		return nil, fmt.Errorf("キャラクター画像の生成に失敗しました: %w", err)
	}

	c, err := r.save(ctx, data, domain.CharacterMetadata{Style: style.ID, Prompt: prompt})
	if err != nil {
		return nil, err
	}
	r.store.Save(*c)
	slog.InfoContext(ctx, "CharacterRunner: キャラクターを保存しました", "character_id", c.ID, "image_url", c.ImageURL)
	return c, nil
}

// Update は既存キャラクターの画像を元に、新しいプロンプトで別 ID のキャラクターを生成します。
// 保存済み一覧では旧キャラクターを置き換えます。
func (r *CharacterRunner) Update(ctx context.Context, oldID, prompt, styleID string) (*domain.Character, error) {
	style, err := r.styles.Lookup(styleID)
	if err != nil {
		return nil, err
	}
	src, err := r.images.ReadCharacter(ctx, oldID)
	if err != nil {
		return nil, err
	}

	full := generator.BuildPrompt(prompt, style.PromptSuffix)
	seed := r.seed()
	slog.InfoContext(ctx, "CharacterRunner: キャラクター更新を開始します", "old_character_id", oldID, "style", style.ID, "seed", seed)

	data, err := r.gen.Generate(ctx, generator.UpdateCharacterGraph(r.presets, generator.EncodeImage(src), full, seed))
	if err != nil {
		return nil, fmt.Errorf("キャラクター画像の再生成に失敗しました: %w", err)
	}

	c, err := r.save(ctx, data, domain.CharacterMetadata{Style: style.ID, Prompt: prompt, OldCharacterID: oldID})
	if err != nil {
		return nil, err
	}
	r.store.Replace(oldID, *c)
	if r.composer != nil {
		r.composer.Forget(oldID)
	}
	return c, nil
}

// Confirm はシーン生成に使うキャラクター ID を確定し、新たに確定した ID を返します。
func (r *CharacterRunner) Confirm(ids []string) []string {
	added := r.store.Confirm(ids)
	slog.Info("CharacterRunner: キャラクターを確定しました", "added", added)
	return added
}

// Snapshot は保存済みキャラクターと確定済み ID を返します。
func (r *CharacterRunner) Snapshot() resource.CharacterSnapshot {
	return r.store.Snapshot()
}

func (r *CharacterRunner) save(ctx context.Context, data []byte, meta domain.CharacterMetadata) (*domain.Character, error) {
	id := r.newID()
	url, err := r.images.SaveCharacter(ctx, id, data)
	if err != nil {
		return nil, err
	}
	return &domain.Character{ID: id, ImageURL: url, Metadata: meta}, nil
}
