package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"

	"github.com/shouni/go-webtoon-kit/pkg/asset"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

// DefaultSceneCacheTTL はデコード済みシーン画像を保持する既定の期間です。
const DefaultSceneCacheTTL = 5 * time.Minute

// SceneRepository はシーン画像を Store から読み込み、デコード済みの画像を保持します。
// 同じシーンへの同時読み込みは1回にまとめられます。
type SceneRepository struct {
	store     Store
	cache     *cache.Cache
	loadGroup singleflight.Group
}

// NewSceneRepository は SceneRepository を作成します。ttl が0以下なら既定値を使います。
func NewSceneRepository(store Store, ttl time.Duration) *SceneRepository {
	if ttl <= 0 {
		ttl = DefaultSceneCacheTTL
	}
	return &SceneRepository{
		store: store,
		cache: cache.New(ttl, ttl*3),
	}
}

// LoadScene はシーン画像を読み込みます。存在しない場合は SceneNotFound を返します。
func (r *SceneRepository) LoadScene(ctx context.Context, id string) (*domain.SceneImage, error) {
	if err := asset.ValidateID(id); err != nil {
		return nil, domain.WrapError(domain.CodeSceneNotFound, fmt.Sprintf("scene %q not found", id), err)
	}
	if v, ok := r.cache.Get(id); ok {
		if scene, ok := v.(*domain.SceneImage); ok {
			return scene, nil
		}
	}

	val, err, _ := r.loadGroup.Do(id, func() (interface{}, error) {
		if v, ok := r.cache.Get(id); ok {
			return v, nil
		}

		// 共有される読み込みなので、最初の呼び出し元のキャンセルを引き継がない
		data, err := r.store.Read(context.WithoutCancel(ctx), asset.SceneKey(id))
		if errors.Is(err, ErrNotFound) {
			return nil, domain.WrapError(domain.CodeSceneNotFound, fmt.Sprintf("scene %q not found", id), err)
		}
		if err != nil {
			return nil, domain.WrapError(domain.CodeStorageError, fmt.Sprintf("scene %q could not be read", id), err)
		}

		img, format, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, domain.WrapError(domain.CodeStorageError, fmt.Sprintf("scene %q could not be decoded", id), err)
		}
		b := img.Bounds()
		if b.Dx() < 1 || b.Dy() < 1 {
			return nil, domain.NewError(domain.CodeInvalidDimensions, fmt.Sprintf("scene %q has no pixels", id))
		}
		slog.DebugContext(ctx, "シーン画像を読み込みました", "scene_id", id, "format", format, "width", b.Dx(), "height", b.Dy())

		scene := &domain.SceneImage{ID: id, Image: img}
		r.cache.SetDefault(id, scene)
		return scene, nil
	})
	if err != nil {
		return nil, err
	}

	scene, ok := val.(*domain.SceneImage)
	if !ok {
		return nil, fmt.Errorf("unexpected return type from singleflight: %T", val)
	}
	return scene, nil
}

// SaveScene はシーン画像を保存し、古いデコード結果を破棄します。
func (r *SceneRepository) SaveScene(ctx context.Context, id string, data []byte) (string, error) {
	if err := asset.ValidateID(id); err != nil {
		return "", domain.WrapError(domain.CodeStorageError, "invalid scene id", err)
	}
	loc, err := r.store.Write(ctx, asset.SceneKey(id), data, "image/png")
	if err != nil {
		return "", domain.WrapError(domain.CodeStorageError, fmt.Sprintf("scene %q could not be written", id), err)
	}
	r.cache.Delete(id)
	return loc, nil
}

// ReadSceneBytes はシーン画像の元のバイト列を返します。
func (r *SceneRepository) ReadSceneBytes(ctx context.Context, id string) ([]byte, error) {
	if err := asset.ValidateID(id); err != nil {
		return nil, domain.WrapError(domain.CodeSceneNotFound, fmt.Sprintf("scene %q not found", id), err)
	}
	data, err := r.store.Read(ctx, asset.SceneKey(id))
	if errors.Is(err, ErrNotFound) {
		return nil, domain.WrapError(domain.CodeSceneNotFound, fmt.Sprintf("scene %q not found", id), err)
	}
	if err != nil {
		return nil, domain.WrapError(domain.CodeStorageError, fmt.Sprintf("scene %q could not be read", id), err)
	}
	return data, nil
}
