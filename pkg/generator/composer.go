package generator

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ReferenceSource はキャラクター画像の元データを読み込むためのインターフェースです。
type ReferenceSource interface {
	ReadCharacter(ctx context.Context, id string) ([]byte, error)
}

// ReferenceComposer はシーン生成に使うキャラクター画像を base64 で用意します。
// エンコード結果はキャラクター ID ごとに保持し、同じ ID の同時読み込みは1回にまとめます。
type ReferenceComposer struct {
	source    ReferenceSource
	mu        sync.RWMutex
	encoded   map[string]string // CharacterID -> base64
	loadGroup singleflight.Group
}

// NewReferenceComposer は ReferenceComposer を初期化済みの状態で生成します。
func NewReferenceComposer(source ReferenceSource) *ReferenceComposer {
	return &ReferenceComposer{
		source:  source,
		encoded: make(map[string]string),
	}
}

// Prepare は指定キャラクターの画像を並列に読み込み、入力順の base64 を返します。
func (rc *ReferenceComposer) Prepare(ctx context.Context, ids []string) ([]string, error) {
	images := make([]string, len(ids))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, id := range ids {
		eg.Go(func() error {
			b64, err := rc.getOrEncode(egCtx, id)
			if err != nil {
				return fmt.Errorf("failed to prepare reference for character %s: %w", id, err)
			}
			images[i] = b64
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// Forget は保持しているエンコード結果を破棄します。キャラクター画像を更新したときに呼びます。
func (rc *ReferenceComposer) Forget(id string) {
	rc.mu.Lock()
	delete(rc.encoded, id)
	rc.mu.Unlock()
}

func (rc *ReferenceComposer) getOrEncode(ctx context.Context, id string) (string, error) {
	rc.mu.RLock()
	b64, ok := rc.encoded[id]
	rc.mu.RUnlock()
	if ok {
		return b64, nil
	}

	val, err, _ := rc.loadGroup.Do(id, func() (interface{}, error) {
		// 待機中に他のゴルーチンが完了させている可能性があるため再確認
		rc.mu.RLock()
		existing, ok := rc.encoded[id]
		rc.mu.RUnlock()
		if ok {
			return existing, nil
		}

		data, err := rc.source.ReadCharacter(ctx, id)
		if err != nil {
			return nil, err
		}
		encoded := EncodeImage(data)

		rc.mu.Lock()
		rc.encoded[id] = encoded
		rc.mu.Unlock()
		return encoded, nil
	})
	if err != nil {
		return "", err
	}

	b64, ok = val.(string)
	if !ok {
		return "", fmt.Errorf("unexpected return type from singleflight: %T", val)
	}
	return b64, nil
}
