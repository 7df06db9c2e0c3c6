package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// ScenesURI はシーン記録一覧のリソース URI です。
const ScenesURI = "resource://scenes"

// SceneCache は生成されたシーンやページの記録を追記のみで保持します。
// 追記は複数のゴルーチンから同時に呼べます。
type SceneCache struct {
	mu      sync.RWMutex
	records []json.RawMessage
}

// NewSceneCache は空の SceneCache を作成します。
func NewSceneCache() *SceneCache {
	return &SceneCache{}
}

// Append は記録を JSON に変換して末尾に追加します。
func (c *SceneCache) Append(ctx context.Context, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("記録の JSON 変換に失敗しました: %w", err)
	}

	c.mu.Lock()
	c.records = append(c.records, data)
	n := len(c.records)
	c.mu.Unlock()

	slog.DebugContext(ctx, "シーンキャッシュに追記しました", "count", n)
	return nil
}

// List は追加された順に記録のコピーを返します。
func (c *SceneCache) List() []json.RawMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]json.RawMessage, len(c.records))
	copy(out, c.records)
	return out
}

// MarshalJSON は記録一覧を JSON 配列として書き出します。
func (c *SceneCache) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.List())
}
