package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/shouni/go-webtoon-kit/internal/config"
	kitconfig "github.com/shouni/go-webtoon-kit/pkg/config"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Config:         kitconfig.DefaultConfig(),
		DataDir:        t.TempDir(),
		StorageBackend: config.BackendLocal,
	}
}

func writeScene(t *testing.T, dir, id string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "scene"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scene", id+".png"), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExecuteWebtoon(t *testing.T) {
	ctx := context.Background()

	t.Run("シーンとセリフからページを保存すること", func(t *testing.T) {
		cfg := newTestConfig(t)
		writeScene(t, cfg.DataDir, "s1", 400, 300)
		writeScene(t, cfg.DataDir, "s2", 400, 200)
		cfg.Options.SceneIDs = []string{"s1", "s2"}
		cfg.Options.SpeechBubbles = `[{"scene_id":"s1","text":"Hello there"}]`

		var out bytes.Buffer
		if err := ExecuteWebtoon(ctx, cfg, &out); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		var rec domain.PageRecord
		if err := json.Unmarshal(out.Bytes(), &rec); err != nil {
			t.Fatalf("出力が JSON ではありません: %v\n%s", err, out.String())
		}
		if rec.Metadata.Width != 400 || rec.Metadata.Height != 550 || rec.Metadata.SpeechBubbleCount != 1 {
			t.Errorf("metadata = %+v", rec.Metadata)
		}
		if _, err := os.Stat(rec.WebtoonURL); err != nil {
			t.Errorf("ページ画像が保存されていません: %v", err)
		}
	})

	t.Run("エスケープされた文字列のセリフも受け付けること", func(t *testing.T) {
		cfg := newTestConfig(t)
		writeScene(t, cfg.DataDir, "s1", 300, 300)
		cfg.Options.SceneIDs = []string{"s1"}
		cfg.Options.SpeechBubbles = `"[{\"scene_id\":\"s1\",\"text\":\"Hi\"}]"`

		var out bytes.Buffer
		if err := ExecuteWebtoon(ctx, cfg, &out); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
	})

	t.Run("存在しないシーンは SceneNotFound", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.Options.SceneIDs = []string{"missing"}
		err := ExecuteWebtoon(ctx, cfg, &bytes.Buffer{})
		if !errors.Is(err, domain.ErrSceneNotFound) {
			t.Errorf("ErrSceneNotFound を期待しました: %v", err)
		}
	})
}

func TestExecuteStyles(t *testing.T) {
	var out bytes.Buffer
	if err := ExecuteStyles(context.Background(), newTestConfig(t), &out); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	var styles []map[string]string
	if err := json.Unmarshal(out.Bytes(), &styles); err != nil {
		t.Fatal(err)
	}
	if len(styles) != 2 || styles[0]["id"] != "2d" || styles[1]["id"] != "3d" {
		t.Errorf("styles = %v", styles)
	}
}

func TestExecuteVideo_NoFrames(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Options.FrameFolder = t.TempDir()
	err := ExecuteVideo(context.Background(), cfg, &bytes.Buffer{})
	if !errors.Is(err, domain.ErrNoFrames) {
		t.Errorf("ErrNoFrames を期待しました: %v", err)
	}
}

func TestSpeechBubblesJSON(t *testing.T) {
	if got := string(speechBubblesJSON(`[{"scene_id":"a","text":"x"}]`)); got != `[{"scene_id":"a","text":"x"}]` {
		t.Errorf("配列はそのまま渡すはずです: %s", got)
	}
	if got := string(speechBubblesJSON(`[{\"a\"}]`)); got != `"[{\\\"a\\\"}]"` {
		t.Errorf("配列以外は JSON 文字列にするはずです: %s", got)
	}
}
