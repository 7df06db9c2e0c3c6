package runner

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shouni/go-webtoon-kit/pkg/config"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/generator"
	"github.com/shouni/go-webtoon-kit/pkg/publisher"
	"github.com/shouni/go-webtoon-kit/pkg/resource"
	"github.com/shouni/go-webtoon-kit/pkg/storage"
)

type fakeGenerator struct {
	mu     sync.Mutex
	graphs []generator.Graph
	out    []byte
	err    error
}

func (f *fakeGenerator) Generate(_ context.Context, g generator.Graph) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.graphs = append(f.graphs, g)
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func (f *fakeGenerator) last() generator.Graph {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.graphs[len(f.graphs)-1]
}

func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + strings.Repeat("x", n)
	}
}

type characterFixture struct {
	runner *CharacterRunner
	gen    *fakeGenerator
	images *storage.CharacterImages
	store  *resource.CharacterStore
}

func newCharacterFixture(t *testing.T) *characterFixture {
	t.Helper()
	local, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	presets := config.DefaultPresets()
	f := &characterFixture{
		gen:    &fakeGenerator{out: []byte("png-bytes")},
		images: storage.NewCharacterImages(local),
		store:  resource.NewCharacterStore(),
	}
	f.runner = NewCharacterRunner(presets, resource.NewStyleCatalog(presets), f.gen, f.images, f.store, generator.NewReferenceComposer(f.images))
	f.runner.newID = sequence("c-")
	f.runner.seed = func() int64 { return 42 }
	return f
}

func TestCharacterRunner_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("生成した画像を保存して一覧に加えること", func(t *testing.T) {
		f := newCharacterFixture(t)
		c, err := f.runner.Create(ctx, "a girl with red hair", "2d")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if c.ID != "c-x" || c.Metadata.Style != "2d" || c.Metadata.Prompt != "a girl with red hair" {
			t.Errorf("character = %+v", c)
		}
		if !strings.HasSuffix(c.ImageURL, filepath.Join("character", "c-x.png")) {
			t.Errorf("ImageURL = %s", c.ImageURL)
		}
		data, err := f.images.ReadCharacter(ctx, "c-x")
		if err != nil || string(data) != "png-bytes" {
			t.Errorf("保存内容 = %q, %v", data, err)
		}

		g := f.gen.last()
		text := g["6"].Inputs["text"].(string)
		if !strings.HasPrefix(text, "a girl with red hair, ") || !strings.Contains(text, "cel-shaded") {
			t.Errorf("プロンプトにスタイルが付与されていません: %s", text)
		}
		if seed := g["8"].Inputs["seed"].(int64); seed != config.DefaultPresets().Seed {
			t.Errorf("seed = %d", seed)
		}

		snap := f.store.Snapshot()
		if len(snap.Save) != 1 || snap.Save[0].ID != "c-x" {
			t.Errorf("snapshot = %+v", snap)
		}
	})

	t.Run("未知のスタイルはエラー", func(t *testing.T) {
		f := newCharacterFixture(t)
		if _, err := f.runner.Create(ctx, "a cat", "watercolor"); err == nil {
			t.Error("エラーを期待しました")
		}
		if len(f.gen.graphs) != 0 {
			t.Error("生成は呼ばれないはずです")
		}
	})

	t.Run("空のプロンプトはエラー", func(t *testing.T) {
		f := newCharacterFixture(t)
		if _, err := f.runner.Create(ctx, "  ", "2d"); err == nil {
			t.Error("エラーを期待しました")
		}
	})

	t.Run("生成失敗は保存しないこと", func(t *testing.T) {
		f := newCharacterFixture(t)
		f.gen.err = domain.NewError(domain.CodeGenerationFailed, "closed")
		_, err := f.runner.Create(ctx, "a cat", "3d")
		if !errors.Is(err, domain.ErrGenerationFailed) {
			t.Errorf("ErrGenerationFailed を期待しました: %v", err)
		}
		if len(f.store.Snapshot().Save) != 0 {
			t.Error("一覧に追加されてはいけません")
		}
	})
}

func TestCharacterRunner_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("元画像を img2img で描き直して置き換えること", func(t *testing.T) {
		f := newCharacterFixture(t)
		orig, err := f.runner.Create(ctx, "a boy", "2d")
		if err != nil {
			t.Fatal(err)
		}

		f.gen.out = []byte("updated")
		c, err := f.runner.Update(ctx, orig.ID, "a boy with glasses", "3d")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if c.ID == orig.ID || c.Metadata.OldCharacterID != orig.ID || c.Metadata.Style != "3d" {
			t.Errorf("character = %+v", c)
		}

		g := f.gen.last()
		if g["0"].ClassType != "LoadImageFromBase64" || g["0"].Inputs["data"] != generator.EncodeImage([]byte("png-bytes")) {
			t.Errorf("元画像が渡されていません: %+v", g["0"])
		}
		if g["8"].Inputs["seed"].(int64) != 42 {
			t.Errorf("seed = %v", g["8"].Inputs["seed"])
		}

		snap := f.store.Snapshot()
		if len(snap.Save) != 1 || snap.Save[0].ID != c.ID {
			t.Errorf("置き換えられていません: %+v", snap.Save)
		}
	})

	t.Run("存在しないキャラクターは CharacterNotFound", func(t *testing.T) {
		f := newCharacterFixture(t)
		_, err := f.runner.Update(ctx, "c-missing", "x", "2d")
		if !errors.Is(err, domain.ErrCharacterNotFound) {
			t.Errorf("ErrCharacterNotFound を期待しました: %v", err)
		}
	})
}

func TestCharacterRunner_Confirm(t *testing.T) {
	f := newCharacterFixture(t)
	added := f.runner.Confirm([]string{"c-1", "c-2", "c-1"})
	if strings.Join(added, ",") != "c-1,c-2" {
		t.Errorf("added = %v", added)
	}
	if added := f.runner.Confirm([]string{"c-2"}); len(added) != 0 {
		t.Errorf("確定済みは追加されないはずです: %v", added)
	}
	if got := f.runner.Snapshot().ConfirmCharacter; len(got) != 2 {
		t.Errorf("confirmed = %v", got)
	}
}

type sceneFixture struct {
	runner *SceneRunner
	gen    *fakeGenerator
	repo   *storage.SceneRepository
	images *storage.CharacterImages
	cache  *resource.SceneCache
}

func newSceneFixture(t *testing.T) *sceneFixture {
	t.Helper()
	local, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := &sceneFixture{
		gen:    &fakeGenerator{out: []byte("scene-png")},
		repo:   storage.NewSceneRepository(local, time.Minute),
		images: storage.NewCharacterImages(local),
		cache:  resource.NewSceneCache(),
	}
	f.runner = NewSceneRunner(config.DefaultPresets(), f.gen, generator.NewReferenceComposer(f.images), f.repo, f.cache)
	f.runner.newID = sequence("scene-")
	f.runner.seed = func() int64 { return 7 }
	return f
}

func TestSceneRunner_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("キャラクター画像を混ぜたシーンを保存して記録すること", func(t *testing.T) {
		f := newSceneFixture(t)
		for _, id := range []string{"c-a", "c-b"} {
			if _, err := f.images.SaveCharacter(ctx, id, []byte(id)); err != nil {
				t.Fatal(err)
			}
		}

		rec, err := f.runner.Create(ctx, []string{"c-a", "c-b"}, "two friends at the beach")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if rec.SceneID != "scene-x" || rec.Metadata.SceneDescription != "two friends at the beach" {
			t.Errorf("record = %+v", rec)
		}

		g := f.gen.last()
		if g["21"].Inputs["data"] != generator.EncodeImage([]byte("c-a")) || g["22"].Inputs["data"] != generator.EncodeImage([]byte("c-b")) {
			t.Error("キャラクター画像が順番どおりに渡されていません")
		}
		if g["1001"].ClassType != "LatentBlend" {
			t.Errorf("LatentBlend がありません: %+v", g["1001"])
		}

		data, err := f.repo.ReadSceneBytes(ctx, "scene-x")
		if err != nil || string(data) != "scene-png" {
			t.Errorf("保存内容 = %q, %v", data, err)
		}

		list := f.cache.List()
		if len(list) != 1 {
			t.Fatalf("cache = %d 件", len(list))
		}
		var got domain.SceneRecord
		if err := json.Unmarshal(list[0], &got); err != nil || got.SceneID != "scene-x" || len(got.Metadata.CharacterIDs) != 2 {
			t.Errorf("cached = %+v, %v", got, err)
		}
	})

	t.Run("キャラクターなしでも生成できること", func(t *testing.T) {
		f := newSceneFixture(t)
		if _, err := f.runner.Create(ctx, nil, "an empty street"); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if f.gen.last()["4"].ClassType != "EmptyLatentImage" {
			t.Error("空の潜在画像から生成するはずです")
		}
	})

	t.Run("存在しないキャラクターはエラー", func(t *testing.T) {
		f := newSceneFixture(t)
		_, err := f.runner.Create(ctx, []string{"c-missing"}, "x")
		if !errors.Is(err, domain.ErrCharacterNotFound) {
			t.Errorf("ErrCharacterNotFound を期待しました: %v", err)
		}
		if len(f.cache.List()) != 0 {
			t.Error("記録されてはいけません")
		}
	})

	t.Run("説明が空ならエラー", func(t *testing.T) {
		f := newSceneFixture(t)
		if _, err := f.runner.Create(ctx, nil, ""); err == nil {
			t.Error("エラーを期待しました")
		}
	})
}

func TestSceneRunner_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("既存シーンから新しいシーンを作ること", func(t *testing.T) {
		f := newSceneFixture(t)
		if _, err := f.repo.SaveScene(ctx, "scene-src", []byte("original")); err != nil {
			t.Fatal(err)
		}
		f.gen.out = []byte("modified")

		rec, err := f.runner.Update(ctx, "scene-src", "make it night")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if rec.SceneID == "scene-src" || rec.Metadata.SourceSceneID != "scene-src" || rec.Metadata.Modification != "make it night" {
			t.Errorf("record = %+v", rec)
		}
		g := f.gen.last()
		if g["0"].Inputs["data"] != generator.EncodeImage([]byte("original")) {
			t.Error("元シーンが渡されていません")
		}
		if g["6"].Inputs["text"] != "make it night" {
			t.Errorf("text = %v", g["6"].Inputs["text"])
		}
		if data, _ := f.repo.ReadSceneBytes(ctx, "scene-src"); string(data) != "original" {
			t.Error("元のシーンは残るはずです")
		}
	})

	t.Run("存在しないシーンは SceneNotFound", func(t *testing.T) {
		f := newSceneFixture(t)
		_, err := f.runner.Update(ctx, "scene-none", "x")
		if !errors.Is(err, domain.ErrSceneNotFound) {
			t.Errorf("ErrSceneNotFound を期待しました: %v", err)
		}
	})
}

type fakePageBuilder struct {
	deadline bool
	req      publisher.BuildRequest
	ids      []string
	entries  []domain.DialogueEntry
}

func (f *fakePageBuilder) Build(ctx context.Context, req publisher.BuildRequest) (*domain.PageRecord, error) {
	_, f.deadline = ctx.Deadline()
	f.req = req
	return &domain.PageRecord{WebtoonID: "webtoon-1", SceneIDs: req.SceneIDs}, nil
}

func (f *fakePageBuilder) BuildEntries(ctx context.Context, ids []string, entries []domain.DialogueEntry) (*domain.PageRecord, error) {
	_, f.deadline = ctx.Deadline()
	f.ids, f.entries = ids, entries
	return &domain.PageRecord{WebtoonID: "webtoon-2", SceneIDs: ids}, nil
}

func TestWebtoonRunner(t *testing.T) {
	ctx := context.Background()

	t.Run("タイムアウト付きで組み立てること", func(t *testing.T) {
		b := &fakePageBuilder{}
		r := NewWebtoonRunner(b, nil, time.Minute)
		rec, err := r.Run(ctx, publisher.BuildRequest{SceneIDs: []string{"s1"}})
		if err != nil || rec.WebtoonID != "webtoon-1" {
			t.Fatalf("rec = %+v, err = %v", rec, err)
		}
		if !b.deadline {
			t.Error("期限が設定されていません")
		}
	})

	t.Run("タイムアウト 0 は期限なし", func(t *testing.T) {
		b := &fakePageBuilder{}
		if _, err := NewWebtoonRunner(b, nil, 0).Run(ctx, publisher.BuildRequest{}); err != nil {
			t.Fatal(err)
		}
		if b.deadline {
			t.Error("期限は設定されないはずです")
		}
	})

	t.Run("台本ファイルから組み立てること", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "script.json")
		body := `{"title":"t","scene_ids":["s1","s2"],"speech_bubbles":"[{\"scene_id\":\"s2\",\"text\":\"hi\"}]"}`
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		b := &fakePageBuilder{}
		rec, err := NewWebtoonRunner(b, nil, time.Minute).RunScript(ctx, path)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if rec.WebtoonID != "webtoon-2" || strings.Join(b.ids, ",") != "s1,s2" || len(b.entries) != 1 || b.entries[0].Text != "hi" {
			t.Errorf("ids = %v, entries = %+v", b.ids, b.entries)
		}
	})

	t.Run("台本が読めなければエラー", func(t *testing.T) {
		if _, err := NewWebtoonRunner(&fakePageBuilder{}, nil, 0).RunScript(ctx, "/no/such/script.json"); err == nil {
			t.Error("エラーを期待しました")
		}
	})
}

type fakeVideoBuilder struct {
	err error
}

func (f *fakeVideoBuilder) Build(_ context.Context, folder, out string) (*domain.VideoResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err := os.WriteFile(out, []byte("mp4:"+folder), 0o644); err != nil {
		return nil, err
	}
	return &domain.VideoResult{VideoURL: out, FrameCount: 3, DurationPerFrame: 2, TotalDuration: 6, Format: "mp4"}, nil
}

func TestVideoRunner(t *testing.T) {
	ctx := context.Background()

	t.Run("動画をストアの video 以下に保存すること", func(t *testing.T) {
		local, err := storage.NewLocalStore(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		r := NewVideoRunner(&fakeVideoBuilder{}, local)
		r.newName = func() string { return "video-test.mp4" }

		res, err := r.Run(ctx, "/frames")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		want := filepath.Join(local.BaseDir(), "video", "video-test.mp4")
		if res.VideoURL != want || res.TotalDuration != 6 {
			t.Errorf("res = %+v", res)
		}
		data, err := os.ReadFile(want)
		if err != nil || string(data) != "mp4:/frames" {
			t.Errorf("保存内容 = %q, %v", data, err)
		}
	})

	t.Run("エンコード失敗はそのまま返すこと", func(t *testing.T) {
		local, _ := storage.NewLocalStore(t.TempDir())
		r := NewVideoRunner(&fakeVideoBuilder{err: domain.NewError(domain.CodeNoFrames, "none")}, local)
		if _, err := r.Run(ctx, "/frames"); !errors.Is(err, domain.ErrNoFrames) {
			t.Errorf("ErrNoFrames を期待しました: %v", err)
		}
	})
}
