package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

type fakeRunner struct {
	name string
	args []string
	list string
	out  []byte
	err  error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.name, f.args = name, args
	for i, a := range args {
		if a == "-i" && i+1 < len(args) {
			data, _ := os.ReadFile(args[i+1])
			f.list = string(data)
		}
	}
	if f.err != nil {
		return f.out, f.err
	}
	return f.out, os.WriteFile(args[len(args)-1], []byte("mp4"), 0o644)
}

func writeFrames(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("png"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestListFrames(t *testing.T) {
	t.Run("連番のフレームは数値順", func(t *testing.T) {
		dir := t.TempDir()
		writeFrames(t, dir, "frame_10.png", "frame_2.png", "frame_1.png", "notes.txt")
		frames, err := ListFrames(dir)
		if err != nil {
			t.Fatal(err)
		}
		var got []string
		for _, f := range frames {
			got = append(got, filepath.Base(f))
		}
		if strings.Join(got, ",") != "frame_1.png,frame_2.png,frame_10.png" {
			t.Errorf("frames = %v", got)
		}
	})

	t.Run("それ以外は名前順", func(t *testing.T) {
		dir := t.TempDir()
		writeFrames(t, dir, "scene-b.png", "scene-a.png", "frame_1.png")
		frames, err := ListFrames(dir)
		if err != nil {
			t.Fatal(err)
		}
		if filepath.Base(frames[0]) != "frame_1.png" || filepath.Base(frames[2]) != "scene-b.png" {
			t.Errorf("frames = %v", frames)
		}
	})
}

func TestConcatList(t *testing.T) {
	got := ConcatList([]string{"/a/1.png", "/a/it's.png"}, 2)
	want := "file '/a/1.png'\nduration 2\nfile '/a/it'\\''s.png'\nduration 2\nfile '/a/it'\\''s.png'"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if ConcatList(nil, 2) != "" {
		t.Error("フレームなしは空のはずです")
	}
}

func TestBuilder_Build(t *testing.T) {
	ctx := context.Background()

	t.Run("ffmpeg に concat リストを渡すこと", func(t *testing.T) {
		dir := t.TempDir()
		writeFrames(t, dir, "scene-1.png", "scene-2.png", "scene-3.png")
		out := filepath.Join(t.TempDir(), "video", "out.mp4")
		r := &fakeRunner{}

		res, err := NewBuilder("", 0, r).Build(ctx, dir, out)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if res.FrameCount != 3 || res.DurationPerFrame != 2 || res.TotalDuration != 6 || res.Format != "mp4" || res.VideoURL != out {
			t.Errorf("res = %+v", res)
		}
		if r.name != "ffmpeg" {
			t.Errorf("name = %s", r.name)
		}
		joined := strings.Join(r.args, " ")
		if !strings.HasPrefix(joined, "-y -f concat -safe 0 -i ") || !strings.HasSuffix(joined, "-vsync vfr -pix_fmt yuv420p "+out) {
			t.Errorf("args = %v", r.args)
		}
		if strings.Count(r.list, "duration 2") != 3 || strings.Count(r.list, "file '") != 4 {
			t.Errorf("list = %s", r.list)
		}
		for i, a := range r.args {
			if a == "-i" {
				if _, err := os.Stat(r.args[i+1]); !os.IsNotExist(err) {
					t.Error("一時ファイルリストが削除されていません")
				}
			}
		}
	})

	t.Run("PNG がなければ NoFrames", func(t *testing.T) {
		_, err := NewBuilder("", 0, &fakeRunner{}).Build(ctx, t.TempDir(), filepath.Join(t.TempDir(), "x.mp4"))
		if !errors.Is(err, domain.ErrNoFrames) {
			t.Errorf("ErrNoFrames を期待しました: %v", err)
		}
	})

	t.Run("ffmpeg の失敗は EncoderFailed", func(t *testing.T) {
		dir := t.TempDir()
		writeFrames(t, dir, "a.png")
		r := &fakeRunner{out: []byte("line1\nUnknown encoder"), err: errors.New("exit status 1")}
		_, err := NewBuilder("/usr/bin/ffmpeg", 3, r).Build(ctx, dir, filepath.Join(t.TempDir(), "x.mp4"))
		if !errors.Is(err, domain.ErrEncoderFailed) {
			t.Errorf("ErrEncoderFailed を期待しました: %v", err)
		}
		if err != nil && !strings.Contains(err.Error(), "Unknown encoder") {
			t.Errorf("ffmpeg の出力を含むべきです: %v", err)
		}
	})

	t.Run("存在しないフォルダはエラー", func(t *testing.T) {
		if _, err := NewBuilder("", 0, &fakeRunner{}).Build(ctx, "/no/such/dir", "/tmp/x.mp4"); err == nil {
			t.Error("エラーを期待しました")
		}
	})
}
