package video

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shouni/go-webtoon-kit/pkg/asset"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

const (
	// DefaultDurationPerFrame は1フレームあたりの表示秒数です。
	DefaultDurationPerFrame = 2
	// Format は出力する動画の形式です。
	Format = "mp4"
)

// CommandRunner は外部コマンドを実行し、標準出力と標準エラーをまとめて返します。
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Builder はフォルダ内の PNG 画像を ffmpeg の concat で1本の動画にします。
type Builder struct {
	ffmpeg   string
	duration int
	runner   CommandRunner
}

// NewBuilder は Builder を作成します。runner が nil なら os/exec で ffmpeg を実行します。
func NewBuilder(ffmpegPath string, durationPerFrame int, runner CommandRunner) *Builder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if durationPerFrame <= 0 {
		durationPerFrame = DefaultDurationPerFrame
	}
	if runner == nil {
		runner = execRunner{}
	}
	return &Builder{ffmpeg: ffmpegPath, duration: durationPerFrame, runner: runner}
}

// ListFrames はフォルダ内の PNG 画像を表示順に返します。
// すべてが frame_<n>.png 形式なら連番順、そうでなければファイル名順です。
func ListFrames(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("フレームフォルダの読み込みに失敗しました (%s): %w", folder, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			continue
		}
		names = append(names, e.Name())
	}

	indexed := len(names) > 0
	for _, n := range names {
		if _, ok := asset.FrameIndex(n); !ok {
			indexed = false
			break
		}
	}
	if indexed {
		sort.Slice(names, func(i, j int) bool {
			a, _ := asset.FrameIndex(names[i])
			b, _ := asset.FrameIndex(names[j])
			return a < b
		})
	} else {
		sort.Strings(names)
	}

	frames := make([]string, len(names))
	for i, n := range names {
		frames[i] = filepath.Join(folder, n)
	}
	return frames, nil
}

// ConcatList は ffmpeg concat demuxer 用のファイルリストを作ります。
// 最後のフレームは duration なしでもう一度並べないと表示時間が反映されません。
func ConcatList(frames []string, durationPerFrame int) string {
	var sb strings.Builder
	for i, f := range frames {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "file '%s'\nduration %d", quotePath(f), durationPerFrame)
	}
	if len(frames) > 0 {
		fmt.Fprintf(&sb, "\nfile '%s'", quotePath(frames[len(frames)-1]))
	}
	return sb.String()
}

// quotePath は concat リスト内で使えるようにパスを整えます。
func quotePath(p string) string {
	p = filepath.ToSlash(p)
	return strings.ReplaceAll(p, "'", `'\''`)
}

// Build は frameFolder 内の PNG を outputPath の動画にまとめます。
func (b *Builder) Build(ctx context.Context, frameFolder, outputPath string) (*domain.VideoResult, error) {
	folder, err := filepath.Abs(frameFolder)
	if err != nil {
		return nil, fmt.Errorf("フレームフォルダの解決に失敗しました: %w", err)
	}
	frames, err := ListFrames(folder)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, domain.NewError(domain.CodeNoFrames, fmt.Sprintf("no PNG images found in %s", folder))
	}

	list, err := os.CreateTemp("", "filelist-*.txt")
	if err != nil {
		return nil, fmt.Errorf("ファイルリストの作成に失敗しました: %w", err)
	}
	listPath := list.Name()
	defer os.Remove(listPath)

	if _, err := list.WriteString(ConcatList(frames, b.duration)); err != nil {
		list.Close()
		return nil, fmt.Errorf("ファイルリストの書き込みに失敗しました: %w", err)
	}
	if err := list.Close(); err != nil {
		return nil, fmt.Errorf("ファイルリストの書き込みに失敗しました: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}

	args := []string{"-y", "-f", "concat", "-safe", "0", "-i", listPath, "-vsync", "vfr", "-pix_fmt", "yuv420p", outputPath}
	slog.InfoContext(ctx, "ffmpeg で動画を生成します", "frames", len(frames), "output", outputPath)
	startTime := time.Now()

	out, err := b.runner.Run(ctx, b.ffmpeg, args...)
	if err != nil {
		return nil, domain.WrapError(domain.CodeEncoderFailed, fmt.Sprintf("ffmpeg execution failed: %s", lastLines(string(out), 5)), err)
	}
	slog.InfoContext(ctx, "動画を生成しました", "output", outputPath, "duration", time.Since(startTime).Round(time.Millisecond))

	return &domain.VideoResult{
		VideoURL:         outputPath,
		FrameCount:       len(frames),
		DurationPerFrame: b.duration,
		TotalDuration:    len(frames) * b.duration,
		Format:           Format,
	}, nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
