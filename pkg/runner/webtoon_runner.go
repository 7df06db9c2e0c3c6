package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/parser"
	"github.com/shouni/go-webtoon-kit/pkg/publisher"
)

// PageBuilder はシーンとセリフから Webtoon ページを組み立てます。*publisher.WebtoonPublisher が実装します。
type PageBuilder interface {
	Build(ctx context.Context, req publisher.BuildRequest) (*domain.PageRecord, error)
	BuildEntries(ctx context.Context, sceneIDs []string, entries []domain.DialogueEntry) (*domain.PageRecord, error)
}

// WebtoonRunner はタイムアウト付きでページ組み立てを実行します。
type WebtoonRunner struct {
	builder PageBuilder
	parser  parser.Parser
	timeout time.Duration
}

// NewWebtoonRunner は WebtoonRunner を初期化します。timeout が 0 以下ならタイムアウトを設けません。
func NewWebtoonRunner(builder PageBuilder, p parser.Parser, timeout time.Duration) *WebtoonRunner {
	if p == nil {
		p = parser.NewScriptParser()
	}
	return &WebtoonRunner{builder: builder, parser: p, timeout: timeout}
}

// Run はリクエストからページを組み立てます。
func (r *WebtoonRunner) Run(ctx context.Context, req publisher.BuildRequest) (*domain.PageRecord, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.builder.Build(ctx, req)
}

// RunScript は台本ファイル（JSON または Markdown）を読み込んでページを組み立てます。
func (r *WebtoonRunner) RunScript(ctx context.Context, path string) (*domain.PageRecord, error) {
	script, err := r.parser.ParseFromPath(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("台本の読み込みに失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "WebtoonRunner: 台本を読み込みました", "title", script.Title, "scenes", len(script.SceneIDs))

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.builder.BuildEntries(ctx, script.SceneIDs, script.SpeechBubbles)
}

func (r *WebtoonRunner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}
