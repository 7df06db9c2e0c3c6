package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

// Parser は台本ファイルを解析するためのインターフェースを定義します。
type Parser interface {
	ParseFromPath(ctx context.Context, path string) (*domain.Script, error)
}

// ScriptParser は拡張子に応じて JSON または Markdown の台本を解析する構造体です。
type ScriptParser struct {
	markdown *MarkdownParser
}

// NewScriptParser は新しい ScriptParser インスタンスを生成します。
func NewScriptParser() *ScriptParser {
	return &ScriptParser{markdown: NewMarkdownParser()}
}

// scriptFile は JSON 台本の読み込み用の形です。speech_bubbles は文字列形式も受け付けます。
type scriptFile struct {
	Title         string          `json:"title"`
	SceneIDs      []string        `json:"scene_ids"`
	SpeechBubbles json.RawMessage `json:"speech_bubbles"`
}

// ParseFromPath はローカルファイルから台本を読み込み、domain.Script を返します。
// .md / .markdown は Markdown、それ以外は JSON として扱います。
func (p *ScriptParser) ParseFromPath(ctx context.Context, path string) (*domain.Script, error) {
	slog.InfoContext(ctx, "台本ファイルを読み込んでいます", "path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("台本ファイルの読み込みに失敗しました (%s): %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return p.markdown.Parse(string(data))
	default:
		return ParseJSONScript(data)
	}
}

// ParseJSONScript は JSON 形式の台本を解析します。
func ParseJSONScript(data []byte) (*domain.Script, error) {
	var f scriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("台本JSONのパースに失敗しました: %w", err)
	}
	entries, err := ParseSpeechBubbles(f.SpeechBubbles)
	if err != nil {
		return nil, err
	}
	return &domain.Script{Title: f.Title, SceneIDs: f.SceneIDs, SpeechBubbles: entries}, nil
}
