package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

const (
	fieldKeyText    = "text"
	fieldKeySpeaker = "speaker"
)

// MarkdownParser はMarkdown形式の台本を解析し、domain.Script に変換する構造体です。
//
//	# タイトル
//	## Scene scene-1
//	- speaker: hero
//	- text: こんにちは
//	## Scene scene-2
type MarkdownParser struct{}

// NewMarkdownParser は MarkdownParser を初期化するのだ。
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{}
}

// Parse は Markdown テキストを解析します。シーンの並びは見出しの出現順になります。
// speaker は直後の text の話者として扱い、"話者: セリフ" の形でセリフに付けます。
func (p *MarkdownParser) Parse(input string) (*domain.Script, error) {
	script := &domain.Script{}
	var currentScene, speaker string

	for _, line := range strings.Split(input, "\n") {
		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == "" {
			continue
		}

		if m := SceneRegex.FindStringSubmatch(trimmedLine); m != nil {
			currentScene = m[1]
			speaker = ""
			script.SceneIDs = append(script.SceneIDs, currentScene)
			continue
		}

		if m := TitleRegex.FindStringSubmatch(trimmedLine); m != nil {
			script.Title = strings.TrimSpace(m[1])
			continue
		}

		if currentScene == "" {
			continue
		}
		m := FieldRegex.FindStringSubmatch(trimmedLine)
		if m == nil {
			continue
		}
		key, val := strings.ToLower(m[1]), strings.TrimSpace(m[2])
		switch key {
		case fieldKeySpeaker:
			speaker = val
		case fieldKeyText:
			text := val
			if speaker != "" {
				text = speaker + ": " + val
				speaker = ""
			}
			script.SpeechBubbles = append(script.SpeechBubbles, domain.DialogueEntry{SceneID: currentScene, Text: text})
		default:
			slog.Debug("Markdown内に未知のフィールドキーが見つかりました", "key", key)
		}
	}

	if len(script.SceneIDs) == 0 {
		return nil, fmt.Errorf("有効なシーン情報が見つかりませんでした")
	}
	return script, nil
}
