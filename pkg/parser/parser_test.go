package parser

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

func TestParseSpeechBubbles(t *testing.T) {
	structured := []domain.DialogueEntry{{SceneID: "s1", Text: "hi"}}

	tests := []struct {
		name string
		raw  string
		want []domain.DialogueEntry
	}{
		{name: "配列形式", raw: `[{"scene_id":"s1","text":"hi"}]`, want: structured},
		{name: "文字列形式", raw: `"[{\"scene_id\":\"s1\",\"text\":\"hi\"}]"`, want: structured},
		{name: "二重にエスケープされた文字列", raw: `"[{\\\"scene_id\\\":\\\"s1\\\",\\\"text\\\":\\\"hi\\\"}]"`, want: structured},
		{name: "引用符で囲まれた文字列", raw: `"\"[{\"scene_id\":\"s1\",\"text\":\"hi\"}]\""`, want: structured},
		{name: "前後の空白", raw: `"  [{\"scene_id\":\"s1\",\"text\":\"hi\"}]  "`, want: structured},
		{name: "null はセリフなし", raw: `null`, want: nil},
		{name: "空入力はセリフなし", raw: ``, want: nil},
		{name: "空配列", raw: `[]`, want: []domain.DialogueEntry{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSpeechBubbles(json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("予期しないエラー: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseSpeechBubbles_Invalid(t *testing.T) {
	inputs := map[string]string{
		"壊れたJSON文字列": `"[{\"scene_id\":\"s1\""`,
		"空文字列":       `""`,
		"オブジェクト":     `{"scene_id":"s1"}`,
		"数値":         `42`,
		"壊れた配列":      `[{"scene_id":1}]`,
	}
	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSpeechBubbles(json.RawMessage(raw))
			if !errors.Is(err, domain.ErrInvalidDialogueFormat) {
				t.Errorf("ErrInvalidDialogueFormat を期待しました: %v", err)
			}
		})
	}

	t.Run("元のパースエラーのメッセージを含むこと", func(t *testing.T) {
		_, err := NormalizeDialogueString(`[{"scene_id":`)
		var syntaxErr *json.SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Errorf("json.SyntaxError を含むべきです: %v", err)
		}
	})
}

func TestMarkdownParser_Parse(t *testing.T) {
	input := `# 最初の一日

## Scene s1
- text: おはよう
- speaker: Mina
- text: hello there
- mood: sunny

## Scene s2

## scene s3
- text: bye
`
	script, err := NewMarkdownParser().Parse(input)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if script.Title != "最初の一日" {
		t.Errorf("Title = %q", script.Title)
	}
	if want := []string{"s1", "s2", "s3"}; !reflect.DeepEqual(script.SceneIDs, want) {
		t.Errorf("SceneIDs = %v", script.SceneIDs)
	}
	want := []domain.DialogueEntry{
		{SceneID: "s1", Text: "おはよう"},
		{SceneID: "s1", Text: "Mina: hello there"},
		{SceneID: "s3", Text: "bye"},
	}
	if !reflect.DeepEqual(script.SpeechBubbles, want) {
		t.Errorf("SpeechBubbles = %+v", script.SpeechBubbles)
	}

	t.Run("シーンがなければエラー", func(t *testing.T) {
		if _, err := NewMarkdownParser().Parse("# title only\n- text: orphan"); err == nil {
			t.Error("エラーを期待しました")
		}
	})
}

func TestScriptParser_ParseFromPath(t *testing.T) {
	dir := t.TempDir()
	p := NewScriptParser()
	ctx := context.Background()

	t.Run("JSON台本の文字列形式のセリフ", func(t *testing.T) {
		path := filepath.Join(dir, "page.json")
		body := `{"scene_ids":["a","b"],"speech_bubbles":"[{\"scene_id\":\"b\",\"text\":\"yo\"}]"}`
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		script, err := p.ParseFromPath(ctx, path)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if !reflect.DeepEqual(script.SceneIDs, []string{"a", "b"}) || len(script.SpeechBubbles) != 1 {
			t.Errorf("script = %+v", script)
		}
	})

	t.Run("Markdown台本", func(t *testing.T) {
		path := filepath.Join(dir, "page.md")
		if err := os.WriteFile(path, []byte("## Scene x\n- text: hi\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		script, err := p.ParseFromPath(ctx, path)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if script.SceneIDs[0] != "x" || script.SpeechBubbles[0].Text != "hi" {
			t.Errorf("script = %+v", script)
		}
	})

	t.Run("存在しないファイル", func(t *testing.T) {
		if _, err := p.ParseFromPath(ctx, filepath.Join(dir, "missing.json")); err == nil {
			t.Error("エラーを期待しました")
		}
	})
}
