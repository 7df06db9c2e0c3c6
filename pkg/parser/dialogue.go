package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

// ParseSpeechBubbles はセリフ入力を DialogueEntry の列に正規化します。
// 入力は JSON 配列、または配列をエンコードした JSON 文字列のどちらでも構いません。
// 空入力と null はセリフなしとして扱います。
func ParseSpeechBubbles(raw json.RawMessage) ([]domain.DialogueEntry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var entries []domain.DialogueEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, domain.WrapError(domain.CodeInvalidDialogueFormat, "speech_bubbles の配列を解析できません", err)
		}
		return entries, nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, domain.WrapError(domain.CodeInvalidDialogueFormat, "speech_bubbles の文字列を解析できません", err)
		}
		return NormalizeDialogueString(s)
	default:
		return nil, domain.NewError(domain.CodeInvalidDialogueFormat, fmt.Sprintf("speech_bubbles は配列か文字列である必要があります: %.32s", trimmed))
	}
}

// NormalizeDialogueString は呼び出し元でエスケープされたセリフ文字列を解析します。
// \" を " に戻し、前後の空白を除き、全体を囲む引用符が1組あれば外してから JSON として読みます。
func NormalizeDialogueString(s string) ([]domain.DialogueEntry, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, `\"`, `"`))
	if len(cleaned) >= 2 && strings.HasPrefix(cleaned, `"`) && strings.HasSuffix(cleaned, `"`) {
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	var entries []domain.DialogueEntry
	if err := json.Unmarshal([]byte(cleaned), &entries); err != nil {
		return nil, domain.WrapError(domain.CodeInvalidDialogueFormat, "speech_bubbles 文字列を JSON に変換できません", err)
	}
	return entries, nil
}
