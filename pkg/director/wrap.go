package director

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxLineChars は1行あたりの文字数の目安です。
const DefaultMaxLineChars = 15

// Wrapper は文字数ベースでセリフを折り返します。ピクセル幅は測りません。
type Wrapper struct {
	MaxChars int
}

// Wrap は既定の文字数でセリフを折り返します。
func Wrap(text string) []string {
	return Wrapper{MaxChars: DefaultMaxLineChars}.Wrap(text)
}

// Wrap は空白で単語に分割し、貪欲に行へ詰めます。
// 「現在の行 + 単語 + 空白」が MaxChars を超える時点で行を閉じ、単語は分割しません。
// 空文字の入力は空文字1行を返します。
func (w Wrapper) Wrap(text string) []string {
	limit := w.MaxChars
	if limit <= 0 {
		limit = DefaultMaxLineChars
	}

	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		candidate := current + word + " "
		if utf8.RuneCountInString(candidate) > limit {
			lines = append(lines, strings.TrimSpace(current))
			current = word + " "
			continue
		}
		current = candidate
	}
	return append(lines, strings.TrimSpace(current))
}
