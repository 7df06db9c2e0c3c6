package generator

import (
	"strings"
)

// BuildPrompt は利用者のプロンプトにスタイルのサフィックスを付けた最終プロンプトを返します。
// 空の要素は除かれます。
func BuildPrompt(prompt, styleSuffix string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{prompt, styleSuffix} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
