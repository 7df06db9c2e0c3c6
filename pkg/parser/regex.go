package parser

import "regexp"

var (
	// TitleRegex は "# タイトル" 形式のタイトル行をキャプチャします。
	TitleRegex = regexp.MustCompile(`^#\s+(.+)`)

	// SceneRegex は "## Scene <scene_id>" 形式のシーン区切り行からIDをキャプチャします。
	SceneRegex = regexp.MustCompile(`^##\s+[Ss]cene\s+(\S+)`)

	// FieldRegex は "- key: value" 形式のフィールド行をキャプチャします。
	FieldRegex = regexp.MustCompile(`^\s*-\s*([a-zA-Z_]+):\s*(.+)`)
)
