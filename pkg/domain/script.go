package domain

// Script はページ1枚分の構成（シーンの並びとセリフ）です。
// CLI の台本ファイルから読み込まれ、そのままページ組み立ての入力になります。
type Script struct {
	Title         string          `json:"title,omitempty"`
	SceneIDs      []string        `json:"scene_ids"`
	SpeechBubbles []DialogueEntry `json:"speech_bubbles"`
}
