package domain

// DialogueEntry は特定のシーンに付与されるセリフ1件です。
type DialogueEntry struct {
	SceneID string `json:"scene_id"`
	Text    string `json:"text"`
}

// DialogueGroups はシーンIDごとにまとめたセリフ本文です。
type DialogueGroups map[string][]string

// GroupByScene はセリフを scene_id ごとにまとめます。
// 同じシーン内の順序は入力順のまま保持されます。
func GroupByScene(entries []DialogueEntry) DialogueGroups {
	groups := make(DialogueGroups)
	for _, e := range entries {
		groups[e.SceneID] = append(groups[e.SceneID], e.Text)
	}
	return groups
}

// Texts は指定シーンのセリフを返します。存在しない場合は nil です。
func (g DialogueGroups) Texts(sceneID string) []string {
	if g == nil {
		return nil
	}
	return g[sceneID]
}
