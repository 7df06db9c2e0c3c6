package domain

import "image"

// SceneImage は生成済みのシーン画像です。読み込み後は変更されません。
type SceneImage struct {
	ID    string
	Image image.Image
}

// Width はシーン画像の幅（px）を返します。
func (s *SceneImage) Width() int {
	return s.Image.Bounds().Dx()
}

// Height はシーン画像の高さ（px）を返します。
func (s *SceneImage) Height() int {
	return s.Image.Bounds().Dy()
}

// SceneRecord はシーン生成結果としてシーンキャッシュに追記される記録です。
type SceneRecord struct {
	SceneID  string        `json:"scene_id"`
	ImageURL string        `json:"image_url"`
	Metadata SceneMetadata `json:"metadata"`
}

// SceneMetadata はシーン生成時の入力を保持します。
type SceneMetadata struct {
	CharacterIDs     []string `json:"character_ids,omitempty"`
	SceneDescription string   `json:"scene_description,omitempty"`
	SourceSceneID    string   `json:"source_scene_id,omitempty"`
	Modification     string   `json:"modification,omitempty"`
}
