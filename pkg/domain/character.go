package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Character は生成済みキャラクター画像の記録です。
type Character struct {
	ID       string            `json:"character_id"`
	ImageURL string            `json:"image_url"`
	Metadata CharacterMetadata `json:"metadata"`
}

// CharacterMetadata はキャラクター生成時のプロンプトとスタイルです。
type CharacterMetadata struct {
	Style          string `json:"style"`
	Prompt         string `json:"prompt"`
	OldCharacterID string `json:"old_character_id,omitempty"`
}

// String はキャラクターの情報を文字列で返します。
func (c Character) String() string {
	return fmt.Sprintf("%s (%s)", c.ID, c.Metadata.Style)
}

// GetSeedFromPrompt はプロンプトから決定論的なシード値を生成します。
func GetSeedFromPrompt(prompt string) int64 {
	hash := sha256.Sum256([]byte(prompt))
	seed := int64(binary.BigEndian.Uint64(hash[:8]))
	// サンプラーには正の数を渡すのだ
	return seed & 0x7FFFFFFFFFFFFFFF
}
