package resource

import (
	"slices"
	"sync"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

// CharacterURI はキャラクター一覧のリソース URI です。
const CharacterURI = "resource://character"

// CharacterSnapshot は保存済みキャラクターと確定済み ID の一覧です。
type CharacterSnapshot struct {
	Save             []domain.Character `json:"save"`
	ConfirmCharacter []string           `json:"confirmCharacter"`
}

// CharacterStore は生成されたキャラクターと、シーン生成に使うと確定した ID を保持します。
type CharacterStore struct {
	mu        sync.RWMutex
	saved     []domain.Character
	confirmed []string
}

// NewCharacterStore は空の CharacterStore を作成します。
func NewCharacterStore() *CharacterStore {
	return &CharacterStore{}
}

// Save はキャラクターを末尾に追加します。
func (s *CharacterStore) Save(c domain.Character) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, c)
}

// Replace は oldID のキャラクターを c で置き換えます。見つからなければ末尾に追加します。
func (s *CharacterStore) Replace(oldID string, c domain.Character) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.saved, func(x domain.Character) bool { return x.ID == oldID })
	if i < 0 {
		s.saved = append(s.saved, c)
		return
	}
	s.saved[i] = c
}

// Confirm は ID を確定済みに加えます。既に確定済みの ID と入力内の重複は無視します。
// 今回新たに加わった ID を返します。
func (s *CharacterStore) Confirm(ids []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added []string
	for _, id := range ids {
		if id == "" || slices.Contains(s.confirmed, id) {
			continue
		}
		s.confirmed = append(s.confirmed, id)
		added = append(added, id)
	}
	return added
}

// Find は ID からキャラクターを探します。
func (s *CharacterStore) Find(id string) (domain.Character, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.saved, func(x domain.Character) bool { return x.ID == id })
	if i < 0 {
		return domain.Character{}, false
	}
	return s.saved[i], true
}

// Snapshot は現在の状態のコピーを返します。
func (s *CharacterStore) Snapshot() CharacterSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return CharacterSnapshot{
		Save:             append([]domain.Character{}, s.saved...),
		ConfirmCharacter: append([]string{}, s.confirmed...),
	}
}
