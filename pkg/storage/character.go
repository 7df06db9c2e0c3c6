package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/shouni/go-webtoon-kit/pkg/asset"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

// CharacterImages はキャラクター画像を Store に読み書きします。
type CharacterImages struct {
	store Store
}

// NewCharacterImages は CharacterImages を作成します。
func NewCharacterImages(store Store) *CharacterImages {
	return &CharacterImages{store: store}
}

// ReadCharacter はキャラクター画像を読み込みます。存在しない場合は CharacterNotFound を返します。
func (c *CharacterImages) ReadCharacter(ctx context.Context, id string) ([]byte, error) {
	if err := asset.ValidateID(id); err != nil {
		return nil, domain.WrapError(domain.CodeCharacterNotFound, fmt.Sprintf("character %q not found", id), err)
	}
	data, err := c.store.Read(ctx, asset.CharacterKey(id))
	if errors.Is(err, ErrNotFound) {
		return nil, domain.WrapError(domain.CodeCharacterNotFound, fmt.Sprintf("character %q not found", id), err)
	}
	if err != nil {
		return nil, domain.WrapError(domain.CodeStorageError, fmt.Sprintf("character %q could not be read", id), err)
	}
	return data, nil
}

// SaveCharacter はキャラクター画像を保存し、保存先の場所を返します。
func (c *CharacterImages) SaveCharacter(ctx context.Context, id string, data []byte) (string, error) {
	if err := asset.ValidateID(id); err != nil {
		return "", domain.WrapError(domain.CodeStorageError, "invalid character id", err)
	}
	loc, err := c.store.Write(ctx, asset.CharacterKey(id), data, "image/png")
	if err != nil {
		return "", domain.WrapError(domain.CodeStorageError, fmt.Sprintf("character %q could not be written", id), err)
	}
	return loc, nil
}
