package resource

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shouni/go-webtoon-kit/pkg/config"
)

// ImageStyleURI は画像スタイル一覧のリソース URI です。
const ImageStyleURI = "resource://imageStyle"

// StyleCatalog は選択可能な画像スタイルの一覧です。
type StyleCatalog struct {
	styles []config.StylePreset
}

// NewStyleCatalog はプリセットからカタログを作成します。
func NewStyleCatalog(p *config.Presets) *StyleCatalog {
	return &StyleCatalog{styles: slices.Clone(p.Styles)}
}

// List はスタイルの一覧を返します。
func (c *StyleCatalog) List() []config.StylePreset {
	return slices.Clone(c.styles)
}

// IDs はスタイル ID の一覧を返します。
func (c *StyleCatalog) IDs() []string {
	ids := make([]string, len(c.styles))
	for i, s := range c.styles {
		ids[i] = s.ID
	}
	return ids
}

// Lookup は ID からスタイルを探します。未知の ID はエラーになります。
func (c *StyleCatalog) Lookup(id string) (config.StylePreset, error) {
	for _, s := range c.styles {
		if s.ID == id {
			return s, nil
		}
	}
	return config.StylePreset{}, fmt.Errorf("未知のスタイルです: %q (利用可能: %s)", id, strings.Join(c.IDs(), ", "))
}
