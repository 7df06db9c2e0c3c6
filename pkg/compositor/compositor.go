package compositor

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/shouni/go-webtoon-kit/pkg/bubble"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

// DefaultGap はページ内のシーン間の余白（px）です。
const DefaultGap = 50

// Painter は吹き出しをラスター画像に描き込むインターフェースです。
// *bubble.Renderer が実装します。
type Painter interface {
	Draw(dst *image.RGBA, b *bubble.Bubble, at image.Point) error
}

// Placed は配置位置が決まった吹き出しです。At はシーン画像内の左上座標です。
type Placed struct {
	Bubble *bubble.Bubble
	At     image.Point
}

// OverlayBubbles はシーン画像のコピーに吹き出しを配置順に重ねます。
// 入力画像は変更しません。後の吹き出しほど手前に描かれます。
func OverlayBubbles(scene image.Image, placed []Placed, p Painter) (*image.RGBA, error) {
	if scene == nil {
		return nil, domain.NewError(domain.CodeInvalidDimensions, "scene image is nil")
	}
	b := scene.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, domain.NewError(domain.CodeInvalidDimensions, fmt.Sprintf("scene size must be positive: %dx%d", b.Dx(), b.Dy()))
	}

	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), scene, b.Min, draw.Src)

	for i, pl := range placed {
		if err := p.Draw(out, pl.Bubble, pl.At); err != nil {
			return nil, fmt.Errorf("%d番目の吹き出しの描画に失敗しました: %w", i, err)
		}
	}
	return out, nil
}

// StackPage は画像を入力順に縦に並べた1枚のページを作成します。
// 幅は最大幅、高さは各画像の高さの合計に gap×(n−1) を加えたもので、背景は不透明な白です。
// 各画像は左端に揃えて配置します。
func StackPage(images []image.Image, gap int) (*image.RGBA, error) {
	if len(images) == 0 {
		return nil, domain.NewError(domain.CodeInvalidCanvasDimensions, "no images to stack")
	}
	if gap < 0 {
		return nil, domain.NewError(domain.CodeInvalidCanvasDimensions, fmt.Sprintf("gap must not be negative: %d", gap))
	}

	width, height := 0, gap*(len(images)-1)
	for i, img := range images {
		if img == nil {
			return nil, domain.NewError(domain.CodeInvalidCanvasDimensions, fmt.Sprintf("image %d is nil", i))
		}
		b := img.Bounds()
		width = max(width, b.Dx())
		height += b.Dy()
	}
	if width <= 0 || height <= 0 {
		return nil, domain.NewError(domain.CodeInvalidCanvasDimensions, fmt.Sprintf("canvas size must be positive: %dx%d", width, height))
	}

	page := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(page, page.Bounds(), image.White, image.Point{}, draw.Src)

	top := 0
	for _, img := range images {
		b := img.Bounds()
		target := image.Rect(0, top, b.Dx(), top+b.Dy())
		draw.Draw(page, target, img, b.Min, draw.Over)
		top += b.Dy() + gap
	}
	return page, nil
}

// EncodePNG は画像を PNG のバイト列にエンコードします。
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("PNG エンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}
