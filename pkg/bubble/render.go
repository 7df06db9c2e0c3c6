package bubble

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

// Renderer は Bubble をラスター画像に描き込みます。
// 解析済みフォントは共有し、Face は Draw のたびに作るため複数のゴルーチンから同時に使えます。
type Renderer struct {
	font *truetype.Font
	size float64
}

// NewRenderer は TrueType フォントのバイト列から Renderer を作成します。
// ttf が空の場合は同梱の Go Regular を使います。
func NewRenderer(ttf []byte, size float64) (*Renderer, error) {
	if len(ttf) == 0 {
		ttf = goregular.TTF
	}
	if size <= 0 {
		size = FontSize
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("フォントのパースに失敗しました: %w", err)
	}
	return &Renderer{font: f, size: size}, nil
}

// NewRendererFromFile はフォントファイルを読み込んで Renderer を作成します。
// path が空の場合は同梱フォントを使います。
func NewRendererFromFile(path string, size float64) (*Renderer, error) {
	if path == "" {
		return NewRenderer(nil, size)
	}
	ttf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("フォントファイルの読み込みに失敗しました (%s): %w", path, err)
	}
	return NewRenderer(ttf, size)
}

// newFace は描画用の Face を作成します。truetype の Face はゴルーチン安全ではありません。
func (r *Renderer) newFace() font.Face {
	return truetype.NewFace(r.font, &truetype.Options{
		Size:    r.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Draw は dst の at の位置に吹き出しを描きます。dst の範囲外は切り捨てられます。
func (r *Renderer) Draw(dst *image.RGBA, b *Bubble, at image.Point) error {
	if b.Width <= 0 || b.Height <= 0 {
		return domain.NewError(domain.CodeInvalidDimensions, fmt.Sprintf("bubble size must be positive: %dx%d", b.Width, b.Height))
	}

	x := float64(at.X)
	y := float64(at.Y)
	w := float64(b.Width)
	h := float64(b.Height)
	half := float64(StrokeWidth) / 2

	gc := draw2dimg.NewGraphicContext(dst)
	gc.Save()
	gc.SetLineCap(draw2d.RoundCap)
	gc.SetLineJoin(draw2d.RoundJoin)
	gc.SetLineWidth(StrokeWidth)
	gc.SetStrokeColor(color.Black)
	gc.SetFillColor(color.White)
	draw2dkit.RoundedRectangle(gc, x+half, y+half, x+w-half, y+h-half, CornerRadius*2, CornerRadius*2)
	gc.FillStroke()
	gc.Restore()

	face := r.newFace()
	defer face.Close()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	metrics := face.Metrics()
	// 行の中心線にグリフの縦中央を合わせる
	middle := (metrics.Ascent - metrics.Descent) / 2
	for i, line := range b.Lines {
		if line == "" {
			continue
		}
		width := d.MeasureString(line)
		cx := fixed.I(at.X + b.Width/2)
		cy := fixed.I(at.Y + b.LineY(i))
		d.Dot = fixed.Point26_6{X: cx - width/2, Y: cy + middle}
		d.DrawString(line)
	}
	return nil
}
