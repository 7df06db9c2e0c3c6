package bubble

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

const (
	// LineHeight は1行あたりの高さ（px）です。
	LineHeight = 28
	// Padding は行数に加算される上下の余白の合計（px）です。
	Padding = 40
	// FirstBaseline は1行目の中心線の y 座標（px）です。
	FirstBaseline = 40
	// CornerRadius は角丸の半径（px）です。
	CornerRadius = 16
	// StrokeWidth は枠線の太さ（px）です。
	StrokeWidth = 2
	// FontSize は文字サイズ（px）です。
	FontSize = 24
)

const (
	rectAttrs = `fill="white" stroke="black" stroke-width="2"`
	textAttrs = `dominant-baseline="middle" text-anchor="middle" font-size="24" font-family="Arial" fill="black"`
)

// HeightFor は行数から吹き出しの高さを求めます。
func HeightFor(lineCount int) int {
	return LineHeight*lineCount + Padding
}

// Bubble は角丸矩形と中央揃えのテキスト行からなるベクター形式の吹き出しです。
type Bubble struct {
	Lines  []string
	Width  int
	Height int
}

// New は折り返し済みの行と幅から吹き出しを作成します。
func New(lines []string, width int) (*Bubble, error) {
	height := HeightFor(len(lines))
	if width <= 0 || height <= 0 {
		return nil, domain.NewError(domain.CodeInvalidDimensions, fmt.Sprintf("bubble size must be positive: %dx%d", width, height))
	}
	return &Bubble{Lines: lines, Width: width, Height: height}, nil
}

// LineY は i 行目の中心線の y 座標を返します。
func (b *Bubble) LineY(i int) int {
	return FirstBaseline + i*LineHeight
}

// SVG は吹き出しを単体で描画可能な SVG として書き出します。
func (b *Bubble) SVG() ([]byte, error) {
	if b.Width <= 0 || b.Height <= 0 {
		return nil, domain.NewError(domain.CodeInvalidDimensions, fmt.Sprintf("bubble size must be positive: %dx%d", b.Width, b.Height))
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(b.Width, b.Height)
	canvas.Roundrect(0, 0, b.Width, b.Height, CornerRadius, CornerRadius, rectAttrs)
	for i, line := range b.Lines {
		canvas.Text(b.Width/2, b.LineY(i), line, textAttrs)
	}
	canvas.End()
	return buf.Bytes(), nil
}
