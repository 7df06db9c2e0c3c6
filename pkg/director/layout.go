package director

import (
	"fmt"
	"math"

	"github.com/shouni/go-webtoon-kit/pkg/bubble"
	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

const (
	// DefaultWidthRatio はシーン幅に対する吹き出し幅の割合です。
	DefaultWidthRatio = 0.3
	// DefaultMargin は左右端からの余白（px）です。
	DefaultMargin = 20
	// DefaultTopOffset は最初の吹き出しの上端位置（px）です。
	DefaultTopOffset = 20
	// DefaultPitch は吹き出しを縦に積む間隔（px）です。
	DefaultPitch = 120
)

// BubbleSpec は1つの吹き出しの配置とサイズです。
type BubbleSpec struct {
	Index  int
	Width  int
	Height int
	Left   int
	Top    int
	Lines  []string
}

// Planner は吹き出しの座標や配置ルールを管理します。
// 衝突回避は行わず、吹き出しがシーンの下端をはみ出すこともそのまま許容します。
type Planner struct {
	Wrapper    Wrapper
	WidthRatio float64
	Margin     int
	TopOffset  int
	Pitch      int
}

// NewPlanner は既定値で初期化された Planner を返します。
func NewPlanner() *Planner {
	return &Planner{
		Wrapper:    Wrapper{MaxChars: DefaultMaxLineChars},
		WidthRatio: DefaultWidthRatio,
		Margin:     DefaultMargin,
		TopOffset:  DefaultTopOffset,
		Pitch:      DefaultPitch,
	}
}

// BubbleWidth はシーン幅から吹き出し幅を求めます（切り捨て）。
func (p *Planner) BubbleWidth(sceneWidth int) int {
	return int(math.Floor(float64(sceneWidth) * p.WidthRatio))
}

// Plan はシーン内のセリフ順に吹き出しの配置を決定します。
// 偶数番目は左寄せ、奇数番目は右寄せで、上から Pitch ずつ積みます。
func (p *Planner) Plan(sceneWidth int, texts []string) ([]BubbleSpec, error) {
	if sceneWidth <= 0 {
		return nil, domain.NewError(domain.CodeInvalidDimensions, fmt.Sprintf("scene width must be positive: %d", sceneWidth))
	}

	width := p.BubbleWidth(sceneWidth)
	specs := make([]BubbleSpec, 0, len(texts))
	for i, text := range texts {
		lines := p.Wrapper.Wrap(text)
		left := p.Margin
		if i%2 != 0 {
			left = sceneWidth - width - p.Margin
		}
		specs = append(specs, BubbleSpec{
			Index:  i,
			Width:  width,
			Height: bubble.HeightFor(len(lines)),
			Left:   left,
			Top:    p.TopOffset + i*p.Pitch,
			Lines:  lines,
		})
	}
	return specs, nil
}
