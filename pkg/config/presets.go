package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresetsYAML []byte

// SamplerPreset は KSampler ノードのパラメータです。
type SamplerPreset struct {
	Steps     int     `yaml:"steps"`
	CFG       float64 `yaml:"cfg"`
	Name      string  `yaml:"sampler_name"`
	Scheduler string  `yaml:"scheduler"`
}

// StylePreset は選択可能な画像スタイルです。
type StylePreset struct {
	ID           string `yaml:"id" json:"id"`
	Label        string `yaml:"label" json:"label"`
	PromptSuffix string `yaml:"prompt_suffix" json:"-"`
}

// Presets は画像生成ワークフローの共通設定です。
type Presets struct {
	Checkpoint       string        `yaml:"checkpoint"`
	NegativePrompt   string        `yaml:"negative_prompt"`
	Width            int           `yaml:"width"`
	Height           int           `yaml:"height"`
	Seed             int64         `yaml:"seed"`
	Sampler          SamplerPreset `yaml:"sampler"`
	Img2ImgDenoise   float64       `yaml:"img2img_denoise"`
	SceneDenoise     float64       `yaml:"scene_denoise"`
	SceneBlendFactor float64       `yaml:"scene_blend_factor"`
	Styles           []StylePreset `yaml:"styles"`
}

// LoadPresets は YAML からプリセットを読み込みます。data が空なら同梱の既定値を使います。
func LoadPresets(data []byte) (*Presets, error) {
	if len(data) == 0 {
		data = defaultPresetsYAML
	}
	p := &Presets{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("プリセットYAMLのパースに失敗しました: %w", err)
	}
	if p.Checkpoint == "" {
		return nil, fmt.Errorf("プリセットに checkpoint がありません")
	}
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("プリセットの画像サイズが不正です: %dx%d", p.Width, p.Height)
	}
	if len(p.Styles) == 0 {
		return nil, fmt.Errorf("プリセットに styles がありません")
	}
	return p, nil
}

// DefaultPresets は同梱のプリセットを返します。
func DefaultPresets() *Presets {
	p, err := LoadPresets(nil)
	if err != nil {
		panic(err)
	}
	return p
}
