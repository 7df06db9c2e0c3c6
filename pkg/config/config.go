package config

import (
	"time"
)

// デフォルト値の定義
const (
	DefaultDataDir        = "output"
	DefaultComfyURL       = "http://127.0.0.1:8188"
	DefaultRateInterval   = 2 * time.Second
	DefaultRequestTimeout = 5 * time.Minute
	DefaultBuildTimeout   = 2 * time.Minute
	DefaultConcurrency    = 4
	DefaultFontSize       = 24
	DefaultGap            = 50
	DefaultFFmpegPath     = "ffmpeg"
	DefaultFrameDuration  = 2
	DefaultSceneCacheTTL  = 5 * time.Minute
)

// Config は Go Webtoon Kit の各 Runner を動作させるための基本設定です。
type Config struct {
	// --- Generation Backend (ComfyUI) ---
	ComfyURL       string
	Checkpoint     string // 空ならプリセットの値
	RateInterval   time.Duration
	RequestTimeout time.Duration

	// --- Composition ---
	FontPath     string // 空なら同梱フォント
	FontSize     float64
	Gap          int
	Concurrency  int
	BuildTimeout time.Duration

	// --- Video ---
	FFmpegPath    string
	FrameDuration int // 秒

	// --- Cache ---
	SceneCacheTTL time.Duration
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		ComfyURL:       DefaultComfyURL,
		RateInterval:   DefaultRateInterval,
		RequestTimeout: DefaultRequestTimeout,
		FontSize:       DefaultFontSize,
		Gap:            DefaultGap,
		Concurrency:    DefaultConcurrency,
		BuildTimeout:   DefaultBuildTimeout,
		FFmpegPath:     DefaultFFmpegPath,
		FrameDuration:  DefaultFrameDuration,
		SceneCacheTTL:  DefaultSceneCacheTTL,
	}
}
