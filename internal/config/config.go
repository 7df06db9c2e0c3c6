package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shouni/go-utils/envutil"

	kitconfig "github.com/shouni/go-webtoon-kit/pkg/config"
)

// ストレージの種類なのだ
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Config はアプリケーション全体の環境設定（保存先や ComfyUI の接続先）を保持する構造体なのだ。
type Config struct {
	kitconfig.Config

	DataDir        string
	StorageBackend string
	S3Bucket       string
	S3Prefix       string
	AWSRegion      string
	AWSEndpointURL string
	S3PathStyle    bool

	Options RunOptions
}

// RunOptions は CLI フラグから渡される実行時のパラメータなのだ。
type RunOptions struct {
	// Webtoon ページ
	SceneIDs      []string // --scene-ids
	SpeechBubbles string   // --speech-bubbles
	ScriptFile    string   // --script

	// キャラクター
	CharacterID  string   // --id
	CharacterIDs []string // --character-ids
	Prompt       string   // --prompt
	Style        string   // --style

	// シーン
	SceneID      string // --scene-id
	Description  string // --description
	Modification string // --modification

	// 動画
	FrameFolder string // --frames
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
// 数値や時間の書式が不正な場合はエラーになります。
func LoadConfig() (*Config, error) {
	base := kitconfig.DefaultConfig()
	base.ComfyURL = envutil.GetEnv("COMFYUI_URL", base.ComfyURL)
	base.Checkpoint = envutil.GetEnv("COMFYUI_CHECKPOINT", "")
	base.FontPath = envutil.GetEnv("WEBTOON_FONT_PATH", "")
	base.FFmpegPath = envutil.GetEnv("FFMPEG_PATH", base.FFmpegPath)

	var err error
	if base.FontSize, err = floatEnv("WEBTOON_FONT_SIZE", base.FontSize); err != nil {
		return nil, err
	}
	if base.Concurrency, err = intEnv("WEBTOON_CONCURRENCY", base.Concurrency); err != nil {
		return nil, err
	}
	if base.Gap, err = intEnv("WEBTOON_GAP", base.Gap); err != nil {
		return nil, err
	}
	if base.FrameDuration, err = intEnv("FRAME_DURATION", base.FrameDuration); err != nil {
		return nil, err
	}
	if base.BuildTimeout, err = durationEnv("BUILD_TIMEOUT", base.BuildTimeout); err != nil {
		return nil, err
	}
	if base.RateInterval, err = durationEnv("RATE_INTERVAL", base.RateInterval); err != nil {
		return nil, err
	}
	if base.RequestTimeout, err = durationEnv("COMFYUI_TIMEOUT", base.RequestTimeout); err != nil {
		return nil, err
	}
	if base.SceneCacheTTL, err = durationEnv("SCENE_CACHE_TTL", base.SceneCacheTTL); err != nil {
		return nil, err
	}

	cfg := &Config{
		Config:         base,
		DataDir:        envutil.GetEnv("WEBTOON_DATA_DIR", kitconfig.DefaultDataDir),
		StorageBackend: envutil.GetEnv("STORAGE_BACKEND", BackendLocal),
		S3Bucket:       envutil.GetEnv("S3_BUCKET", ""),
		S3Prefix:       envutil.GetEnv("S3_PREFIX", ""),
		AWSRegion:      envutil.GetEnv("AWS_REGION", ""),
		AWSEndpointURL: envutil.GetEnv("AWS_ENDPOINT_URL", ""),
	}
	if cfg.S3PathStyle, err = boolEnv("AWS_S3_FORCE_PATH_STYLE", false); err != nil {
		return nil, err
	}

	switch cfg.StorageBackend {
	case BackendLocal:
	case BackendS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("STORAGE_BACKEND=s3 の場合は S3_BUCKET が必須なのだ")
		}
	default:
		return nil, fmt.Errorf("未知の STORAGE_BACKEND です: %q", cfg.StorageBackend)
	}
	return cfg, nil
}

func intEnv(key string, def int) (int, error) {
	v := envutil.GetEnv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s の値が不正です: %w", key, err)
	}
	return n, nil
}

func floatEnv(key string, def float64) (float64, error) {
	v := envutil.GetEnv(key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s の値が不正です: %w", key, err)
	}
	return f, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := envutil.GetEnv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s の値が不正です: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := envutil.GetEnv(key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s の値が不正です: %w", key, err)
	}
	return b, nil
}
