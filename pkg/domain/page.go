package domain

// PageRecord は組み上がった Webtoon ページの記録です。シーンキャッシュに追記されます。
type PageRecord struct {
	WebtoonID  string       `json:"webtoon_id"`
	WebtoonURL string       `json:"webtoon_url"`
	SceneIDs   []string     `json:"scene_ids"`
	Metadata   PageMetadata `json:"metadata"`
}

// PageMetadata はページ画像のジオメトリと吹き出し数です。
type PageMetadata struct {
	Width             int `json:"width"`
	Height            int `json:"height"`
	Gap               int `json:"gap"`
	SpeechBubbleCount int `json:"speech_bubble_count"`
}

// VideoResult は連結動画の生成結果です。
type VideoResult struct {
	VideoURL         string `json:"video_url"`
	FrameCount       int    `json:"frame_count"`
	DurationPerFrame int    `json:"duration_per_frame"`
	TotalDuration    int    `json:"total_duration"`
	Format           string `json:"format"`
}
