package asset

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/shouni/go-utils/urlpath"
)

// 保存先のキーの先頭に付く種類ごとのディレクトリ名です。
const (
	KindCharacter = "character"
	KindScene     = "scene"
	KindWebtoon   = "webtoon"
	KindVideo     = "video"
)

const (
	// ImageExt は生成画像の拡張子です。
	ImageExt = ".png"
	// VideoExt は生成動画の拡張子です。
	VideoExt = ".mp4"
	// DefaultFrameFileName は動画用フレームの共通のベースファイル名です。
	DefaultFrameFileName = "frame.png"
	// DefaultVideoName は動画ファイル名のデフォルトです。
	DefaultVideoName = "webtoon.mp4"
)

// Kinds はストレージ初期化時に用意するディレクトリの一覧です。
var Kinds = []string{KindCharacter, KindScene, KindVideo, KindWebtoon}

var (
	// FrameFileRegex はフレーム画像 (frame_1.png 等) に一致し、連番をキャプチャします。
	FrameFileRegex = createIndexedRegex(DefaultFrameFileName)
)

// CharacterKey はキャラクター画像の保存キーを返します。
func CharacterKey(id string) string { return path.Join(KindCharacter, id+ImageExt) }

// SceneKey はシーン画像の保存キーを返します。
func SceneKey(id string) string { return path.Join(KindScene, id+ImageExt) }

// WebtoonKey はページ画像の保存キーを返します。
func WebtoonKey(id string) string { return path.Join(KindWebtoon, id+ImageExt) }

// VideoKey は動画の保存キーを返します。拡張子がなければ .mp4 を付けます。
func VideoKey(name string) string {
	if filepath.Ext(name) == "" {
		name += VideoExt
	}
	return path.Join(KindVideo, name)
}

// ValidateID はキーに埋め込む ID がパスとして安全かどうかを検証します。
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("IDが空です")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("IDにパス区切りは使えません: %q", id)
	}
	return nil
}

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolveOutputPath(baseDir, fileName)
}

// FrameIndex はフレーム画像のファイル名から連番を取り出します。
// 連番付きの名前でなければ ok は false です。
func FrameIndex(fileName string) (index int, ok bool) {
	m := FrameFileRegex.FindStringSubmatch(fileName)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// createIndexedRegex は、ファイル名に基づきインデックス付きファイル用の正規表現を生成します。
// 例: "frame.png" -> ^frame_(\d+)\.png$
func createIndexedRegex(fileName string) *regexp.Regexp {
	ext := filepath.Ext(fileName)
	baseName := strings.TrimSuffix(fileName, ext)

	pattern := fmt.Sprintf(`^%s_(\d+)%s$`, regexp.QuoteMeta(baseName), regexp.QuoteMeta(ext))
	return regexp.MustCompile(pattern)
}
