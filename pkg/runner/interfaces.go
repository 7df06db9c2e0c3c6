package runner

import (
	"context"
	"math/rand/v2"

	"github.com/google/uuid"
)

// CharacterImageStore はキャラクター画像の読み書きを行います。
type CharacterImageStore interface {
	ReadCharacter(ctx context.Context, id string) ([]byte, error)
	SaveCharacter(ctx context.Context, id string, data []byte) (string, error)
}

// SceneImageStore はシーン画像の読み書きを行います。
type SceneImageStore interface {
	ReadSceneBytes(ctx context.Context, id string) ([]byte, error)
	SaveScene(ctx context.Context, id string, data []byte) (string, error)
}

// RecordAppender は生成記録をシーンキャッシュに追記します。
type RecordAppender interface {
	Append(ctx context.Context, record any) error
}

// randomSeedLimit は再生成時に使うシード値の上限です。
const randomSeedLimit = 100000

func randomSeed() int64 {
	return rand.Int64N(randomSeedLimit)
}

func newCharacterID() string { return "c-" + uuid.NewString() }

func newSceneID() string { return "scene-" + uuid.NewString() }

func newVideoName() string { return "video-" + uuid.NewString() + ".mp4" }
