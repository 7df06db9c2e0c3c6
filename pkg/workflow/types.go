package workflow

import (
	"context"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
	"github.com/shouni/go-webtoon-kit/pkg/publisher"
	"github.com/shouni/go-webtoon-kit/pkg/resource"
)

// WorkflowBuilder は、Webtoon 制作の各工程を担う Runner を構築するためのビルダー・インターフェースを定義します。
type WorkflowBuilder interface {
	BuildCharacterRunner() (CharacterRunner, error)
	BuildSceneRunner() (SceneRunner, error)
	BuildWebtoonRunner() (WebtoonRunner, error)
	BuildVideoRunner() (VideoRunner, error)
}

// CharacterRunner は、プロンプトとスタイルからキャラクター画像を生成・更新し、シーンで使うキャラクターを確定する責務を持ちます。
type CharacterRunner interface {
	Create(ctx context.Context, prompt, style string) (*domain.Character, error)
	Update(ctx context.Context, oldID, prompt, style string) (*domain.Character, error)
	Confirm(ids []string) []string
	Snapshot() resource.CharacterSnapshot
}

// SceneRunner は、キャラクター画像と説明文からシーン画像を生成する責務を持ちます。
type SceneRunner interface {
	Create(ctx context.Context, characterIDs []string, description string) (*domain.SceneRecord, error)
	Update(ctx context.Context, sceneID, modification string) (*domain.SceneRecord, error)
}

// WebtoonRunner は、シーンに吹き出しを重ねて縦長のページを組み立てる責務を持ちます。
type WebtoonRunner interface {
	Run(ctx context.Context, req publisher.BuildRequest) (*domain.PageRecord, error)
	RunScript(ctx context.Context, path string) (*domain.PageRecord, error)
}

// VideoRunner は、フレーム画像のフォルダから動画を作る責務を持ちます。
type VideoRunner interface {
	Run(ctx context.Context, frameFolder string) (*domain.VideoResult, error)
}
