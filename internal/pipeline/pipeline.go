package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/go-webtoon-kit/internal/builder"
	"github.com/shouni/go-webtoon-kit/internal/config"
	"github.com/shouni/go-webtoon-kit/pkg/publisher"
)

// ExecuteWebtoon は、シーン ID とセリフ（または台本ファイル）から Webtoon ページを組み立てるのだ。
func ExecuteWebtoon(ctx context.Context, cfg *config.Config, w io.Writer) error {
	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	webtoonRunner, err := builder.BuildWebtoonRunner(appCtx)
	if err != nil {
		return fmt.Errorf("WebtoonRunnerの構築に失敗したのだ: %w", err)
	}

	opts := cfg.Options
	if opts.ScriptFile != "" {
		rec, err := webtoonRunner.RunScript(ctx, opts.ScriptFile)
		if err != nil {
			return fmt.Errorf("Webtoon ページの組み立てに失敗したのだ: %w", err)
		}
		return writeJSON(w, rec)
	}

	req := publisher.BuildRequest{SceneIDs: opts.SceneIDs}
	if opts.SpeechBubbles != "" {
		req.SpeechBubbles = speechBubblesJSON(opts.SpeechBubbles)
	}
	rec, err := webtoonRunner.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("Webtoon ページの組み立てに失敗したのだ: %w", err)
	}
	slog.Info("Webtoon ページが完成したのだ！", "webtoon_id", rec.WebtoonID, "url", rec.WebtoonURL)
	return writeJSON(w, rec)
}

// ExecuteCharacterCreate は、プロンプトとスタイルから新しいキャラクターを生成するのだ。
func ExecuteCharacterCreate(ctx context.Context, cfg *config.Config, w io.Writer) error {
	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	characterRunner, err := builder.BuildCharacterRunner(appCtx)
	if err != nil {
		return fmt.Errorf("CharacterRunnerの構築に失敗したのだ: %w", err)
	}
	c, err := characterRunner.Create(ctx, cfg.Options.Prompt, cfg.Options.Style)
	if err != nil {
		return fmt.Errorf("キャラクターの生成に失敗したのだ: %w", err)
	}
	return writeJSON(w, c)
}

// ExecuteCharacterUpdate は、既存キャラクターを元に描き直すのだ。
func ExecuteCharacterUpdate(ctx context.Context, cfg *config.Config, w io.Writer) error {
	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	characterRunner, err := builder.BuildCharacterRunner(appCtx)
	if err != nil {
		return fmt.Errorf("CharacterRunnerの構築に失敗したのだ: %w", err)
	}
	opts := cfg.Options
	c, err := characterRunner.Update(ctx, opts.CharacterID, opts.Prompt, opts.Style)
	if err != nil {
		return fmt.Errorf("キャラクターの更新に失敗したのだ: %w", err)
	}
	return writeJSON(w, c)
}

// ExecuteCharacterConfirm は、シーン生成に使うキャラクターを確定して一覧を出力するのだ。
// 存在しないキャラクターは確定できません。
func ExecuteCharacterConfirm(ctx context.Context, cfg *config.Config, w io.Writer) error {
	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	for _, id := range cfg.Options.CharacterIDs {
		if _, err := appCtx.Manager.Characters().ReadCharacter(ctx, id); err != nil {
			return fmt.Errorf("キャラクターの確定に失敗したのだ: %w", err)
		}
	}
	characterRunner, err := builder.BuildCharacterRunner(appCtx)
	if err != nil {
		return fmt.Errorf("CharacterRunnerの構築に失敗したのだ: %w", err)
	}
	characterRunner.Confirm(cfg.Options.CharacterIDs)
	return writeJSON(w, characterRunner.Snapshot())
}

// ExecuteSceneCreate は、キャラクター画像と説明文からシーンを生成するのだ。
func ExecuteSceneCreate(ctx context.Context, cfg *config.Config, w io.Writer) error {
	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	sceneRunner, err := builder.BuildSceneRunner(appCtx)
	if err != nil {
		return fmt.Errorf("SceneRunnerの構築に失敗したのだ: %w", err)
	}
	rec, err := sceneRunner.Create(ctx, cfg.Options.CharacterIDs, cfg.Options.Description)
	if err != nil {
		return fmt.Errorf("シーンの生成に失敗したのだ: %w", err)
	}
	return writeJSON(w, rec)
}

// ExecuteSceneUpdate は、既存シーンに修正指示を反映した新しいシーンを作るのだ。
func ExecuteSceneUpdate(ctx context.Context, cfg *config.Config, w io.Writer) error {
	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	sceneRunner, err := builder.BuildSceneRunner(appCtx)
	if err != nil {
		return fmt.Errorf("SceneRunnerの構築に失敗したのだ: %w", err)
	}
	rec, err := sceneRunner.Update(ctx, cfg.Options.SceneID, cfg.Options.Modification)
	if err != nil {
		return fmt.Errorf("シーンの更新に失敗したのだ: %w", err)
	}
	return writeJSON(w, rec)
}

// ExecuteVideo は、フォルダ内の PNG 画像を連結した動画を作るのだ。
func ExecuteVideo(ctx context.Context, cfg *config.Config, w io.Writer) error {
	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	videoRunner, err := builder.BuildVideoRunner(appCtx)
	if err != nil {
		return err
	}
	res, err := videoRunner.Run(ctx, cfg.Options.FrameFolder)
	if err != nil {
		return fmt.Errorf("動画の生成に失敗したのだ: %w", err)
	}
	return writeJSON(w, res)
}

// ExecuteStyles は、選択可能な画像スタイルの一覧を出力するのだ。
func ExecuteStyles(ctx context.Context, cfg *config.Config, w io.Writer) error {
	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	return writeJSON(w, appCtx.Manager.Styles().List())
}

// speechBubblesJSON はフラグで渡されたセリフを BuildRequest 用の JSON にするのだ。
// 配列ならそのまま、それ以外は JSON 文字列として渡して正規化に任せます。
func speechBubblesJSON(s string) json.RawMessage {
	if json.Valid([]byte(s)) {
		var probe []json.RawMessage
		if json.Unmarshal([]byte(s), &probe) == nil {
			return json.RawMessage(s)
		}
	}
	quoted, _ := json.Marshal(s)
	return quoted
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("結果の出力に失敗したのだ: %w", err)
	}
	return nil
}
