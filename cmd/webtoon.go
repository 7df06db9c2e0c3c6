package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shouni/go-webtoon-kit/internal/pipeline"
)

func newWebtoonCmd() *cobra.Command {
	webtoonCmd := &cobra.Command{
		Use:   "webtoon",
		Short: "Webtoon ページを扱うのだ。",
	}

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "シーンに吹き出しを重ねて1枚の縦長ページにするのだ。",
		Long: `指定したシーン画像を順に読み込み、セリフの吹き出しを重ねてから縦に連結するのだ。
--speech-bubbles には JSON 配列か、配列をエンコードした文字列を渡せるのだよ。
--script を指定すると JSON または Markdown の台本からシーンとセリフを読み込むのだ。`,
		RunE: webtoonBuildCommand,
	}
	buildCmd.Flags().StringSliceVar(&opts.SceneIDs, "scene-ids", nil, "連結するシーン ID（上から順）なのだ。")
	buildCmd.Flags().StringVar(&opts.SpeechBubbles, "speech-bubbles", "", "セリフの一覧（[{\"scene_id\":...,\"text\":...}]）なのだ。")
	buildCmd.Flags().StringVar(&opts.ScriptFile, "script", "", "台本ファイル（.json / .md）のパスなのだ。")

	webtoonCmd.AddCommand(buildCmd)
	return webtoonCmd
}

func webtoonBuildCommand(cmd *cobra.Command, args []string) error {
	if opts.ScriptFile == "" && len(opts.SceneIDs) == 0 {
		return fmt.Errorf("シーン（--scene-ids または --script）を指定してほしいのだ")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	slog.Info("Webtoon ページの組み立てを起動するのだ！",
		"scenes", len(opts.SceneIDs),
		"script", opts.ScriptFile,
		"storage", cfg.StorageBackend)
	return pipeline.ExecuteWebtoon(cmd.Context(), cfg, cmd.OutOrStdout())
}
