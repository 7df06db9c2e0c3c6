package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shouni/go-webtoon-kit/internal/pipeline"
)

func newSceneCmd() *cobra.Command {
	sceneCmd := &cobra.Command{
		Use:   "scene",
		Short: "シーン画像を生成・更新するのだ。",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "キャラクター画像と説明文からシーンを生成するのだ。",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Description == "" {
				return fmt.Errorf("シーンの説明（--description）を指定してほしいのだ")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return pipeline.ExecuteSceneCreate(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	createCmd.Flags().StringSliceVar(&opts.CharacterIDs, "character-ids", nil, "登場させるキャラクター ID なのだ。")
	createCmd.Flags().StringVar(&opts.Description, "description", "", "シーンの説明なのだ。")

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "既存シーンに修正指示を反映した新しいシーンを作るのだ。",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.SceneID == "" {
				return fmt.Errorf("元にするシーン（--scene-id）を指定してほしいのだ")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return pipeline.ExecuteSceneUpdate(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	updateCmd.Flags().StringVar(&opts.SceneID, "scene-id", "", "元にするシーン ID なのだ。")
	updateCmd.Flags().StringVar(&opts.Modification, "modification", "", "修正指示なのだ。")

	sceneCmd.AddCommand(createCmd, updateCmd)
	return sceneCmd
}
