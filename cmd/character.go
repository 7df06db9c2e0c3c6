package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shouni/go-webtoon-kit/internal/pipeline"
)

func newCharacterCmd() *cobra.Command {
	characterCmd := &cobra.Command{
		Use:   "character",
		Short: "キャラクター画像を生成・更新するのだ。",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "プロンプトとスタイルから新しいキャラクターを生成するのだ。",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Prompt == "" {
				return fmt.Errorf("--prompt を指定してほしいのだ")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return pipeline.ExecuteCharacterCreate(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	createCmd.Flags().StringVar(&opts.Prompt, "prompt", "", "キャラクターの説明なのだ。")
	createCmd.Flags().StringVar(&opts.Style, "style", "2d", "画像スタイル ID（styles コマンドで確認できるのだ）。")

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "既存キャラクターを元に新しいプロンプトで描き直すのだ。",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.CharacterID == "" {
				return fmt.Errorf("更新するキャラクター（--id）を指定してほしいのだ")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return pipeline.ExecuteCharacterUpdate(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	updateCmd.Flags().StringVar(&opts.CharacterID, "id", "", "元にするキャラクター ID なのだ。")
	updateCmd.Flags().StringVar(&opts.Prompt, "prompt", "", "新しいキャラクターの説明なのだ。")
	updateCmd.Flags().StringVar(&opts.Style, "style", "2d", "画像スタイル ID なのだ。")

	confirmCmd := &cobra.Command{
		Use:   "confirm <character-id>...",
		Short: "シーンに使うキャラクターを確定するのだ。",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.Options.CharacterIDs = args
			return pipeline.ExecuteCharacterConfirm(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	characterCmd.AddCommand(createCmd, updateCmd, confirmCmd)
	return characterCmd
}
