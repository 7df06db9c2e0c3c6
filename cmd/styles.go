package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shouni/go-webtoon-kit/internal/pipeline"
)

func newStylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "選択可能な画像スタイルの一覧を表示するのだ。",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return pipeline.ExecuteStyles(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}
