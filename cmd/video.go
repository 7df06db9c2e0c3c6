package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shouni/go-webtoon-kit/internal/pipeline"
)

func newVideoCmd() *cobra.Command {
	videoCmd := &cobra.Command{
		Use:   "video",
		Short: "フレーム画像から動画を作るのだ。",
	}

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "フォルダ内の PNG 画像を ffmpeg で1本の mp4 にするのだ。",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return pipeline.ExecuteVideo(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	buildCmd.Flags().StringVar(&opts.FrameFolder, "frames", "frames", "フレーム画像のフォルダなのだ。")

	videoCmd.AddCommand(buildCmd)
	return videoCmd
}
