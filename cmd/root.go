package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shouni/go-webtoon-kit/internal/config"
)

// opts は各サブコマンドのフラグが書き込む実行時パラメータなのだ。
var opts config.RunOptions

// NewRootCmd は、すべてのサブコマンドを束ねたルートコマンドを作るのだ。
// main.go から fang 経由で実行されるのだよ。
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "webtoon-kit",
		Short: "ComfyUI で生成したシーンに吹き出しを重ねて Webtoon を作るのだ。",
		Long: `キャラクターとシーンの画像を ComfyUI で生成し、
セリフの吹き出しを重ねて縦に連結した Webtoon ページや、フレーム動画を作るのだ。
結果はすべて JSON で標準出力に書き出されるのだよ。`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env があれば読み込むのだ（なくても問題ないのだ）
			_ = godotenv.Load()
		},
	}

	rootCmd.AddCommand(
		newWebtoonCmd(),
		newCharacterCmd(),
		newSceneCmd(),
		newVideoCmd(),
		newStylesCmd(),
	)
	return rootCmd
}

// loadConfig は環境変数から設定を読み込み、フラグの値を反映するのだ。
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	cfg.Options = opts
	return cfg, nil
}
