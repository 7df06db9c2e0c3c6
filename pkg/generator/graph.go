package generator

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/shouni/go-webtoon-kit/pkg/config"
)

// Node は ComfyUI ワークフローの1ノードです。
type Node struct {
	ClassType string         `json:"class_type"`
	Inputs    map[string]any `json:"inputs"`
}

// Graph はノード ID をキーにした ComfyUI の API 形式ワークフローです。
type Graph map[string]Node

// link は他ノードの出力への参照 ["id", index] を作ります。
func link(id string, output int) []any {
	return []any{id, output}
}

// ComfyUI の CheckpointLoaderSimple の出力番号
const (
	outModel = 0
	outClip  = 1
	outVAE   = 2
)

// FixBase64Padding は base64 文字列の末尾の "=" を補います。
func FixBase64Padding(b64 string) string {
	if r := len(b64) % 4; r != 0 {
		return b64 + strings.Repeat("=", 4-r)
	}
	return b64
}

// EncodeImage は画像のバイト列を LoadImageFromBase64 に渡せる形式にします。
func EncodeImage(data []byte) string {
	return FixBase64Padding(base64.StdEncoding.EncodeToString(data))
}

func checkpoint(p *config.Presets) Node {
	return Node{ClassType: "CheckpointLoaderSimple", Inputs: map[string]any{"ckpt_name": p.Checkpoint}}
}

func textEncode(text, ckpt string) Node {
	return Node{ClassType: "CLIPTextEncode", Inputs: map[string]any{"text": text, "clip": link(ckpt, outClip)}}
}

func sampler(p *config.Presets, ckpt, latent, positive, negative string, seed int64, denoise float64) Node {
	return Node{ClassType: "KSampler", Inputs: map[string]any{
		"model":        link(ckpt, outModel),
		"latent_image": link(latent, 0),
		"positive":     link(positive, 0),
		"negative":     link(negative, 0),
		"seed":         seed,
		"steps":        p.Sampler.Steps,
		"cfg":          p.Sampler.CFG,
		"sampler_name": p.Sampler.Name,
		"scheduler":    p.Sampler.Scheduler,
		"denoise":      denoise,
	}}
}

func decode(samples, ckpt string) Node {
	return Node{ClassType: "VAEDecode", Inputs: map[string]any{"samples": link(samples, 0), "vae": link(ckpt, outVAE)}}
}

func saveWebsocket(images string) Node {
	return Node{ClassType: "SaveImageWebsocket", Inputs: map[string]any{"images": link(images, 0)}}
}

func loadBase64(data string) Node {
	return Node{ClassType: "LoadImageFromBase64", Inputs: map[string]any{"data": data}}
}

func vaeEncode(pixels, ckpt string) Node {
	return Node{ClassType: "VAEEncode", Inputs: map[string]any{"pixels": link(pixels, 0), "vae": link(ckpt, outVAE)}}
}

func emptyLatent(p *config.Presets) Node {
	return Node{ClassType: "EmptyLatentImage", Inputs: map[string]any{
		"width":      p.Width,
		"height":     p.Height,
		"batch_size": 1,
	}}
}

// CharacterGraph はプロンプトからキャラクター画像を新規に生成するワークフローです。
func CharacterGraph(p *config.Presets, prompt string, seed int64) Graph {
	return Graph{
		"2":  checkpoint(p),
		"4":  emptyLatent(p),
		"6":  textEncode(prompt, "2"),
		"7":  textEncode(p.NegativePrompt, "2"),
		"8":  sampler(p, "2", "4", "6", "7", seed, 1),
		"9":  decode("8", "2"),
		"12": saveWebsocket("9"),
	}
}

// UpdateCharacterGraph は既存のキャラクター画像を元に img2img で描き直すワークフローです。
func UpdateCharacterGraph(p *config.Presets, imageB64, prompt string, seed int64) Graph {
	return img2img(p, imageB64, prompt, seed)
}

// UpdateSceneGraph は既存のシーン画像に修正指示を反映するワークフローです。
func UpdateSceneGraph(p *config.Presets, imageB64, modification string, seed int64) Graph {
	return img2img(p, imageB64, modification, seed)
}

func img2img(p *config.Presets, imageB64, prompt string, seed int64) Graph {
	return Graph{
		"0":  loadBase64(FixBase64Padding(imageB64)),
		"1":  vaeEncode("0", "2"),
		"2":  checkpoint(p),
		"6":  textEncode(prompt, "2"),
		"7":  textEncode(p.NegativePrompt, "2"),
		"8":  sampler(p, "2", "1", "6", "7", seed, p.Img2ImgDenoise),
		"9":  decode("8", "2"),
		"12": saveWebsocket("9"),
	}
}

// SceneGraph は登場キャラクターの画像を潜在空間で混ぜ合わせ、シーン画像を生成するワークフローです。
// キャラクター画像は順に LatentBlend で連結されます。画像がなければ空の潜在画像から生成します。
func SceneGraph(p *config.Presets, imagesB64 []string, description string, seed int64) Graph {
	const ckpt = "14"
	g := Graph{
		ckpt: checkpoint(p),
		"6":  textEncode(description, ckpt),
		"7":  textEncode(p.NegativePrompt, ckpt),
		"8":  decode("3", ckpt),
		"15": saveWebsocket("8"),
	}

	if len(imagesB64) == 0 {
		g["4"] = emptyLatent(p)
		g["3"] = sampler(p, ckpt, "4", "6", "7", seed, 1)
		return g
	}

	latents := make([]string, len(imagesB64))
	for i, img := range imagesB64 {
		loadID := strconv.Itoa(21 + i)
		encodeID := strconv.Itoa(100 + i)
		g[loadID] = loadBase64(FixBase64Padding(img))
		g[encodeID] = vaeEncode(loadID, ckpt)
		latents[i] = encodeID
	}

	last := latents[0]
	for i := 1; i < len(latents); i++ {
		blendID := strconv.Itoa(1000 + i)
		g[blendID] = Node{ClassType: "LatentBlend", Inputs: map[string]any{
			"samples1":     link(last, 0),
			"samples2":     link(latents[i], 0),
			"blend_factor": p.SceneBlendFactor,
		}}
		last = blendID
	}

	g["3"] = sampler(p, ckpt, last, "6", "7", seed, p.SceneDenoise)
	return g
}
