package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/shouni/go-webtoon-kit/pkg/domain"
)

// binaryHeaderSize は SaveImageWebsocket が画像の前に付けるヘッダーの長さです。
const binaryHeaderSize = 8

// HTTPDoer は ComfyUI へのリクエストを送る HTTP クライアントです。
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ComfyClient は ComfyUI にワークフローを送り、WebSocket で生成画像を受け取るクライアントです。
type ComfyClient struct {
	baseURL    *url.URL
	httpClient HTTPDoer
	dialer     *websocket.Dialer
	limiter    *rate.Limiter
}

// NewComfyClient は ComfyClient を作成します。interval が0以下ならリクエスト間隔を制限しません。
func NewComfyClient(baseURL string, interval time.Duration, httpClient HTTPDoer) (*ComfyClient, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("ComfyUI の URL が不正です (%s): %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("ComfyUI の URL は http か https である必要があります: %s", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	return &ComfyClient{
		baseURL:    u,
		httpClient: httpClient,
		dialer:     websocket.DefaultDialer,
		limiter:    rate.NewLimiter(limit, 1),
	}, nil
}

type promptRequest struct {
	Prompt   Graph  `json:"prompt"`
	ClientID string `json:"client_id"`
}

type promptResponse struct {
	PromptID   string          `json:"prompt_id"`
	NodeErrors json.RawMessage `json:"node_errors,omitempty"`
}

type statusMessage struct {
	Type string `json:"type"`
	Data struct {
		PromptID         string `json:"prompt_id"`
		Node             any    `json:"node"`
		ExceptionMessage string `json:"exception_message"`
	} `json:"data"`
}

// Generate はワークフローを実行し、最初に届いた画像のバイト列を返します。
func (c *ComfyClient) Generate(ctx context.Context, graph Graph) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	clientID := uuid.NewString()
	logger := slog.With("client_id", clientID, "nodes", len(graph))

	conn, _, err := c.dialer.DialContext(ctx, c.wsURL(clientID), nil)
	if err != nil {
		return nil, domain.WrapError(domain.CodeGenerationFailed, "ComfyUI への WebSocket 接続に失敗しました", err)
	}
	defer conn.Close()

	// コンテキストが終わったら読み込み待ちを解除する
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	promptID, err := c.queuePrompt(ctx, graph, clientID)
	if err != nil {
		return nil, err
	}
	logger = logger.With("prompt_id", promptID)
	logger.InfoContext(ctx, "ComfyUI にワークフローを送信しました")

	startTime := time.Now()
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, domain.WrapError(domain.CodeGenerationFailed, "画像を受信する前に WebSocket が閉じられました", err)
		}

		switch msgType {
		case websocket.TextMessage:
			var msg statusMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				logger.Debug("解釈できないメッセージを無視します", "error", err)
				continue
			}
			if msg.Data.PromptID != "" && promptID != "" && msg.Data.PromptID != promptID {
				continue
			}
			switch msg.Type {
			case "executing":
				logger.Debug("ノードを実行中です", "node", msg.Data.Node)
			case "execution_error":
				return nil, domain.NewError(domain.CodeGenerationFailed, fmt.Sprintf("ComfyUI の実行に失敗しました: %s", msg.Data.ExceptionMessage))
			}
		case websocket.BinaryMessage:
			if len(data) <= binaryHeaderSize {
				return nil, domain.NewError(domain.CodeGenerationFailed, fmt.Sprintf("受信した画像データが短すぎます: %d bytes", len(data)))
			}
			logger.InfoContext(ctx, "画像を受信しました", "bytes", len(data)-binaryHeaderSize, "duration", time.Since(startTime).Round(time.Millisecond))
			return data[binaryHeaderSize:], nil
		}
	}
}

func (c *ComfyClient) wsURL(clientID string) string {
	u := *c.baseURL
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	u.RawQuery = url.Values{"clientId": {clientID}}.Encode()
	return u.String()
}

func (c *ComfyClient) queuePrompt(ctx context.Context, graph Graph, clientID string) (string, error) {
	body, err := json.Marshal(promptRequest{Prompt: graph, ClientID: clientID})
	if err != nil {
		return "", fmt.Errorf("ワークフローの JSON 変換に失敗しました: %w", err)
	}

	endpoint := c.baseURL.JoinPath("prompt").String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("リクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.WrapError(domain.CodeGenerationFailed, "ワークフローの送信に失敗しました", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", domain.WrapError(domain.CodeGenerationFailed, "レスポンスの読み込みに失敗しました", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", domain.NewError(domain.CodeGenerationFailed, fmt.Sprintf("ComfyUI がワークフローを拒否しました (status %d): %s", resp.StatusCode, bytes.TrimSpace(respBody)))
	}

	var pr promptResponse
	if err := json.Unmarshal(respBody, &pr); err != nil {
		return "", domain.WrapError(domain.CodeGenerationFailed, "レスポンスの解析に失敗しました", err)
	}
	return pr.PromptID, nil
}
