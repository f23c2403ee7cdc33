package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/clip-image-kit/pkg/domain"
)

// ネイティブホストを信頼はするが検証する方針のため、不正な応答は
// クラッシュではなく一般化された失敗として扱います。
const genericBridgeError = "native host returned an invalid response"

// Client はネイティブホストとの要求・応答チャネルの呼び出し側です。
// 応答の形が崩れていてもパニックせず、常に BridgeResponse を返します。
type Client struct {
	r io.Reader
	w io.Writer
}

// NewClient はホストへの読み書きストリームを注入して Client を初期化します。
func NewClient(r io.Reader, w io.Writer) (*Client, error) {
	if r == nil {
		return nil, fmt.Errorf("reader is required")
	}
	if w == nil {
		return nil, fmt.Errorf("writer is required")
	}
	return &Client{r: r, w: w}, nil
}

// wireResponse は応答の検証用です。Success が欠けた応答を区別するため
// ポインタで受けます。
type wireResponse struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// Send は要求を 1 件送り、対応する応答を待ちます。
// 送受信エラー・不正な応答はすべて失敗応答に変換され、エラーとしては返しません。
func (c *Client) Send(ctx context.Context, req domain.BridgeRequest) domain.BridgeResponse {
	if err := ctx.Err(); err != nil {
		return failure(err.Error())
	}

	if err := writeFrame(c.w, req); err != nil {
		slog.WarnContext(ctx, "ネイティブホストへの送信に失敗しました", "action", req.Action, "error", err)
		return failure("native host unreachable")
	}

	body, err := readFrame(c.r)
	if err != nil {
		slog.WarnContext(ctx, "ネイティブホストからの応答を読めませんでした", "action", req.Action, "error", err)
		return failure("native host unreachable")
	}

	var resp wireResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Success == nil {
		slog.WarnContext(ctx, "ネイティブホストの応答が不正です", "action", req.Action, "body", string(body))
		return failure(genericBridgeError)
	}

	if !*resp.Success && resp.Error == "" {
		return failure(genericBridgeError)
	}
	return domain.BridgeResponse{Success: *resp.Success, Error: resp.Error}
}

func failure(message string) domain.BridgeResponse {
	return domain.BridgeResponse{Success: false, Error: message}
}
