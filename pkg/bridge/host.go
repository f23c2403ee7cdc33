package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/clip-image-kit/pkg/domain"
	"github.com/shouni/clip-image-kit/pkg/transport"
)

// CopyHandler はホスト側でクリップボード書き込みを行うコンポーネントの窓口です。
// WritePayload は事前取得済みペイロード、WriteFromURL はレガシー経路
// （呼び出し側が事前取得できない場合にホスト自身が取得する）に対応します。
type CopyHandler interface {
	WritePayload(ctx context.Context, payload domain.TransportPayload) error
	WriteFromURL(ctx context.Context, rawURL string) error
}

// Host はネイティブホスト側のサーブループです。
// 受信フレームごとにちょうど 1 件の応答フレームを返します。
type Host struct {
	handler CopyHandler
}

// NewHost はハンドラーを注入して Host を初期化します。
func NewHost(handler CopyHandler) (*Host, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	return &Host{handler: handler}, nil
}

// Serve は r からフレームを読み続け、応答を w へ書き込みます。
// ストリーム終端（EOF）は正常終了です。処理中のエラーが
// プロセスを落とすことはなく、すべて応答メッセージに変換されます。
func (h *Host) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	for {
		body, err := readFrame(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("フレームの読み取りに失敗しました: %w", err)
		}

		resp := h.handle(ctx, body)
		if err := writeFrame(w, resp); err != nil {
			return fmt.Errorf("応答の書き込みに失敗しました: %w", err)
		}
	}
}

// handle は 1 メッセージを処理し、応答として書き込む値を返します。
// 未知のアクションは前方互換のため元メッセージのエコーで応じます。
func (h *Host) handle(ctx context.Context, body []byte) any {
	var req domain.BridgeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return domain.BridgeResponse{Success: false, Error: "malformed request"}
	}

	switch req.Action {
	case domain.ActionCopyImageData:
		// 呼び出し側が data-URI を残したままでも誤埋め込みを防ぐ
		payload := domain.TransportPayload{
			EncodedData: transport.StripDataURI(req.ImageData),
			MimeType:    req.MimeType,
		}
		return h.result(ctx, req.Action, h.handler.WritePayload(ctx, payload))

	case domain.ActionCopyImage:
		return h.result(ctx, req.Action, h.handler.WriteFromURL(ctx, req.ImageURL))

	default:
		var original any
		if err := json.Unmarshal(body, &original); err != nil {
			return domain.BridgeResponse{Success: false, Error: "malformed request"}
		}
		slog.DebugContext(ctx, "未知のアクションをエコーします", "action", req.Action)
		return domain.EchoResponse{Echo: original}
	}
}

func (h *Host) result(ctx context.Context, action string, err error) domain.BridgeResponse {
	if err != nil {
		slog.WarnContext(ctx, "クリップボード処理に失敗しました", "action", action, "error", err)
		return domain.BridgeResponse{Success: false, Error: err.Error()}
	}
	return domain.BridgeResponse{Success: true}
}
