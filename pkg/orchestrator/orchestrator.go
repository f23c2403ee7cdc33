package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shouni/clip-image-kit/pkg/domain"
	"github.com/shouni/clip-image-kit/pkg/fetcher"
	"github.com/shouni/clip-image-kit/pkg/transport"
	"github.com/shouni/clip-image-kit/pkg/utils"
)

// 通知メッセージの固定文言です。失敗時プレフィックスは UI との契約です。
const (
	failurePrefix  = "Unable to copy image: "
	successMessage = "Image copied to clipboard"
)

// ImageFetcher は画像バイト列の取得窓口です。
type ImageFetcher interface {
	Fetch(ctx context.Context, req domain.ImageRequest) (*domain.ImageAsset, error)
}

// Constrainer はペイロードのサイズ制約を適用します。
type Constrainer interface {
	Constrain(asset *domain.ImageAsset) (*domain.ImageAsset, error)
}

// NativeSender はネイティブブリッジへの要求・応答プリミティブです。
type NativeSender interface {
	Send(ctx context.Context, req domain.BridgeRequest) domain.BridgeResponse
}

// LocalClipboard はネイティブ経路を使わない直接のクリップボード書き込みです。
type LocalClipboard interface {
	WritePayload(ctx context.Context, payload domain.TransportPayload) error
}

// Notifier は操作の終端でユーザーへ通知を届けます。
type Notifier interface {
	Notify(n domain.Notification)
}

// Options は Orchestrator の依存関係と設定です。
type Options struct {
	Fetcher     ImageFetcher
	Constrainer Constrainer
	Native      NativeSender
	Local       LocalClipboard
	Notifier    Notifier
	DownloadDir string // 最終フォールバックの保存先。空なら ~/Downloads
}

// Orchestrator は 1 回のコピー操作の状態機械です。
// NativeAttempt → (失敗時) LocalClipboardAttempt → (失敗時) DownloadAttempt と
// 多段フォールバックし、終端で必ずちょうど 1 件の通知を発行します。
// 操作間に共有可変状態はなく、並行実行できます（クリップボードは最後の書き込みが勝ち）。
type Orchestrator struct {
	fetcher     ImageFetcher
	constrainer Constrainer
	native      NativeSender
	local       LocalClipboard
	notifier    Notifier
	downloadDir string
}

// New は依存関係を注入して Orchestrator を初期化します。
// Native / Local / Notifier 以外は必須です。Native と Local は片方だけでも動作します。
func New(opts Options) (*Orchestrator, error) {
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if opts.Constrainer == nil {
		return nil, fmt.Errorf("constrainer is required")
	}
	if opts.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}

	dir := opts.DownloadDir
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, "Downloads")
		}
	}

	return &Orchestrator{
		fetcher:     opts.Fetcher,
		constrainer: opts.Constrainer,
		native:      opts.Native,
		local:       opts.Local,
		notifier:    opts.Notifier,
		downloadDir: dir,
	}, nil
}

// Copy は 1 回のコピー操作を実行します。戻り値は終端の OperationResult で、
// 同じ内容がちょうど 1 件の通知としても発行されます。
func (o *Orchestrator) Copy(ctx context.Context, req domain.ImageRequest) domain.OperationResult {
	asset, payload, pipelineErr := o.prepare(ctx, req)

	// NativeAttempt
	if o.native != nil {
		if resp := o.nativeAttempt(ctx, req, payload, pipelineErr); resp.Success {
			return o.report(domain.OperationResult{Success: true, Message: successMessage})
		} else if pipelineErr == nil && resp.Error != "" {
			pipelineErr = fmt.Errorf("%s", resp.Error)
		}
	}

	// PageClipboardAttempt 相当: ネイティブを介さない直接書き込み
	if o.local != nil && payload != nil {
		if err := o.local.WritePayload(ctx, *payload); err == nil {
			return o.report(domain.OperationResult{Success: true, Message: successMessage})
		} else if pipelineErr == nil {
			pipelineErr = err
		} else {
			slog.DebugContext(ctx, "直接クリップボード書き込みに失敗しました", "error", err)
		}
	}

	// DownloadAttempt: ユーザーがアセットを確保できるよう保存に切り替える
	if asset != nil {
		if path, err := o.download(req, asset); err == nil {
			return o.report(domain.OperationResult{
				Success: true,
				Message: fmt.Sprintf("Image saved to %s", path),
			})
		} else if pipelineErr == nil {
			pipelineErr = err
		}
	}

	// Report: 最も具体的なメッセージで 1 件だけ通知する
	message := failurePrefix + "unknown error"
	if pipelineErr != nil {
		message = failurePrefix + pipelineErr.Error()
	}
	return o.report(domain.OperationResult{Success: false, Message: message})
}

// prepare は fetch → constrain → encode のパイプライン前半を実行します。
// いずれかの段で失敗しても後続のフォールバックのため、取得済みの値は保持します。
func (o *Orchestrator) prepare(ctx context.Context, req domain.ImageRequest) (*domain.ImageAsset, *domain.TransportPayload, error) {
	asset, err := o.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	constrained, err := o.constrainer.Constrain(asset)
	if err != nil {
		// 制約失敗でも取得済みアセットはダウンロードフォールバックで使える
		return asset, nil, err
	}

	payload := transport.NewPayload(constrained)
	return constrained, &payload, nil
}

// nativeAttempt は事前取得済みならペイロード転送、できなければレガシー経路で
// ホスト側フェッチを依頼します（ひとつの能力の 2 つの変種）。
func (o *Orchestrator) nativeAttempt(ctx context.Context, req domain.ImageRequest, payload *domain.TransportPayload, pipelineErr error) domain.BridgeResponse {
	if payload != nil {
		return o.native.Send(ctx, domain.BridgeRequest{
			Action:    domain.ActionCopyImageData,
			ImageData: payload.EncodedData,
			MimeType:  payload.MimeType,
		})
	}

	resolved, err := fetcher.ResolveURL(req.SourceURL, req.PageBaseURL)
	if err != nil {
		// URL 自体が不正ならレガシー経路も成立しない
		return domain.BridgeResponse{Success: false, Error: err.Error()}
	}
	slog.DebugContext(ctx, "事前取得できなかったためレガシー経路を使用します",
		"url", resolved, "cause", pipelineErr)
	return o.native.Send(ctx, domain.BridgeRequest{
		Action:   domain.ActionCopyImage,
		ImageURL: resolved,
	})
}

// download はアセットをダウンロードディレクトリへ保存し、保存先パスを返します。
func (o *Orchestrator) download(req domain.ImageRequest, asset *domain.ImageAsset) (string, error) {
	if o.downloadDir == "" {
		return "", fmt.Errorf("保存先ディレクトリがありません")
	}
	if err := os.MkdirAll(o.downloadDir, 0o755); err != nil {
		return "", err
	}

	name := utils.FilenameForURL(req.SourceURL, asset.MimeType)
	path := filepath.Join(o.downloadDir, name)
	if err := os.WriteFile(path, asset.Data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// report は終端値をちょうど 1 件の通知として発行します。
func (o *Orchestrator) report(result domain.OperationResult) domain.OperationResult {
	o.notifier.Notify(domain.NewNotification(result.Message, !result.Success))
	return result
}
