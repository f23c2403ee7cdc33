package clipwriter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/shouni/clip-image-kit/pkg/domain"
	"github.com/shouni/clip-image-kit/pkg/fetcher"
	"github.com/shouni/clip-image-kit/pkg/transport"
	"github.com/shouni/clip-image-kit/pkg/utils"
)

// レガシー経路のホスト側フェッチに適用するタイムアウトです。
const (
	connectTimeout = 30 * time.Second
	totalTimeout   = 60 * time.Second
)

var (
	// ErrNoData は応答ボディまたはペイロードが空であることを示します。
	ErrNoData = errors.New("画像データが空です")
	// ErrInvalidImage はバイト列を画像として解釈できないことを示します。
	ErrInvalidImage = errors.New("画像として解釈できないデータです")
	// ErrClipboardWrite は OS によるクリップボード書き込みの拒否を示します。
	// メッセージ文字列は拡張側 UI との契約です。
	ErrClipboardWrite = errors.New("Failed to copy to clipboard")
)

// Writer は転送ペイロードまたは URL から画像を復元し、
// OS のジェネラルクリップボードへ書き込むネイティブ側コンポーネントです。
type Writer struct {
	clip    GeneralClipboard
	fetcher *fetcher.Fetcher
}

// New はクリップボード実装を注入して Writer を初期化します。
// レガシー経路用のフェッチャーは、接続 30 秒・全体 60 秒のタイムアウトで構築されます。
func New(clip GeneralClipboard) (*Writer, error) {
	if clip == nil {
		return nil, fmt.Errorf("clip (GeneralClipboard) is required")
	}

	httpClient := &http.Client{
		Timeout: totalTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
		},
	}
	f, err := fetcher.New(httpClient)
	if err != nil {
		return nil, err
	}
	return &Writer{clip: clip, fetcher: f}, nil
}

// NewWithFetcher はテストや特殊構成用に、フェッチャーも注入して初期化します。
func NewWithFetcher(clip GeneralClipboard, f *fetcher.Fetcher) (*Writer, error) {
	if clip == nil {
		return nil, fmt.Errorf("clip (GeneralClipboard) is required")
	}
	if f == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	return &Writer{clip: clip, fetcher: f}, nil
}

// WritePayload は転送ペイロードをデコードしてクリップボードへ書き込みます。
func (w *Writer) WritePayload(ctx context.Context, payload domain.TransportPayload) error {
	data, err := transport.Decode(payload.EncodedData)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrNoData
	}
	return w.writeImage(ctx, data)
}

// WriteFromURL はレガシー経路です。URL を検証・取得し、クリップボードへ書き込みます。
// URL 検証は Fetcher と同じ規則（空は InvalidUrl、http/https 以外は UnsupportedScheme）です。
func (w *Writer) WriteFromURL(ctx context.Context, rawURL string) error {
	asset, err := w.fetcher.Fetch(ctx, domain.ImageRequest{SourceURL: rawURL})
	if err != nil {
		return err
	}
	if len(asset.Data) == 0 {
		return ErrNoData
	}
	return w.writeImage(ctx, asset.Data)
}

// writeImage は両経路の共通部です。バイト列を画像として解釈し、
// PNG に正規化してクリップボードをクリアののち唯一の内容として書き込みます。
func (w *Writer) writeImage(ctx context.Context, data []byte) error {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	if err := w.clip.WriteImage(buf.Bytes()); err != nil {
		slog.WarnContext(ctx, "画像のクリップボード書き込みに失敗しました。テキストへフォールバックします",
			"format", format, "error", err)
		dataURI := utils.DataURI("image/png", transport.Encode(buf.Bytes()))
		if terr := w.clip.WriteText(dataURI); terr != nil {
			slog.WarnContext(ctx, "テキストフォールバックも失敗しました", "error", terr)
			return ErrClipboardWrite
		}
	}
	return nil
}
