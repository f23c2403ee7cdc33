package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/shouni/clip-image-kit/pkg/domain"

	_ "golang.org/x/image/webp"
)

// 非ブラウザからの取得をブロックするサイト対策として、ブラウザ相当のヘッダーを名乗ります。
const (
	headerUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	headerAccept         = "image/avif,image/webp,image/apng,image/*,*/*;q=0.8"
	headerAcceptLanguage = "ja,en-US;q=0.9,en;q=0.8"
)

var (
	// ErrInvalidURL は空・空白のみ・解決不能な URL を示します。
	ErrInvalidURL = errors.New("不正な画像URLです")
	// ErrUnsupportedScheme は http / https 以外のスキームを示します。
	ErrUnsupportedScheme = errors.New("サポート外のURLスキームです")
)

// HTTPError は非 2xx のステータス応答です。
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.Status)
}

// Fetcher は URL から画像バイト列を取得するコンポーネントです。
// タイムアウト等のポリシーは注入される http.Client が決定します。
type Fetcher struct {
	httpClient *http.Client
}

// New は HTTP クライアントを注入して Fetcher を初期化します。
func New(httpClient *http.Client) (*Fetcher, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	return &Fetcher{httpClient: httpClient}, nil
}

// ResolveURL は（相対の可能性がある）画像URLをページURLを基準に絶対URLへ解決します。
// ネットワークアクセスより前に呼ばれ、解決できない場合は ErrInvalidURL、
// 解決結果が http / https 以外の場合は ErrUnsupportedScheme を返します。
func ResolveURL(rawURL, baseURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", ErrInvalidURL
	}

	ref, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	resolved := ref
	if !ref.IsAbs() {
		base, err := url.Parse(strings.TrimSpace(baseURL))
		if err != nil || !base.IsAbs() {
			return "", fmt.Errorf("%w: 相対URLを解決する基準がありません", ErrInvalidURL)
		}
		resolved = base.ResolveReference(ref)
	}

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, resolved.Scheme)
	}
	if resolved.Host == "" {
		return "", ErrInvalidURL
	}
	return resolved.String(), nil
}

// Fetch は要求の URL を解決して GET し、画像アセットを返します。
// 幅・高さはデコードできた場合のみ設定されます。
func (f *Fetcher) Fetch(ctx context.Context, req domain.ImageRequest) (*domain.ImageAsset, error) {
	resolved, err := ResolveURL(req.SourceURL, req.PageBaseURL)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	httpReq.Header.Set("User-Agent", headerUserAgent)
	httpReq.Header.Set("Accept", headerAccept)
	httpReq.Header.Set("Accept-Language", headerAcceptLanguage)

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ネットワークエラー: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ネットワークエラー: %w", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	asset := &domain.ImageAsset{Data: data, MimeType: mimeType}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		asset.Width = cfg.Width
		asset.Height = cfg.Height
	} else {
		slog.DebugContext(ctx, "画像サイズを事前判定できませんでした", "url", resolved, "error", err)
	}
	return asset, nil
}
