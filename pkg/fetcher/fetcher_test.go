package fetcher

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/clip-image-kit/pkg/domain"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 128, 255, 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestResolveURL(t *testing.T) {
	t.Run("空文字・空白のみは ErrInvalidURL になること", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "\t\n"} {
			_, err := ResolveURL(raw, "https://example.com/page")
			assert.ErrorIs(t, err, ErrInvalidURL, "input: %q", raw)
		}
	})

	t.Run("http/https 以外のスキームは ErrUnsupportedScheme になること", func(t *testing.T) {
		_, err := ResolveURL("ftp://x/y.png", "https://example.com/page")
		assert.ErrorIs(t, err, ErrUnsupportedScheme)
	})

	t.Run("相対URLはページURLを基準に解決されること", func(t *testing.T) {
		got, err := ResolveURL("../img/a.png", "https://example.com/blog/post/")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/blog/img/a.png", got)
	})

	t.Run("基準URLが不正な場合の相対URLは ErrInvalidURL になること", func(t *testing.T) {
		_, err := ResolveURL("img/a.png", "not a base url")
		assert.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("絶対URLは基準URLなしでも解決できること", func(t *testing.T) {
		got, err := ResolveURL("https://cdn.example.com/a.jpg", "")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/a.jpg", got)
	})
}

func TestFetcher_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("正常応答でバイト列・MIME・寸法が取得できること", func(t *testing.T) {
		pngData := encodePNG(t, 12, 8)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NotEmpty(t, r.Header.Get("User-Agent"))
			assert.NotEmpty(t, r.Header.Get("Accept"))
			assert.NotEmpty(t, r.Header.Get("Accept-Language"))
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pngData)
		}))
		defer srv.Close()

		f, err := New(srv.Client())
		require.NoError(t, err)

		asset, err := f.Fetch(ctx, domain.ImageRequest{SourceURL: srv.URL + "/a.png"})
		require.NoError(t, err)
		assert.Equal(t, pngData, asset.Data)
		assert.Equal(t, "image/png", asset.MimeType)
		assert.Equal(t, 12, asset.Width)
		assert.Equal(t, 8, asset.Height)
	})

	t.Run("404 応答は HTTPError になること", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		f, err := New(srv.Client())
		require.NoError(t, err)

		_, err = f.Fetch(ctx, domain.ImageRequest{SourceURL: srv.URL + "/missing.png"})
		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 404, httpErr.Status)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("Content-Type が無い場合はスニッフィングで補完されること", func(t *testing.T) {
		pngData := encodePNG(t, 3, 3)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header()["Content-Type"] = nil
			_, _ = w.Write(pngData)
		}))
		defer srv.Close()

		f, err := New(srv.Client())
		require.NoError(t, err)

		asset, err := f.Fetch(ctx, domain.ImageRequest{SourceURL: srv.URL + "/raw"})
		require.NoError(t, err)
		assert.Equal(t, "image/png", asset.MimeType)
	})

	t.Run("不正URLではネットワークアクセスが発生しないこと", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()

		f, err := New(srv.Client())
		require.NoError(t, err)

		_, err = f.Fetch(ctx, domain.ImageRequest{SourceURL: "   "})
		assert.ErrorIs(t, err, ErrInvalidURL)
		_, err = f.Fetch(ctx, domain.ImageRequest{SourceURL: "ftp://x/y.png"})
		assert.ErrorIs(t, err, ErrUnsupportedScheme)
		assert.False(t, called)
	})

	t.Run("httpClient が nil の場合は初期化エラーになること", func(t *testing.T) {
		_, err := New(nil)
		assert.Error(t, err)
	})
}

func TestHTTPError_Is(t *testing.T) {
	err := error(&HTTPError{Status: 503})
	var httpErr *HTTPError
	assert.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 503, httpErr.Status)
}
