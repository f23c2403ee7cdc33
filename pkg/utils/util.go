package utils

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// DataURI はバイナリデータの base64 表現から data-URI 文字列を組み立てます。
func DataURI(mimeType, encoded string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, encoded)
}

// FilenameForURL はダウンロード保存用のファイル名を URL のパスから導出します。
// パスから決められない場合は MIME タイプに応じた既定名を返します。
func FilenameForURL(rawURL, mimeType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if name := path.Base(u.Path); name != "" && name != "." && name != "/" {
			return name
		}
	}
	return "image" + ExtensionForMime(mimeType)
}

// ExtensionForMime は MIME タイプから拡張子を返します。不明な場合は .png です。
func ExtensionForMime(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/jpeg"):
		return ".jpg"
	case strings.HasPrefix(mimeType, "image/gif"):
		return ".gif"
	case strings.HasPrefix(mimeType, "image/webp"):
		return ".webp"
	default:
		return ".png"
	}
}
