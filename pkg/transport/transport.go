package transport

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/shouni/clip-image-kit/pkg/domain"
)

// ErrTransportDecode は転送文字列が正しいエンコード形式でないことを示します。
var ErrTransportDecode = errors.New("転送ペイロードをデコードできませんでした")

// Encode はバイナリデータをテキスト安全な base64 文字列へ変換します。
// 入力は常に生のバイト列であり、data-URI 文字列を渡してはいけません
// （誤った部分を埋め込むことを避けるため、呼び出し側は StripDataURI を先に通します）。
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode は base64 文字列を元のバイト列へ復元します。
// すべてのバイト列について decode(encode(b)) == b が成り立ちます。
func Decode(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransportDecode, err)
	}
	return data, nil
}

// StripDataURI は data-URI 形式の文字列からエンコード済みデータ部だけを取り出します。
// data-URI でなければ入力をそのまま返します。
func StripDataURI(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, ","); i >= 0 {
		return s[i+1:]
	}
	return s
}

// NewPayload はアセットから転送ペイロードを組み立てます。
func NewPayload(asset *domain.ImageAsset) domain.TransportPayload {
	return domain.TransportPayload{
		EncodedData: Encode(asset.Data),
		MimeType:    asset.MimeType,
	}
}
