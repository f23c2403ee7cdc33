package constrain

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/clip-image-kit/pkg/domain"
	"github.com/shouni/clip-image-kit/pkg/imgutil"
)

// 転送ペイロードの制約値です。分割送信を避けるため、超過分はロッシー再エンコードで吸収します。
const (
	MaxPayloadBytes = 5 << 20 // 5 MiB
	MaxBoundingBox  = 2048    // 再エンコード時の最大幅・高さ
	ReencodeQuality = 85      // JPEG 品質
)

var (
	// ErrDecode は元データを画像として解釈できなかったことを示します。
	ErrDecode = errors.New("画像をデコードできませんでした")
	// ErrEncode は再エンコードが出力を生成できなかったことを示します。
	ErrEncode = errors.New("画像を再エンコードできませんでした")
)

// Constrainer はペイロードの最大サイズを強制するコンポーネントです。
// 上限以下のアセットはそのまま通し、超過分はバウンディングボックス内へ
// 縮小して JPEG で再エンコードします。元のエンコーディングは破棄されます。
type Constrainer struct {
	maxBytes int
	maxBox   int
	quality  int
}

// New は既定の制約値で Constrainer を初期化します。
func New() *Constrainer {
	return NewWithLimits(MaxPayloadBytes, MaxBoundingBox, ReencodeQuality)
}

// NewWithLimits は制約値を指定して Constrainer を初期化します。
func NewWithLimits(maxBytes, maxBox, quality int) *Constrainer {
	return &Constrainer{maxBytes: maxBytes, maxBox: maxBox, quality: quality}
}

// Constrain はアセットのサイズ制約を適用します。
// 上限以下の場合は同一のアセットを無変更で返します。
// 再エンコードは非可逆で、戻すことはできません（サイズとレイテンシのトレードオフ）。
func (c *Constrainer) Constrain(asset *domain.ImageAsset) (*domain.ImageAsset, error) {
	if asset == nil {
		return nil, fmt.Errorf("%w: アセットがありません", ErrDecode)
	}
	if len(asset.Data) <= c.maxBytes {
		return asset, nil
	}

	w, h, err := imgutil.DecodeBounds(asset.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var (
		out        []byte
		newW, newH int
	)
	if w <= c.maxBox && h <= c.maxBox {
		// 寸法はボックス内だがバイト数が超過しているケース。再圧縮のみ行う。
		out, err = imgutil.CompressToJPEG(asset.Data, c.quality)
		newW, newH = w, h
	} else {
		out, newW, newH, err = imgutil.ShrinkToJPEG(asset.Data, c.maxBox, c.maxBox, c.quality)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if len(out) == 0 {
		return nil, ErrEncode
	}

	slog.Debug("画像を再エンコードしました",
		"before_bytes", len(asset.Data), "after_bytes", len(out),
		"before_dims", fmt.Sprintf("%dx%d", w, h), "after_dims", fmt.Sprintf("%dx%d", newW, newH))

	return &domain.ImageAsset{
		Data:     out,
		MimeType: "image/jpeg",
		Width:    newW,
		Height:   newH,
	}, nil
}
