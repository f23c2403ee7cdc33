package imgutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// CompressToJPEG は画像データ（PNG, GIF, WebP, JPEG等）をJPEG形式に圧縮します。
// image.Decodeがサポートするフォーマットに対応しています。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeBounds は画像データの幅・高さをフルデコードせずに取得します。
func DecodeBounds(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// FitWithin はアスペクト比を保ったまま maxW×maxH のバウンディングボックスに
// 収まる寸法を計算します。すでに収まっている場合は元の寸法を返します。
// 横長の画像は幅を、縦長の画像は高さを制限寸法としてスケールします。
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	var newW, newH int
	if w > h {
		newW = maxW
		newH = int(math.Round(float64(maxW) * float64(h) / float64(w)))
	} else {
		newH = maxH
		newW = int(math.Round(float64(maxH) * float64(w) / float64(h)))
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return newW, newH
}

// Scale は画像を指定寸法へ縮小します。寸法が変わらない場合は元の画像を返します。
func Scale(img image.Image, w, h int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() == w && bounds.Dy() == h {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// ShrinkToJPEG は画像をバウンディングボックス内へ縮小し、JPEG で再エンコードします。
// 戻り値は (データ, 幅, 高さ) です。デコード不能・エンコード失敗はエラーになります。
func ShrinkToJPEG(data []byte, maxW, maxH, quality int) ([]byte, int, int, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, err
	}

	bounds := img.Bounds()
	newW, newH := FitWithin(bounds.Dx(), bounds.Dy(), maxW, maxH)
	scaled := Scale(img, newW, newH)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, scaled, &jpeg.Options{Quality: quality}); err != nil {
		return nil, 0, 0, fmt.Errorf("JPEGエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), newW, newH, nil
}
