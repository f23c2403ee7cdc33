package clipwriter

import (
	"fmt"
	"runtime"

	xclip "github.com/atotto/clipboard"
	"golang.design/x/clipboard"
)

// GeneralClipboard は OS のジェネラルクリップボードへの書き込みを抽象化する
// インターフェースです。WriteImage は PNG バイト列を受け取ります。
type GeneralClipboard interface {
	WriteImage(pngData []byte) error
	WriteText(text string) error
}

// SystemClipboard は GeneralClipboard の OS 実装です。
// 画像は golang.design/x/clipboard、テキストは atotto/clipboard で書き込みます。
// 初期化に失敗した環境でもプロセスは落とさず、書き込み時にエラーを返します。
type SystemClipboard struct {
	initErr error
}

// NewSystemClipboard はクリップボードサブシステムを初期化します。
func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{initErr: clipboard.Init()}
}

// WriteImage はクリップボードをクリアし、画像を唯一の内容として書き込みます。
// クリアと書き込みはライブラリ側でひとつの置き換え操作として扱われます。
// 同時に複数の操作が完了した場合は最後の書き込みが勝ちます（ロックは行いません）。
func (s *SystemClipboard) WriteImage(pngData []byte) error {
	if s.initErr != nil {
		return fmt.Errorf("クリップボードが利用できません (%s): %w", runtime.GOOS, s.initErr)
	}
	clipboard.Write(clipboard.FmtImage, pngData)
	return nil
}

// WriteText はテキストをクリップボードへ書き込みます。
func (s *SystemClipboard) WriteText(text string) error {
	if !xclip.Unsupported {
		if err := xclip.WriteAll(text); err == nil {
			return nil
		}
	}
	if s.initErr != nil {
		return fmt.Errorf("clipboard operations not supported on %s", runtime.GOOS)
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
