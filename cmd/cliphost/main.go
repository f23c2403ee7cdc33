// cliphost はブラウザ拡張から起動されるネイティブメッセージングホストです。
// stdin / stdout が拡張とのメッセージチャネルであるため、ログはすべて stderr に出力します。
//
// 対応アクション:
//
//	copyImageData — 事前取得済みの画像ペイロードをクリップボードへ書き込む
//	copyImage     — レガシー経路。URL をホスト側で取得して書き込む
//	その他        — 前方互換のため元メッセージをエコーする
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/clip-image-kit/pkg/bridge"
	"github.com/shouni/clip-image-kit/pkg/clipwriter"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cliphost: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	writer, err := clipwriter.New(clipwriter.NewSystemClipboard())
	if err != nil {
		return err
	}

	host, err := bridge.NewHost(writer)
	if err != nil {
		return err
	}

	slog.Info("cliphost started")
	return host.Serve(context.Background(), os.Stdin, os.Stdout)
}
