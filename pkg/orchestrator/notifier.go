package orchestrator

import (
	"log/slog"

	"github.com/shouni/clip-image-kit/pkg/domain"
)

// LogNotifier は構造化ログへ通知を流す既定の Notifier 実装です。
// 拡張内スクリプト向けの showNotification メッセージと同じ内容を記録します。
type LogNotifier struct{}

// Notify は通知 1 件をログに記録します。
func (LogNotifier) Notify(n domain.Notification) {
	if n.IsError {
		slog.Error(n.Message, "action", n.Action)
		return
	}
	slog.Info(n.Message, "action", n.Action)
}

// NotifierFunc は関数を Notifier として使うためのアダプターです。
type NotifierFunc func(n domain.Notification)

// Notify は f(n) を呼び出します。
func (f NotifierFunc) Notify(n domain.Notification) {
	f(n)
}
