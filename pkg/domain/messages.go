package domain

// ネイティブメッセージングで使用するアクション名です。
const (
	ActionCopyImageData    = "copyImageData"
	ActionCopyImage        = "copyImage"
	ActionShowNotification = "showNotification"
)

// BridgeRequest はネイティブホストへ送る要求メッセージです。
// Action により ImageData+MimeType（事前取得済みペイロード）か
// ImageURL（レガシー経路、ホスト側で取得）のどちらかが使われます。
type BridgeRequest struct {
	Action    string `json:"action"`
	ImageData string `json:"imageData,omitempty"`
	MimeType  string `json:"mimeType,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// BridgeResponse はネイティブホストからの応答です。
// 成功時 Error は空文字列です。
type BridgeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// EchoResponse は未知のアクションに対する前方互換の応答です。
// 元のメッセージをそのまま返します。
type EchoResponse struct {
	Echo any `json:"echo"`
}

// Notification は UI レイヤーへ渡す通知メッセージです。
type Notification struct {
	Action  string `json:"action"`
	Message string `json:"message"`
	IsError bool   `json:"isError"`
}

// NewNotification は showNotification アクションの通知を組み立てます。
func NewNotification(message string, isError bool) Notification {
	return Notification{
		Action:  ActionShowNotification,
		Message: message,
		IsError: isError,
	}
}
