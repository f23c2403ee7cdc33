package domain

// ImageRequest はユーザー操作ひとつ分のコピー要求です。
// SourceURL はページ内で取得した（相対の可能性がある）画像URL、
// PageBaseURL は相対URL解決の基準となるページURLです。
type ImageRequest struct {
	SourceURL   string
	PageBaseURL string
}

// ImageAsset は取得済みの画像データとそのメタデータです。
// Width / Height はデコードできた場合のみ設定されます（不明時は 0）。
type ImageAsset struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// TransportPayload はネイティブブリッジを越えるためのテキスト安全な転送形式です。
// EncodedData をデコードすると、直前の ImageAsset のバイト列が正確に復元されます。
type TransportPayload struct {
	EncodedData string
	MimeType    string
}

// OperationResult は 1 回のコピー操作の終端値です。永続化されません。
type OperationResult struct {
	Success bool
	Message string
}
