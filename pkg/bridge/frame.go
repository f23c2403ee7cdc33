package bridge

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// Chrome のネイティブメッセージング形式に従い、各メッセージは
// リトルエンディアンの uint32 長プレフィックス + JSON 本文でフレーミングされます。
const maxFrameBytes = 64 << 20

// writeFrame は値を JSON にして 1 フレーム書き込みます。
func writeFrame(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("メッセージのシリアライズに失敗しました: %w", err)
	}
	if len(body) > maxFrameBytes {
		return fmt.Errorf("メッセージが大きすぎます: %d bytes", len(body))
	}

	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(body)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

// readFrame は 1 フレーム分の JSON 本文を読み出します。
// ストリーム終端では io.EOF をそのまま返します。
func readFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	length := binary.LittleEndian.Uint32(header[:])
	if length > maxFrameBytes {
		return nil, fmt.Errorf("フレーム長が上限を超えています: %d bytes", length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}
