package qrimage

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QRコード画像の生成
// QRコード値は不透明なトークンとして扱い、内容の解釈はしない

const defaultSize = 200

// GenerateDataURL はQRコード値からPNGのdata URLを生成する
func GenerateDataURL(data string) (string, error) {
	png, err := qrcode.Encode(data, qrcode.Medium, defaultSize)
	if err != nil {
		return "", fmt.Errorf("QRコード生成に失敗: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
