package ticketcode

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// チケット番号とQRコード値の生成
// いずれも「粗いタイムスタンプ + ランダム部」で構成され、
// 一意かつおおよそ時系列順に並ぶ

const base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

const (
	ticketNumberRandomLen = 6
	qrCodeRandomLen       = 10
)

// NewTicketNumber は一意なチケット番号を生成する
// 形式: TK-<unixミリ秒のbase36>-<ランダム6文字>（大文字）
func NewTicketNumber() string {
	return format("TK", ticketNumberRandomLen)
}

// NewQRCode は一意なQRコード値を生成する
// 形式: QR-<unixミリ秒のbase36>-<ランダム10文字>（大文字）
// ランダム部は36^10通り（約3.6×10^15）で衝突確率は無視できる
func NewQRCode() string {
	return format("QR", qrCodeRandomLen)
}

func format(prefix string, randomLen int) string {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return strings.ToUpper(fmt.Sprintf("%s-%s-%s", prefix, timestamp, randomBase36(randomLen)))
}

// randomBase36 は暗号論的乱数からbase36文字列を生成する
func randomBase36(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/randの失敗はプロセスレベルの異常
		panic(fmt.Sprintf("乱数生成に失敗: %v", err))
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = base36Chars[int(b)%len(base36Chars)]
	}
	return string(out)
}
