package ticketcode

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	ticketNumberPattern = regexp.MustCompile(`^TK-[0-9A-Z]+-[0-9A-Z]{6}$`)
	qrCodePattern       = regexp.MustCompile(`^QR-[0-9A-Z]+-[0-9A-Z]{10}$`)
)

func TestNewTicketNumber(t *testing.T) {
	t.Run("形式が正しい", func(t *testing.T) {
		n := NewTicketNumber()
		assert.Regexp(t, ticketNumberPattern, n)
	})

	t.Run("連続生成しても重複しない", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			n := NewTicketNumber()
			assert.False(t, seen[n], "重複したチケット番号: %s", n)
			seen[n] = true
		}
	})
}

func TestNewQRCode(t *testing.T) {
	t.Run("形式が正しい", func(t *testing.T) {
		q := NewQRCode()
		assert.Regexp(t, qrCodePattern, q)
	})

	t.Run("連続生成しても重複しない", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			q := NewQRCode()
			assert.False(t, seen[q], "重複したQRコード: %s", q)
			seen[q] = true
		}
	})
}

func TestRandomBase36(t *testing.T) {
	s := randomBase36(16)
	assert.Len(t, s, 16)
	assert.Regexp(t, `^[0-9a-z]+$`, s)
}
