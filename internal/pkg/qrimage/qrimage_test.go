package qrimage

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDataURL(t *testing.T) {
	t.Run("PNGのdata URLを返す", func(t *testing.T) {
		url, err := GenerateDataURL("QR-MBQZK3X1-ZK29DQW8XP")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

		// base64部分がPNGとしてデコードできる
		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
		require.NoError(t, err)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, raw[:4])
	})

	t.Run("空文字はエラー", func(t *testing.T) {
		_, err := GenerateDataURL("")
		assert.Error(t, err)
	})
}
