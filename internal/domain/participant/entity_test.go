package participant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParticipant(t *testing.T) {
	p := NewParticipant("山田太郎", "taro@example.com", "090-1234-5678", "event-1")

	assert.Equal(t, "山田太郎", p.Name)
	assert.Equal(t, "taro@example.com", p.Email)
	assert.Equal(t, "090-1234-5678", p.Phone)
	assert.Equal(t, "event-1", p.EventID)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestParticipant_Validate(t *testing.T) {
	tests := []struct {
		name        string
		pname       string
		email       string
		eventID     string
		wantErr     bool
		errExpected error
	}{
		{
			name: "正常な参加者", pname: "山田太郎", email: "taro@example.com", eventID: "event-1",
			wantErr: false,
		},
		{
			name: "名前未指定", pname: "", email: "taro@example.com", eventID: "event-1",
			wantErr: true, errExpected: ErrNameRequired,
		},
		{
			name: "メール未指定", pname: "山田太郎", email: "", eventID: "event-1",
			wantErr: true, errExpected: ErrEmailRequired,
		},
		{
			name: "メール形式不正", pname: "山田太郎", email: "not-an-email", eventID: "event-1",
			wantErr: true, errExpected: ErrInvalidEmail,
		},
		{
			name: "メールに@以降がない", pname: "山田太郎", email: "taro@", eventID: "event-1",
			wantErr: true, errExpected: ErrInvalidEmail,
		},
		{
			name: "イベントID未指定", pname: "山田太郎", email: "taro@example.com", eventID: "",
			wantErr: true, errExpected: ErrEventIDRequired,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParticipant(tt.pname, tt.email, "", tt.eventID)
			err := p.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.errExpected)
				return
			}
			require.NoError(t, err)
		})
	}
}
