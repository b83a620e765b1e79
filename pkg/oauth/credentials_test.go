package oauth

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCredentials_IsExpiringSoon(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	nowMs := now.UnixMilli()

	tests := []struct {
		name      string
		expiresAt int64
		want      bool
	}{
		{"no expiry never expires", 0, false},
		{"far future", nowMs + time.Hour.Milliseconds(), false},
		{"exactly at the skew boundary is fresh", nowMs + 30_000, false},
		{"one millisecond inside the skew", nowMs + 29_999, true},
		{"already expired", nowMs - 1, true},
		{"expired a margin ago", nowMs - 30_000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Credentials{AccessToken: "at", ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, c.IsExpiringSoon(now, DefaultExpiryMargin))
		})
	}
}

func TestCredentials_ShouldRefresh(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	nowMs := now.UnixMilli()

	tests := []struct {
		name  string
		creds Credentials
		want  bool
	}{
		{
			name:  "fresh access token",
			creds: Credentials{AccessToken: "at", RefreshToken: "rt", ExpiresAt: nowMs + 60_000},
			want:  false,
		},
		{
			name:  "fresh access token without expiry",
			creds: Credentials{AccessToken: "at", RefreshToken: "rt"},
			want:  false,
		},
		{
			name:  "missing access token with refresh token",
			creds: Credentials{RefreshToken: "rt", ExpiresAt: nowMs + time.Hour.Milliseconds()},
			want:  true,
		},
		{
			name:  "missing access token and no expiry",
			creds: Credentials{RefreshToken: "rt"},
			want:  true,
		},
		{
			name:  "expiring access token",
			creds: Credentials{AccessToken: "at", RefreshToken: "rt", ExpiresAt: nowMs + 10_000},
			want:  true,
		},
		{
			name:  "expiring but no refresh token",
			creds: Credentials{AccessToken: "at", ExpiresAt: nowMs - 10_000},
			want:  false,
		},
		{
			name:  "empty record",
			creds: Credentials{},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.creds.ShouldRefresh(now, DefaultExpiryMargin))
		})
	}
}

func TestParseExpiresAt(t *testing.T) {
	tests := []struct {
		raw    string
		want   int64
		wantOK bool
	}{
		{"1700000000000", 1700000000000, true},
		{"1700000000000.0", 1700000000000, true},
		{"", 0, false},
		{"soon", 0, false},
		{"0", 0, false},
		{"-5", 0, false},
		{"NaN", 0, false},
		{"Infinity", 0, false},
		{"Inf", 0, false},
		{"-Inf", 0, false},
		{"1e30", 0, false},
		{"9223372036854775807", 0, false},
		{"1.7e12", 1700000000000, true},
	}

	for _, tt := range tests {
		got, ok := ParseExpiresAt(tt.raw)
		assert.Equal(t, tt.want, got, "ParseExpiresAt(%q)", tt.raw)
		assert.Equal(t, tt.wantOK, ok, "ParseExpiresAt(%q)", tt.raw)
	}
}

func TestCredentials_ExpiresAtString(t *testing.T) {
	assert.Equal(t, "", Credentials{}.ExpiresAtString())
	assert.Equal(t, "1700000000000", Credentials{ExpiresAt: 1700000000000}.ExpiresAtString())
}

func TestCredentials_Redacted(t *testing.T) {
	c := Credentials{AccessToken: "secret-access", RefreshToken: "secret-refresh", ExpiresAt: 42}

	printed := fmt.Sprintf("%+v", c.Redacted())
	assert.NotContains(t, printed, "secret-access")
	assert.NotContains(t, printed, "secret-refresh")
	assert.Contains(t, printed, "[REDACTED]")

	data, err := json.Marshal(c.Redacted())
	assert.NoError(t, err)
	assert.JSONEq(t, `{"access_token":"[REDACTED]","refresh_token":"[REDACTED]","expires_at":42}`, string(data))
}
