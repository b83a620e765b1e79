package connector

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rzmat/MaestroChat/pkg/oauth"
)

func TestMergeCredentials(t *testing.T) {
	tests := []struct {
		name    string
		sources []oauth.Credentials
		want    oauth.Credentials
	}{
		{
			name: "no sources",
			want: oauth.Credentials{},
		},
		{
			name: "first source wins per field",
			sources: []oauth.Credentials{
				{AccessToken: "cookie-a"},
				{AccessToken: "session-a", RefreshToken: "session-r", ExpiresAt: 5},
			},
			want: oauth.Credentials{AccessToken: "cookie-a", RefreshToken: "session-r", ExpiresAt: 5},
		},
		{
			name: "zero expiry is absent",
			sources: []oauth.Credentials{
				{ExpiresAt: 0},
				{ExpiresAt: 7},
			},
			want: oauth.Credentials{ExpiresAt: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergeCredentials(tt.sources...))
		})
	}
}

func TestReadCookies(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "a"})
	r.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "r"})
	r.AddCookie(&http.Cookie{Name: ExpiresAtCookie, Value: "1717243200000"})

	assert.Equal(t, oauth.Credentials{AccessToken: "a", RefreshToken: "r", ExpiresAt: 1717243200000}, ReadCookies(r))
}

func TestWriteCookies_SkipsEmptyFields(t *testing.T) {
	w := httptest.NewRecorder()
	WriteCookies(w, oauth.Credentials{AccessToken: "a"}, DefaultCookieOptions(false))

	cookies := w.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.Equal(t, AccessTokenCookie, cookies[0].Name)
	}
}
