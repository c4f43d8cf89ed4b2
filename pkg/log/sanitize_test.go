package log

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func masked(v string) string {
	return v[:4] + strings.Repeat("*", len(v)-8) + v[len(v)-4:]
}

func TestSanitizeField_SensitiveKeys(t *testing.T) {
	botToken := "110201543:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw"
	cookies := "NNB=F4S2HFLS4FKGQ; NAC=CR27BoA2gLYq"

	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"bot token", "telegram_token", botToken, masked(botToken)},
		{"bearer token", "bearer_token", "eyJhbGciOiJIUzI1NiJ9", masked("eyJhbGciOiJIUzI1NiJ9")},
		{"cookie header", "cookie", cookies, masked(cookies)},
		{"authorization", "Authorization", "Bearer abc12345", masked("Bearer abc12345")},
		{"short secret", "secret", "abc", "a*c"},
		{"tiny secret", "pwd", "ab", "**"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeField(tt.key, tt.value))
		})
	}
}

func TestSanitizeField_PlainKeys(t *testing.T) {
	assert.Equal(t, "8101290", SanitizeField("article_no", "8101290"))
	assert.Equal(t, "101동 202호", SanitizeField("address", "101동 202호"))
	assert.Equal(t, "", SanitizeField("token", ""))
}
