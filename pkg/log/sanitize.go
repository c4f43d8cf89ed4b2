package log

import (
	"strings"
)

// SanitizeField checks if the key contains sensitive keywords and masks the
// value. The bot carries three kinds of credentials that must never appear in
// logs verbatim: the Telegram bot token, the Naver bearer token, and the Naver
// session cookie header.
func SanitizeField(key, value string) string {
	if value == "" {
		return value
	}

	lowerKey := strings.ToLower(key)

	sensitiveKeywords := []string{
		"password", "passwd", "pwd",
		"token", "access_token", "bearer",
		"secret", "auth", "authorization",
		"credential", "cookie", "api_key", "apikey",
	}

	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerKey, keyword) {
			return maskValue(value)
		}
	}

	return value
}

// maskValue masks a credential showing only first 4 and last 4 characters.
func maskValue(value string) string {
	if len(value) <= 8 {
		if len(value) <= 2 {
			return strings.Repeat("*", len(value))
		}
		return string(value[0]) + strings.Repeat("*", len(value)-2) + string(value[len(value)-1])
	}

	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}
