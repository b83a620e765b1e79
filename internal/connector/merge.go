package connector

import "github.com/rzmat/MaestroChat/pkg/oauth"

// mergeCredentials resolves each field independently, taking the first
// source that has it.
func mergeCredentials(sources ...oauth.Credentials) oauth.Credentials {
	var merged oauth.Credentials
	for _, src := range sources {
		merged.AccessToken = firstNonEmpty(merged.AccessToken, src.AccessToken)
		merged.RefreshToken = firstNonEmpty(merged.RefreshToken, src.RefreshToken)
		merged.ExpiresAt = firstExpiry(merged.ExpiresAt, src.ExpiresAt)
	}
	return merged
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstExpiry(values ...int64) int64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
