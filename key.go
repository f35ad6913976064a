package translator

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key builds the canonical cache key for a translation triple.
// Language codes are normalized and the text is trimmed, so lookups are
// exact-match but insensitive to locale variants and surrounding space.
func Key(sourceLang, targetLang, text string) string {
	return NormalizeLang(sourceLang) + ":" + NormalizeLang(targetLang) + ":" + strings.TrimSpace(text)
}

// HashKey returns the SHA-256 hex digest of the canonical key.
// Backends with key-length limits (Redis, filenames) store under this form.
func HashKey(sourceLang, targetLang, text string) string {
	sum := sha256.Sum256([]byte(Key(sourceLang, targetLang, text)))
	return hex.EncodeToString(sum[:])
}
