package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

const SourceCacheKeyPrefix = "pdf_source:"

// HashBytes returns the hex sha256 of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Query parameters that carry a signature or expiry rather than select a
// document: Supabase, S3, GCS, CloudFront and Azure SAS.
var (
	credentialParams = map[string]bool{
		"token": true, "signature": true, "sig": true, "expires": true,
		"policy": true, "key-pair-id": true,
		"se": true, "st": true, "sp": true, "sv": true, "sr": true, "spr": true,
	}
	credentialPrefixes = []string{"x-amz-", "x-goog-"}
)

func isCredentialParam(name string) bool {
	name = strings.ToLower(name)
	if credentialParams[name] {
		return true
	}
	for _, prefix := range credentialPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// SourceCacheKey identifies a source document independent of the access
// credentials carried in its query string. Other query parameters stay in
// the key, sorted, since they may select the document.
func SourceCacheKey(rawURL string) string {
	identity := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		query := u.Query()
		for name := range query {
			if isCredentialParam(name) {
				query.Del(name)
			}
		}
		u.RawQuery = query.Encode()
		u.Fragment = ""
		identity = u.String()
	}

	sum := sha256.Sum256([]byte(identity))
	return fmt.Sprintf("%s%x", SourceCacheKeyPrefix, sum)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename makes name safe for a Content-Disposition header and
// guarantees a .pdf extension.
func SanitizeFilename(name, fallback string) string {
	name = path.Base(strings.TrimSpace(name))
	name = unsafeFilenameChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		name = fallback
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}
