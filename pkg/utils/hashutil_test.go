package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceCacheKeyIgnoresToken(t *testing.T) {
	a := SourceCacheKey("https://cdn.example.com/books/book.pdf?token=abc")
	b := SourceCacheKey("https://cdn.example.com/books/book.pdf?token=xyz")
	c := SourceCacheKey("https://cdn.example.com/books/other.pdf?token=abc")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, SourceCacheKeyPrefix))
}

func TestSourceCacheKeyKeepsSelectingQuery(t *testing.T) {
	first := SourceCacheKey("https://files.example.com/download?id=1&token=abc")
	second := SourceCacheKey("https://files.example.com/download?id=2&token=abc")
	assert.NotEqual(t, first, second)

	reordered := SourceCacheKey("https://files.example.com/download?token=xyz&id=1")
	assert.Equal(t, first, reordered)
}

func TestSourceCacheKeyIgnoresPresignedParams(t *testing.T) {
	a := SourceCacheKey("https://bucket.s3.amazonaws.com/book.pdf?X-Amz-Signature=aa&X-Amz-Expires=60&X-Amz-Date=20240101T000000Z")
	b := SourceCacheKey("https://bucket.s3.amazonaws.com/book.pdf?X-Amz-Signature=bb&X-Amz-Expires=300&X-Amz-Date=20240202T000000Z")
	c := SourceCacheKey("https://cdn.example.com/book.pdf?Expires=1&Signature=s&Key-Pair-Id=k")

	assert.Equal(t, a, b)
	assert.Equal(t, SourceCacheKey("https://cdn.example.com/book.pdf"), c)
}

func TestHashBytes(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashBytes(nil))
	assert.Len(t, HashBytes([]byte("%PDF-1.4")), 64)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "book.pdf", "book.pdf"},
		{"adds extension", "book", "book.pdf"},
		{"strips path", "../../etc/passwd", "passwd.pdf"},
		{"replaces quotes", `my "book".pdf`, "my-book-.pdf"},
		{"empty falls back", "  ", "document.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in, "document"))
		})
	}
}
