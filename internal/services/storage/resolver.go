package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// StorageRef is a parsed storage://bucket/path reference.
type StorageRef struct {
	Bucket string
	Path   string
}

// ParseStorageRef splits ref into bucket and object path. An empty host
// (storage:///path) selects defaultBucket.
func ParseStorageRef(ref, defaultBucket string) (StorageRef, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return StorageRef{}, err
	}
	if u.Scheme != "storage" {
		return StorageRef{}, fmt.Errorf("not a storage reference: %q", ref)
	}

	bucket := u.Host
	if bucket == "" {
		bucket = defaultBucket
	}
	path := strings.TrimPrefix(u.Path, "/")

	if bucket == "" || path == "" {
		return StorageRef{}, fmt.Errorf("storage reference needs a bucket and a path: %q", ref)
	}
	return StorageRef{Bucket: bucket, Path: path}, nil
}

// ResolveURL signs a short-lived download URL for a storage:// reference.
func (s *StorageService) ResolveURL(ctx context.Context, ref string) (string, error) {
	if s.sbClient == nil {
		return "", errors.New("supabase storage not configured")
	}

	parsed, err := ParseStorageRef(ref, s.bucket)
	if err != nil {
		return "", err
	}

	resp, err := s.sbClient.CreateSignedUrl(parsed.Bucket, parsed.Path, int(s.signedURLTTL.Seconds()))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s/%s: %w", parsed.Bucket, parsed.Path, err)
	}

	return absoluteURL(s.storageURL, resp.SignedURL), nil
}

func absoluteURL(base, signed string) string {
	if strings.HasPrefix(signed, "/") {
		return strings.TrimRight(base, "/") + signed
	}
	return signed
}
