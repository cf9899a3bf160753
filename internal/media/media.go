// Package media stores uploaded images in bucket directories on local disk
// and builds their public URLs.
package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/impoot/impoot/internal/apperr"
)

// DefaultBucket is used when the uploader names none.
const DefaultBucket = "assets"

// URLPrefix is the path the server mounts the media directory under.
const URLPrefix = "/media"

var (
	bucketRe    = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,62}$`)
	allowedExts = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true, "svg": true}
)

// Bucket is a directory of uploaded files.
type Bucket struct {
	root      string
	publicURL string
	maxBytes  int64
	now       func() time.Time
}

// New creates a Bucket rooted at dir. publicURL is the externally visible
// server origin.
func New(dir, publicURL string, maxBytes int64) (*Bucket, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Bucket{
		root:      dir,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxBytes:  maxBytes,
		now:       time.Now,
	}, nil
}

// Root returns the directory served under URLPrefix.
func (b *Bucket) Root() string {
	return b.root
}

// MaxBytes returns the upload size limit.
func (b *Bucket) MaxBytes() int64 {
	return b.maxBytes
}

// Save writes r into bucket under a fresh name derived from filename's
// extension and returns the file's public URL.
func (b *Bucket) Save(bucket, filename string, r io.Reader) (string, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	if !bucketRe.MatchString(bucket) {
		return "", apperr.New(apperr.InvalidArgument, "invalid bucket name")
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !allowedExts[ext] {
		return "", apperr.New(apperr.InvalidArgument, "only image files can be uploaded")
	}

	dir := filepath.Join(b.root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create bucket: %w", err)
	}
	name := fmt.Sprintf("%d_%s.%s", b.now().UnixMilli(), uuid.New().String()[:5], ext)
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	n, err := io.Copy(f, io.LimitReader(r, b.maxBytes+1))
	closeErr := f.Close()
	if err == nil && n > b.maxBytes {
		err = apperr.New(apperr.InvalidArgument, "file is too large")
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}

	return b.publicURL + URLPrefix + "/" + bucket + "/" + name, nil
}
