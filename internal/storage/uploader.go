// Package storage holds the object-store boundary for attachment bytes.
// The service only ever needs one capability: hand over bytes plus a
// MIME type, get back a public URL.  Where the object lands inside the
// store is a data-driven policy keyed on the MIME family, not a second
// code path.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Uploader stores a file's bytes externally and returns the public URL
// the attachment row will carry.  An implementation must not return an
// empty URL together with a nil error.
type Uploader interface {
	Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error)
}

// basePathFor maps a MIME family to the base directory files of that
// family are stored under.  Images and video share the media tree;
// everything else is filed as a document.
var basePathFor = []struct {
	prefix string
	base   string
}{
	{"image/", "images"},
	{"video/", "images"},
	{"", "document"}, // catch-all
}

// objectKey builds the store key for an upload: MIME-family base path,
// year/month partition, and the original name made unique with a short
// random suffix so repeated uploads of the same file never collide.
func objectKey(now time.Time, fileName, contentType string) string {
	base := "document"
	for _, rule := range basePathFor {
		if strings.HasPrefix(contentType, rule.prefix) {
			base = rule.base
			break
		}
	}
	ext := path.Ext(fileName)
	stem := strings.TrimSuffix(path.Base(fileName), ext)
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s/%d/%s/%s-%s%s",
		base, now.Year(), now.Month().String(), stem, suffix, ext)
}
