package storage

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	now := time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)

	t.Run("images go under the media tree", func(t *testing.T) {
		key := objectKey(now, "photo.jpg", "image/jpeg")
		assert.Regexp(t, `^images/2025/March/photo-[0-9a-f-]{8}\.jpg$`, key)
	})

	t.Run("video shares the media tree", func(t *testing.T) {
		key := objectKey(now, "clip.mp4", "video/mp4")
		assert.True(t, regexp.MustCompile(`^images/2025/March/clip-`).MatchString(key))
	})

	t.Run("everything else is filed as a document", func(t *testing.T) {
		key := objectKey(now, "report.pdf", "application/pdf")
		assert.Regexp(t, `^document/2025/March/report-[0-9a-f-]{8}\.pdf$`, key)
	})

	t.Run("repeated uploads never collide", func(t *testing.T) {
		a := objectKey(now, "photo.jpg", "image/jpeg")
		b := objectKey(now, "photo.jpg", "image/jpeg")
		assert.NotEqual(t, a, b)
	})

	t.Run("extension survives the unique suffix", func(t *testing.T) {
		key := objectKey(now, "archive.v2.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		assert.Regexp(t, `\.docx$`, key)
		assert.Contains(t, key, "archive.v2-")
	})
}
