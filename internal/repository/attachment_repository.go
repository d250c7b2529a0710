package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/ticket-activity/internal/clock"
	"github.com/iliyamo/ticket-activity/internal/model"
)

// AttachmentRepo records uploaded-file metadata against comments.  The
// bytes themselves never pass through here; by the time Create runs the
// external store has already accepted the file and produced a URL.
type AttachmentRepo struct {
	db  *sql.DB
	clk clock.Clock
}

// NewAttachmentRepo returns an AttachmentRepo bound to the given
// database and business clock.
func NewAttachmentRepo(db *sql.DB, clk clock.Clock) *AttachmentRepo {
	return &AttachmentRepo{db: db, clk: clk}
}

// Create registers one uploaded file under a comment.  An empty file
// link is ErrUploadFailed and nothing is written; a missing comment is
// sql.ErrNoRows.  There is no per-comment ownership check: any
// authenticated caller may attach to any existing comment.
func (r *AttachmentRepo) Create(ctx context.Context, commentID uint64, fileName, fileLink, fileType string, fileSize int64) (*model.Attachment, error) {
	if fileLink == "" {
		return nil, ErrUploadFailed
	}

	var exists int
	if err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM ticket_comments WHERE comment_id = ?`, commentID).Scan(&exists); err != nil {
		return nil, err
	}

	now := r.clk.Now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO comment_attachments (comment_id, file_name, file_link, file_type, file_size, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		commentID, fileName, fileLink, fileType, fileSize, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Attachment{
		AttachmentID: uint64(id),
		CommentID:    commentID,
		FileName:     fileName,
		FileLink:     fileLink,
		FileType:     fileType,
		FileSize:     fileSize,
		UploadedAt:   now,
	}, nil
}

// ListByComment returns the comment's attachments in upload order.
func (r *AttachmentRepo) ListByComment(ctx context.Context, commentID uint64) ([]model.Attachment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT attachment_id, comment_id, file_name, file_link, file_type, file_size, uploaded_at
		 FROM comment_attachments WHERE comment_id = ? ORDER BY attachment_id`, commentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Attachment{}
	for rows.Next() {
		var a model.Attachment
		if err := rows.Scan(&a.AttachmentID, &a.CommentID, &a.FileName, &a.FileLink,
			&a.FileType, &a.FileSize, &a.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
