package model

import "time"

// Attachment records the metadata of an uploaded file, stored in
// `comment_attachments`.  Only metadata lives here; the bytes live in
// the external object store and FileLink points at them.  An
// attachment is owned by its comment and deleted before it.
//
// Fields:
//  AttachmentID – surrogate primary key.
//  CommentID    – owning comment.
//  FileName     – original client file name.
//  FileLink     – public URL returned by the object store.
//  FileType     – MIME type reported at upload.
//  FileSize     – size in bytes.
//  UploadedAt   – business-clock upload time.
type Attachment struct {
	AttachmentID uint64    `json:"attachment_id"` // comment_attachments.attachment_id
	CommentID    uint64    `json:"comment_id"`    // comment_attachments.comment_id
	FileName     string    `json:"file_name"`     // comment_attachments.file_name
	FileLink     string    `json:"file_link"`     // comment_attachments.file_link
	FileType     string    `json:"file_type"`     // comment_attachments.file_type
	FileSize     int64     `json:"file_size"`     // comment_attachments.file_size
	UploadedAt   time.Time `json:"uploaded_at"`   // comment_attachments.uploaded_at
}
