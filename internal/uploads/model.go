package uploads

import "time"

// UploadedFile is the audit record of one successful upload.
type UploadedFile struct {
	ID         string
	UserID     string
	FilePath   string
	UploadedAt time.Time
}

// Result describes a completed upload.
type Result struct {
	File           UploadedFile
	StorageKey     string
	MimeType       string
	SizeBytes      int64
	TextBytes      int
	ContextVersion uint64
}
