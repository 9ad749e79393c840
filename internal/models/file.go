package models

import "time"

// FileMeta describes an uploaded file whose bytes live in the blob store.
// It is embedded (with a column prefix) into the records that own files.
type FileMeta struct {
	Filename    string     `gorm:"size:255" json:"filename,omitempty"`
	ContentType string     `gorm:"size:100" json:"content_type,omitempty"`
	Size        int64      `json:"size,omitempty"`
	BlobKey     string     `gorm:"size:64" json:"-"`
	UploadedAt  *time.Time `json:"uploaded_at,omitempty"`
}

func (f FileMeta) Present() bool { return f.BlobKey != "" }

// FileBlob holds raw bytes for the postgres blob backend.
type FileBlob struct {
	Key       string    `gorm:"size:64;primaryKey"`
	Data      []byte    `gorm:"type:bytea;not null"`
	CreatedAt time.Time
}

func (FileBlob) TableName() string {
	return "file_blobs"
}
