// internal/models/attachment.go
package models

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Attachment is a binary file selected by the candidate. Content is read
// lazily through Open so a record can hold it without buffering.
type Attachment struct {
	Name         string
	Size         int64
	MimeType     string
	LastModified time.Time

	open func() (io.ReadCloser, error)
}

// AttachmentList is the file-list shaped input: only its first entry counts.
type AttachmentList []*Attachment

// AttachmentMetadata is what survives of an attachment in a local snapshot.
type AttachmentMetadata struct {
	Filename     string `json:"filename"`
	Size         int64  `json:"size"`
	LastModified int64  `json:"lastModified"` // unix milliseconds
}

// AttachmentPayload is the transport form of an attachment.
type AttachmentPayload struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	MimeType    string `json:"mimeType"`
	EncodedData string `json:"encodedData"`
}

// NewAttachment builds an attachment around an arbitrary content opener.
func NewAttachment(name, mimeType string, size int64, modTime time.Time, open func() (io.ReadCloser, error)) *Attachment {
	return &Attachment{
		Name:         name,
		Size:         size,
		MimeType:     mimeType,
		LastModified: modTime,
		open:         open,
	}
}

// NewAttachmentFromBytes sniffs the MIME type from data.
func NewAttachmentFromBytes(name string, data []byte, modTime time.Time) *Attachment {
	return NewAttachment(name, baseMIME(mimetype.Detect(data).String()), int64(len(data)), modTime, func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

// NewAttachmentFromFile stats and sniffs path; content is re-read on Open.
func NewAttachmentFromFile(path string) (*Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat attachment: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("attachment %s is a directory", path)
	}

	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect attachment type: %w", err)
	}

	return NewAttachment(info.Name(), baseMIME(mime.String()), info.Size(), info.ModTime(), func() (io.ReadCloser, error) {
		return os.Open(path)
	}), nil
}

// Open returns the attachment content.
func (a *Attachment) Open() (io.ReadCloser, error) {
	if a.open == nil {
		return nil, fmt.Errorf("attachment %q has no content", a.Name)
	}
	return a.open()
}

// Metadata is the serialisable summary kept in local snapshots.
func (a *Attachment) Metadata() AttachmentMetadata {
	return AttachmentMetadata{
		Filename:     a.Name,
		Size:         a.Size,
		LastModified: a.LastModified.UnixMilli(),
	}
}

// NormalizeAttachment accepts a single attachment or a list and returns the
// first file, or nil for anything else.
func NormalizeAttachment(v interface{}) *Attachment {
	switch tv := v.(type) {
	case *Attachment:
		return tv
	case AttachmentList:
		if len(tv) > 0 {
			return tv[0]
		}
	case []*Attachment:
		if len(tv) > 0 {
			return tv[0]
		}
	}
	return nil
}

// baseMIME drops parameters such as "; charset=utf-8".
func baseMIME(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	return strings.TrimSpace(m)
}
