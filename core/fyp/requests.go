package fyp

import (
	"github.com/go-playground/validator/v10"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core"
)

// SubmissionRef identifies a submission in approve, revision and download calls.
type SubmissionRef struct {
	FileID ID `json:"file_id" validate:"required"`
}

func (sr SubmissionRef) Validate(validate *validator.Validate) error { return validate.Struct(sr) }

// NewFeedback is a supervisor comment on a submission.
type NewFeedback struct {
	FileID  ID     `json:"file_id" validate:"required"`
	Content string `json:"content" validate:"required,notblank"`
}

func (nf *NewFeedback) Validate(validate *validator.Validate) error {
	nf.Content = core.CleanString(nf.Content)
	return validate.Struct(nf)
}

// DeadlineChange moves the deadline of one document type.
type DeadlineChange struct {
	DocType      DocType `json:"doc_type" validate:"required,doctype"`
	DeadlineDate string  `json:"deadline_date" validate:"required,datetime=2006-01-02"`
}

func (dc *DeadlineChange) Validate(validate *validator.Validate) error {
	dc.DeadlineDate = core.CleanString(dc.DeadlineDate)
	return validate.Struct(dc)
}

// Upload is a student's document submission.
type Upload struct {
	DocType     DocType `json:"doc_type" validate:"required,doctype"`
	Filename    string  `json:"filename" validate:"required,notblank"`
	ContentType string  `json:"content_type"`
	Data        []byte  `json:"file" validate:"min=1"`
}

func (up *Upload) Validate(validate *validator.Validate) error {
	up.Filename = core.CleanString(up.Filename)
	return validate.Struct(up)
}

// UploadMetadata is the JSON "metadata" part of the multipart upload.
type UploadMetadata struct {
	Filename string  `json:"filename"`
	DocType  DocType `json:"doc_type"`
	Size     int     `json:"size"`
}

func (up Upload) Metadata() UploadMetadata {
	return UploadMetadata{Filename: up.Filename, DocType: up.DocType, Size: len(up.Data)}
}
