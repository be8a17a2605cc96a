package model

import "errors"

// Descriptor source identifiers on the wire.
const (
	SourceSample = "sample"
	SourceUpload = "upload"
)

// Descriptor validation errors. A descriptor carrying both or neither ID is
// a programmer error and fails fast rather than silently picking one.
var (
	ErrNoSource        = errors.New("descriptor carries neither a sample id nor an upload id")
	ErrAmbiguousSource = errors.New("descriptor carries both a sample id and an upload id")
)

// RequestDescriptor identifies what to analyze: a pre-loaded sample document
// or a previously admitted upload. Exactly one of the two IDs must be set.
type RequestDescriptor struct {
	SampleID string `json:"sample_id,omitempty"`
	UploadID string `json:"upload_id,omitempty"`
}

// FromSample builds a descriptor referencing a built-in sample document.
func FromSample(sampleID string) RequestDescriptor {
	return RequestDescriptor{SampleID: sampleID}
}

// FromUpload builds a descriptor referencing an admitted upload.
func FromUpload(uploadID string) RequestDescriptor {
	return RequestDescriptor{UploadID: uploadID}
}

// Validate enforces the exactly-one-source rule.
func (d RequestDescriptor) Validate() error {
	switch {
	case d.SampleID == "" && d.UploadID == "":
		return ErrNoSource
	case d.SampleID != "" && d.UploadID != "":
		return ErrAmbiguousSource
	}
	return nil
}

// Source returns the wire source tag for a valid descriptor.
func (d RequestDescriptor) Source() string {
	if d.UploadID != "" {
		return SourceUpload
	}
	return SourceSample
}
