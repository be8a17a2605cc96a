// Package admission decides whether a candidate upload may be sent to the
// analysis backend. The gate is pure: it inspects file metadata only, never
// reads file contents, and maps every input to a value.
package admission

import "strings"

// DefaultMaxSizeBytes is the upload size ceiling: 10 MiB.
const DefaultMaxSizeBytes int64 = 10 * 1024 * 1024

// Candidate describes a file the user selected or dropped. DeclaredMediaType
// comes from the browser/OS and may be empty.
type Candidate struct {
	Name              string
	DeclaredMediaType string
	SizeBytes         int64
}

// Reason identifies why a candidate was rejected.
type Reason string

const (
	ReasonEmptyFile            Reason = "empty_file"
	ReasonUnsupportedExtension Reason = "unsupported_extension"
	ReasonUnsupportedMediaType Reason = "unsupported_media_type"
	ReasonTooLarge             Reason = "too_large"
)

// Result is the gate's verdict. Exactly one of Admitted or Reason is
// meaningful: Reason is empty when Admitted is true.
type Result struct {
	Admitted  bool
	Candidate Candidate
	Reason    Reason
}

var allowedExtensions = map[string]bool{
	"pdf":  true,
	"docx": true,
	"txt":  true,
}

var allowedMediaTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

// Gate validates upload candidates against a configured size ceiling.
type Gate struct {
	maxSizeBytes int64
}

// NewGate creates a gate. maxSizeBytes <= 0 selects DefaultMaxSizeBytes.
func NewGate(maxSizeBytes int64) *Gate {
	if maxSizeBytes <= 0 {
		maxSizeBytes = DefaultMaxSizeBytes
	}
	return &Gate{maxSizeBytes: maxSizeBytes}
}

// MaxSizeBytes returns the configured size ceiling.
func (g *Gate) MaxSizeBytes() int64 {
	return g.maxSizeBytes
}

// Admit checks a candidate and returns the verdict. Checks run in a fixed
// order so that when several defects apply, the user sees the most
// fundamental one: empty file, then extension, then declared media type,
// then size. An empty declared media type means "unknown, not checked";
// browsers and OSes frequently omit it.
func (g *Gate) Admit(c Candidate) Result {
	if c.SizeBytes == 0 {
		return rejected(c, ReasonEmptyFile)
	}

	segments := strings.Split(c.Name, ".")
	ext := strings.ToLower(segments[len(segments)-1])
	if !allowedExtensions[ext] {
		return rejected(c, ReasonUnsupportedExtension)
	}

	if c.DeclaredMediaType != "" && !allowedMediaTypes[c.DeclaredMediaType] {
		return rejected(c, ReasonUnsupportedMediaType)
	}

	if c.SizeBytes > g.maxSizeBytes {
		return rejected(c, ReasonTooLarge)
	}

	return Result{Admitted: true, Candidate: c}
}

func rejected(c Candidate, r Reason) Result {
	return Result{Candidate: c, Reason: r}
}
