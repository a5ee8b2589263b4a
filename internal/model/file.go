package model

import "time"

// ProcessedPrefix is prepended to an upload name to form its processed sibling.
const ProcessedPrefix = "reduced_"

// Category groups file extensions by the processing path they take.
type Category string

const (
	CategoryImage       Category = "image"
	CategoryVideo       Category = "video"
	CategoryDocument    Category = "document"
	CategoryUnsupported Category = "unsupported"
)

// UploadedFile is a file accepted from a client and stored under a generated unique name.
// The generated name is the identity; OriginalName is kept only for logging.
type UploadedFile struct {
	Name         string    `json:"name"`
	OriginalName string    `json:"original_name"`
	Path         string    `json:"-"`
	Size         int64     `json:"size"`
	ModifiedAt   time.Time `json:"modified_at"`
	Category     Category  `json:"category"`
}

// ProcessedName returns the name of the processed file derived from this upload.
func (f UploadedFile) ProcessedName() string {
	return ProcessedPrefix + f.Name
}

// ProcessedFile is the output of compression, or a verbatim copy when compression is not possible.
type ProcessedFile struct {
	Name      string    `json:"name"`
	Path      string    `json:"-"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Processed describes the file written at path for this upload.
func (f UploadedFile) Processed(path string, size int64, at time.Time) ProcessedFile {
	return ProcessedFile{Name: f.ProcessedName(), Path: path, Size: size, CreatedAt: at}
}

// SizeReport describes how much smaller a processed file is than its original.
type SizeReport struct {
	OriginalSize        int64   `json:"original_size"`
	ReducedSize         int64   `json:"reduced_size"`
	SizeReduction       int64   `json:"size_reduction"`
	PercentageReduction float64 `json:"percentage_reduction"`
}

// NewSizeReport computes the reduction figures. A zero original size yields a zero percentage.
func NewSizeReport(original, reduced int64) SizeReport {
	r := SizeReport{
		OriginalSize:  original,
		ReducedSize:   reduced,
		SizeReduction: original - reduced,
	}
	if original > 0 {
		r.PercentageReduction = float64(r.SizeReduction) * 100 / float64(original)
	}
	return r
}
