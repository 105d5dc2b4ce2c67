package ingest

import "fmt"

// The pipeline distinguishes failure classes by how far they propagate:
// validation and persistence failures abort the request, normalization
// failures drop a single record, and the media enrichment failures only
// degrade one video's sub-fields.

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

type StorageError struct {
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure for %q: %v", e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

type TranscodeError struct {
	Err error
}

func (e *TranscodeError) Error() string { return fmt.Sprintf("transcode failure: %v", e.Err) }
func (e *TranscodeError) Unwrap() error { return e.Err }

type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string { return fmt.Sprintf("transcription failure: %v", e.Err) }
func (e *TranscriptionError) Unwrap() error { return e.Err }

type FrameExtractionError struct {
	Err error
}

func (e *FrameExtractionError) Error() string {
	return fmt.Sprintf("frame extraction failure: %v", e.Err)
}

func (e *FrameExtractionError) Unwrap() error { return e.Err }

type DescriptionParseError struct {
	Raw string
	Err error
}

func (e *DescriptionParseError) Error() string {
	return fmt.Sprintf("scene description parse failure: %v", e.Err)
}

func (e *DescriptionParseError) Unwrap() error { return e.Err }

type NormalizationError struct {
	Field string
	Err   error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalization failure for field %q: %v", e.Field, e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
