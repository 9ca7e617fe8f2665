package archive

import "errors"

var (
	// ErrEmptyInput means the input folder produced no payload at all:
	// it is empty, fully excluded, or every file was skipped.
	ErrEmptyInput = errors.New("archive: no data to compress")

	// ErrArtifactFormat means a persisted artifact could not be understood:
	// bad magic, version, checksum, or structural shape.
	ErrArtifactFormat = errors.New("archive: malformed artifact")
)
