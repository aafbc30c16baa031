package creature

import "errors"

var (
	// ErrResourceNotFound is returned when a mesh or metadata asset key is absent.
	ErrResourceNotFound = errors.New("creature: resource not found")
	// ErrShapeMismatch is returned when a frame sample disagrees with the topology's point count.
	ErrShapeMismatch = errors.New("creature: frame sample shape mismatch")
	// ErrMetaDataMissing is returned by skin swap calls made before metadata is attached.
	ErrMetaDataMissing = errors.New("creature: metadata not attached")
	// ErrInvalidAnchor is returned for anchor values that cannot be clamped (NaN).
	ErrInvalidAnchor = errors.New("creature: invalid anchor value")
	// ErrSwapUnsupported is returned when the engine has no index list for a swap name.
	ErrSwapUnsupported = errors.New("creature: skin swap not supported")
	// ErrInvalidIndices is returned for index lists that are not whole triangles
	// or that reference points outside the topology.
	ErrInvalidIndices = errors.New("creature: index out of range")
	// ErrBufferSize is returned when CPU buffers no longer match the allocated device storage.
	ErrBufferSize = errors.New("creature: buffer size invariant violated")
)
