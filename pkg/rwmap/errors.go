package rwmap

import "errors"

var (
	// ErrConcurrentModification is the panic value of a SortedMap that is
	// modified while Range is walking it.
	ErrConcurrentModification = errors.New("rwmap: container modified during iteration")

	// ErrUnknownCodec is returned by CodecByName for an unsupported name.
	ErrUnknownCodec = errors.New("rwmap: unknown codec")
)
