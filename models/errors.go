package models

import (
	"github.com/cockroachdb/errors"
)

// Sentinel errors for malformed graph input. Call sites wrap them with the offending
// ids; check with errors.Is.
var (
	// ErrDuplicateNodeID indicates a node id is already present in the graph
	ErrDuplicateNodeID = errors.New("duplicate node id")

	// ErrDuplicateEdgeID indicates an edge id is already present in the graph
	ErrDuplicateEdgeID = errors.New("duplicate edge id")

	// ErrUnknownEndpoint indicates an edge references a node the graph does not own
	ErrUnknownEndpoint = errors.New("unknown edge endpoint")

	// ErrUnknownNode indicates a node that does not belong to the graph
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge indicates an edge that does not belong to the graph
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrInvalidLength indicates a negative or NaN spring rest length
	ErrInvalidLength = errors.New("invalid edge length")

	// ErrMissingCacheEntry indicates a layout has no point or spring for an id
	ErrMissingCacheEntry = errors.New("missing cache entry")
)
