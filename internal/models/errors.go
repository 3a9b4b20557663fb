package models

import "errors"

// Sentinel errors for unknown labels and relationship types.
var (
	ErrUnknownEntity   = errors.New("unknown entity type")
	ErrUnknownRelation = errors.New("unknown relation type")
)
