package service

import "errors"

var (
	// ErrNotFound is returned when a layer id is absent from the registry.
	ErrNotFound = errors.New("layer not found")
	// ErrInvalidType is returned for a layer type other than raster or vector.
	ErrInvalidType = errors.New("invalid layer type")
	// ErrKindMismatch is returned when a raster endpoint is asked for a vector layer
	// or the other way round.
	ErrKindMismatch = errors.New("layer type mismatch")
	// ErrInvalidStyle is returned when a style cannot be serialised as a colour map.
	ErrInvalidStyle = errors.New("invalid style")
)
