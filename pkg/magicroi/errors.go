package magicroi

import "errors"

// Sentinel errors for segmentation operations.
var (
	// ErrExtentOrigin indicates a grid whose extent does not start at index zero.
	ErrExtentOrigin = errors.New("magicroi: grid extent must start at zero")
	// ErrSeedOutOfBounds indicates a seed index outside the grid extent.
	ErrSeedOutOfBounds = errors.New("magicroi: seed lies outside the grid")
	// ErrInvalidFactor indicates a negative or NaN sensitivity factor.
	ErrInvalidFactor = errors.New("magicroi: sensitivity factor must be a non-negative number")
	// ErrInvalidOptions indicates unusable segmentation options.
	ErrInvalidOptions = errors.New("magicroi: invalid options")
	// ErrInvalidDirection indicates a direction code outside its enumeration.
	ErrInvalidDirection = errors.New("magicroi: invalid direction code")
	// ErrMaskMismatch indicates a mask whose size does not match the grid extent.
	ErrMaskMismatch = errors.New("magicroi: mask does not match grid extent")
	// ErrContourNotClosed indicates the tracer exhausted its step budget without closing.
	ErrContourNotClosed = errors.New("magicroi: contour did not close")
	// ErrNoSession indicates a tool operation that needs an active region.
	ErrNoSession = errors.New("magicroi: no region in progress")
)
