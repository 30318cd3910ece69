package md2blog

import "errors"

// Sentinel errors for library operations.
var (
	// ErrInvalidAssetPath indicates the custom asset directory is unusable.
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// ErrInvalidTemplate indicates the collapsible template failed to load or parse.
	ErrInvalidTemplate = errors.New("invalid collapsible template")

	// ErrInvalidImageBase indicates an image base that cannot be used as a URL prefix.
	ErrInvalidImageBase = errors.New("invalid image base")
)
