package assets

import (
	"embed"
	"fmt"
)

//go:embed styles/* templates/* scaffolds/*
var builtin embed.FS

// EmbeddedLoader serves the assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// Load reads a built-in asset.
func (e *EmbeddedLoader) Load(kind Kind, name string) (string, error) {
	if err := checkKind(kind, name); err != nil {
		return "", err
	}
	content, err := builtin.ReadFile(kind.file(name))
	if err != nil {
		return "", fmt.Errorf("%w: %q", kindInfo[kind].notFound, name)
	}
	return string(content), nil
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
