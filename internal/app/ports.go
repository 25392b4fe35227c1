package app

import (
	"context"

	"exifsidecar/internal/domain"
)

type StatReader interface {
	Stat(ctx context.Context, path string) (domain.FileStat, error)
}

// ExifReader never fails; unreadable EXIF comes back as an empty map.
type ExifReader interface {
	Fields(ctx context.Context, path string) map[string]any
}

type SidecarWriter interface {
	Write(imagePath string, md domain.ImageMetadata) (string, error)
}
