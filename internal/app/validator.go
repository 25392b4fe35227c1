package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"exifsidecar/internal/domain"
	appErrors "exifsidecar/internal/errors"
)

type Validator struct {
	FS      afero.Fs
	Formats domain.FormatSet
}

// Validate checks that path is an existing regular file with a supported
// extension.
func (v Validator) Validate(path string) error {
	info, err := v.FS.Stat(path)
	if err != nil {
		return appErrors.New(appErrors.NotFound, "validate", path, fmt.Sprintf("File does not exist: %s", path))
	}
	if !info.Mode().IsRegular() {
		return appErrors.New(appErrors.NotFound, "validate", path, fmt.Sprintf("Not a regular file: %s", path))
	}
	if !v.Formats.Supports(path) {
		return appErrors.New(appErrors.UnsupportedFormat, "validate", path, fmt.Sprintf("Unsupported format: %s", filepath.Ext(path)))
	}
	return nil
}
