package app

import (
	"github.com/spf13/afero"

	"exifsidecar/internal/domain"
)

// FilterInputs keeps paths that exist and are not directories.
func FilterInputs(filesystem afero.Fs, paths []string) ([]string, []domain.Skipped) {
	var valid []string
	var skipped []domain.Skipped
	for _, path := range paths {
		info, err := filesystem.Stat(path)
		if err != nil {
			skipped = append(skipped, domain.Skipped{Path: path, Reason: "does not exist"})
			continue
		}
		if !info.Mode().IsRegular() {
			skipped = append(skipped, domain.Skipped{Path: path, Reason: "is not a file"})
			continue
		}
		valid = append(valid, path)
	}
	return valid, skipped
}
