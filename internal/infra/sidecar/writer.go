package sidecar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"exifsidecar/internal/domain"
	appErrors "exifsidecar/internal/errors"
)

// JSONPath swaps the extension of imagePath for .json. Leading dots of the
// base name are not treated as an extension, so ".hidden" becomes
// ".hidden.json".
func JSONPath(imagePath string) string {
	ext := filepath.Ext(imagePath)
	base := filepath.Base(imagePath)
	if strings.Trim(strings.TrimSuffix(base, ext), ".") == "" {
		ext = ""
	}
	return strings.TrimSuffix(imagePath, ext) + ".json"
}

// Encode renders md as a two-space indented JSON object in Keys order.
// Values that cannot be marshalled are written as their fmt.Sprint form.
func Encode(md domain.ImageMetadata) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, key := range md.Keys() {
		if i > 0 {
			compact.WriteByte(',')
		}
		k, err := marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := marshal(md[key])
		if err != nil {
			v, err = marshal(fmt.Sprint(md[key]))
			if err != nil {
				return nil, err
			}
		}
		compact.Write(k)
		compact.WriteByte(':')
		compact.Write(v)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func marshal(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

type Writer struct {
	FS afero.Fs
}

// Write stores md next to imagePath and returns the sidecar path.
func (w Writer) Write(imagePath string, md domain.ImageMetadata) (string, error) {
	target := JSONPath(imagePath)

	data, err := Encode(md)
	if err != nil {
		return target, appErrors.Wrap(appErrors.IOFailure, "encode", target, err)
	}
	if err := afero.WriteFile(w.FS, target, data, 0o644); err != nil {
		return target, appErrors.Wrap(appErrors.IOFailure, "write", target, err)
	}
	return target, nil
}
