package exif

import (
	"context"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"github.com/spf13/afero"

	"exifsidecar/internal/domain"
	"exifsidecar/internal/logging"
)

// TagTable maps EXIF field names to metadata field names.
type TagTable map[goexif.FieldName]string

func DefaultTags() TagTable {
	return TagTable{
		goexif.Orientation: domain.FieldOrientation,
		goexif.DateTime:    domain.FieldCaptureTime,
		goexif.Model:       domain.FieldCameraModel,
		BodySerialNumber:   domain.FieldCameraSerial,
	}
}

type Reader struct {
	FS     afero.Fs
	Tags   TagTable
	Logger logging.Logger
}

func NewReader(filesystem afero.Fs, logger logging.Logger) Reader {
	return Reader{FS: filesystem, Tags: DefaultTags(), Logger: logger}
}

// Fields returns the mapped tags found in the image at path. Any failure to
// open or decode yields an empty map.
func (r Reader) Fields(ctx context.Context, path string) (fields map[string]any) {
	fields = map[string]any{}

	defer func() {
		if rec := recover(); rec != nil {
			r.Logger.Verbosef("EXIF decoder panicked for %s: %v", path, rec)
			fields = map[string]any{}
		}
	}()

	select {
	case <-ctx.Done():
		return fields
	default:
	}

	file, err := r.FS.Open(path)
	if err != nil {
		r.Logger.Verbosef("EXIF not readable for %s: %v", path, err)
		return fields
	}
	defer file.Close()

	x, err := goexif.Decode(file)
	if err != nil && (x == nil || goexif.IsCriticalError(err)) {
		r.Logger.Verbosef("EXIF not found for %s: %v", path, err)
		return fields
	}

	tags := r.Tags
	if tags == nil {
		tags = DefaultTags()
	}
	for name, field := range tags {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		fields[field] = tagValue(tag)
	}
	return fields
}

func tagValue(tag *tiff.Tag) any {
	switch tag.Format() {
	case tiff.IntVal:
		if tag.Count == 1 {
			if v, err := tag.Int(0); err == nil {
				return v
			}
		}
	case tiff.StringVal:
		if v, err := tag.StringVal(); err == nil {
			return v
		}
	}
	return tag.String()
}
