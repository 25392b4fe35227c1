package exif

import (
	"bytes"
	"io"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// BodySerialNumber is the Exif 2.3 camera body serial (0xA431), which
// goexif does not name.
const BodySerialNumber goexif.FieldName = "BodySerialNumber"

var serialFields = map[uint16]goexif.FieldName{
	0xA431: BodySerialNumber,
}

func init() {
	goexif.RegisterParsers(&serialParser{})
}

// serialParser loads the Exif 2.3 tags goexif skips from the Exif sub-IFD.
// A missing or broken sub-IFD leaves x untouched.
type serialParser struct{}

func (*serialParser) Parse(x *goexif.Exif) error {
	ptr, err := x.Get(goexif.ExifIFDPointer)
	if err != nil {
		return nil
	}
	offset, err := ptr.Int64(0)
	if err != nil {
		return nil
	}

	r := bytes.NewReader(x.Raw)
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return nil
	}
	dir, _, err := tiff.DecodeDir(r, x.Tiff.Order)
	if err != nil {
		return nil
	}
	x.LoadTags(dir, serialFields, false)
	return nil
}
