package domain

import (
	"reflect"
	"sort"
	"time"
)

const (
	FieldFilename     = "filename"
	FieldSize         = "size"
	FieldCreatedTime  = "created_time"
	FieldModifiedTime = "modified_time"
	FieldOrientation  = "orientation"
	FieldCaptureTime  = "capture_time"
	FieldCameraModel  = "camera_model"
	FieldCameraSerial = "camera_serial"
)

// FieldOrder is the order keys are emitted in.
var FieldOrder = []string{
	FieldFilename,
	FieldSize,
	FieldCreatedTime,
	FieldModifiedTime,
	FieldOrientation,
	FieldCaptureTime,
	FieldCameraModel,
	FieldCameraSerial,
}

// TimestampLayout renders local wall-clock time. The trailing Z is appended
// verbatim and does not mean the value is UTC.
const TimestampLayout = "2006-01-02T15:04:05.000000"

func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout) + "Z"
}

// ImageMetadata maps field names to values for a single image.
type ImageMetadata map[string]any

// Keys returns the keys in FieldOrder, followed by any other keys sorted.
func (m ImageMetadata) Keys() []string {
	keys := make([]string, 0, len(m))
	known := make(map[string]bool, len(FieldOrder))
	for _, key := range FieldOrder {
		known[key] = true
		if _, ok := m[key]; ok {
			keys = append(keys, key)
		}
	}
	var extra []string
	for key := range m {
		if !known[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// FileStat holds the filesystem attributes of an image.
type FileStat struct {
	Filename string
	Size     int64
	Created  time.Time
	Modified time.Time
}

func (s FileStat) Fields() map[string]any {
	return map[string]any{
		FieldFilename:     s.Filename,
		FieldSize:         s.Size,
		FieldCreatedTime:  FormatTimestamp(s.Created),
		FieldModifiedTime: FormatTimestamp(s.Modified),
	}
}

// Assemble merges stat and EXIF fields and drops every nil value.
func Assemble(stat, exif map[string]any) ImageMetadata {
	md := make(ImageMetadata, len(stat)+len(exif))
	for _, src := range []map[string]any{stat, exif} {
		for key, value := range src {
			if isNil(value) {
				continue
			}
			md[key] = value
		}
	}
	return md
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
