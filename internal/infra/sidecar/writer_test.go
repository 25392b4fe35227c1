package sidecar

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"exifsidecar/internal/domain"
	appErrors "exifsidecar/internal/errors"
)

func TestJSONPath(t *testing.T) {
	cases := map[string]string{
		"example.jpg":             "example.json",
		"example":                 "example.json",
		"folder/photo.image.jpeg": filepath.Join("folder", "photo.image.json"),
		"folder/IMG_01.JPG":       filepath.Join("folder", "IMG_01.json"),
		".hidden":                 ".hidden.json",
		"dir.d/noext":             filepath.Join("dir.d", "noext.json"),
	}
	for in, want := range cases {
		if got := JSONPath(in); got != want {
			t.Fatalf("JSONPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEncodeIndentsAndKeepsKeyOrder(t *testing.T) {
	md := domain.ImageMetadata{
		domain.FieldCameraModel: "Model1",
		domain.FieldSize:        int64(10),
		domain.FieldFilename:    "a.jpg",
	}
	got, err := Encode(md)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\n  \"filename\": \"a.jpg\",\n  \"size\": 10,\n  \"camera_model\": \"Model1\"\n}"
	if string(got) != want {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestEncodeLeavesNonASCIIAndHTMLUnescaped(t *testing.T) {
	got, err := Encode(domain.ImageMetadata{domain.FieldCameraModel: "Caméra <α&β>"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\n  \"camera_model\": \"Caméra <α&β>\"\n}"
	if string(got) != want {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestEncodeCoercesUnsupportedValuesToString(t *testing.T) {
	got, err := Encode(domain.ImageMetadata{
		"ratio":    complex(1, 2),
		"infinity": math.Inf(1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(got, &parsed); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, got)
	}
	if parsed["ratio"] != "(1+2i)" || parsed["infinity"] != "+Inf" {
		t.Fatalf("unexpected coercion: %v", parsed)
	}
}

func TestEncodeEmptyMetadata(t *testing.T) {
	got, err := Encode(domain.ImageMetadata{})
	if err != nil || string(got) != "{}" {
		t.Fatalf("expected {}, got %q (%v)", got, err)
	}
}

func TestWriterWritesNextToImage(t *testing.T) {
	fs := afero.NewMemMapFs()
	md := domain.ImageMetadata{domain.FieldFilename: "IMG_01.jpg", domain.FieldSize: 3}

	target, err := Writer{FS: fs}.Write("/folder/IMG_01.jpg", md)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target != filepath.Join("/folder", "IMG_01.json") {
		t.Fatalf("unexpected target %q", target)
	}

	data, err := afero.ReadFile(fs, target)
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sidecar is not JSON: %v", err)
	}
	for key, value := range parsed {
		if value == nil {
			t.Fatalf("key %s is null", key)
		}
	}
}

func TestWriterMissingDirectoryIsIOFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	_, err := Writer{FS: afero.NewOsFs()}.Write(filepath.Join(dir, "a.jpg"), domain.ImageMetadata{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if kind := appErrors.KindOf(err); kind != appErrors.IOFailure {
		t.Fatalf("expected %s, got %s", appErrors.IOFailure, kind)
	}
}

func TestWriterReadOnlyFsIsIOFailure(t *testing.T) {
	base := afero.NewMemMapFs()
	if err := base.MkdirAll("/photos", os.ModePerm); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, err := Writer{FS: afero.NewReadOnlyFs(base)}.Write("/photos/a.jpg", domain.ImageMetadata{})
	if appErrors.KindOf(err) != appErrors.IOFailure {
		t.Fatalf("expected io failure, got %v", err)
	}
}
