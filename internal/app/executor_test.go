package app

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"

	"exifsidecar/internal/domain"
	appErrors "exifsidecar/internal/errors"
)

type mockWriter struct {
	failFor map[string]bool
	written []string
}

func (m *mockWriter) Write(imagePath string, md domain.ImageMetadata) (string, error) {
	if m.failFor[imagePath] {
		return imagePath + ".json", appErrors.Wrap(appErrors.IOFailure, "write", imagePath, errors.New("permission denied"))
	}
	m.written = append(m.written, imagePath)
	return imagePath + ".json", nil
}

func batchOf(paths ...string) domain.BatchResult {
	result := domain.BatchResult{Total: len(paths)}
	for i, path := range paths {
		result.AddSuccess(domain.Success{Index: i, Path: path, Metadata: domain.ImageMetadata{}})
	}
	return result
}

func TestExecuteDemotesFailedWrites(t *testing.T) {
	writer := &mockWriter{failFor: map[string]bool{"/b.jpg": true}}
	e := &Executor{Writer: writer}

	result, err := e.Execute(context.Background(), batchOf("/a.jpg", "/b.jpg", "/c.jpg"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != 2 || result.FailedCount != 1 || result.Total != 3 {
		t.Fatalf("unexpected counts %+v", result)
	}
	failed := result.Failed[0]
	if failed.Path != "/b.jpg" || failed.Kind != string(appErrors.IOFailure) || failed.Message != "permission denied" {
		t.Fatalf("unexpected failure %+v", failed)
	}
	if len(writer.written) != 2 {
		t.Fatalf("expected remaining items written, got %v", writer.written)
	}
}

func TestExecuteKeepsWrittenFilesOnCancel(t *testing.T) {
	writer := &mockWriter{}
	ctx, cancel := context.WithCancel(context.Background())
	e := &Executor{
		Writer: writer,
		OnProgress: func(current, total int, path string) {
			cancel()
		},
	}

	_, err := e.Execute(ctx, batchOf("/a.jpg", "/b.jpg"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(writer.written) != 1 {
		t.Fatalf("expected exactly one write before cancel, got %v", writer.written)
	}
}

func TestExecuteRequiresWriter(t *testing.T) {
	if _, err := (&Executor{}).Execute(context.Background(), batchOf("/a.jpg")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFilterInputsSkipsMissingAndDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/a.jpg", []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := fs.MkdirAll("/album", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	valid, skipped := FilterInputs(fs, []string{"/a.jpg", "/nope.jpg", "/album", "/b.bmp"})
	if len(valid) != 1 || valid[0] != "/a.jpg" {
		t.Fatalf("unexpected valid paths %v", valid)
	}
	if len(skipped) != 3 {
		t.Fatalf("expected 3 skipped, got %v", skipped)
	}
	if got := skipped[1].String(); got != "/album is not a file, skipping" {
		t.Fatalf("unexpected skip line %q", got)
	}
	if skipped[0].Reason != "does not exist" {
		t.Fatalf("unexpected reason %q", skipped[0].Reason)
	}
}

func TestValidatorOrder(t *testing.T) {
	v := Validator{FS: afero.NewMemMapFs(), Formats: domain.NewFormatSet(".jpg")}
	if kind := appErrors.KindOf(v.Validate("/missing.bmp")); kind != appErrors.NotFound {
		t.Fatalf("existence is checked before format, got %s", kind)
	}
}
