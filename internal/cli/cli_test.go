package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/ccong2/austin-open-data/pkg/catalog"
)

// quietContext returns a context whose logger discards all output.
func quietContext(t *testing.T) context.Context {
	t.Helper()
	return withLogger(t.Context(), newLogger(io.Discard, charmlog.ErrorLevel))
}

// writeRecordsFile saves records to a temp file and returns its path.
func writeRecordsFile(t *testing.T, records []catalog.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := catalog.WriteRecords(records, f); err != nil {
		t.Fatal(err)
	}
	return path
}

func testRecords() []catalog.Record {
	env := "Environment"
	downloads := int64(42)
	return []catalog.Record{
		{Name: "Water Quality", Category: &env, Tags: []string{"water"}, ResourceType: "dataset", DownloadCount: &downloads},
		{Name: "Untagged Asset", Tags: []string{}, ResourceType: "map"},
	}
}

func TestLoadRecordsFromFile(t *testing.T) {
	path := writeRecordsFile(t, testRecords())

	records, err := loadRecords(quietContext(t), sourceOpts{input: path})
	if err != nil {
		t.Fatalf("loadRecords: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
	if records[0].Name != "Water Quality" {
		t.Errorf("first record = %q", records[0].Name)
	}
}

func TestLoadRecordsMissingFile(t *testing.T) {
	_, err := loadRecords(quietContext(t), sourceOpts{input: filepath.Join(t.TempDir(), "nope.json")})
	if err == nil {
		t.Error("expected error for missing input file")
	}
}

func TestSourceLabel(t *testing.T) {
	if got := sourceLabel(sourceOpts{domain: "data.example.gov"}); got != "data.example.gov" {
		t.Errorf("sourceLabel = %q", got)
	}
	if got := sourceLabel(sourceOpts{domain: "data.example.gov", input: "snap.json"}); got != "snap.json" {
		t.Errorf("sourceLabel with input = %q", got)
	}
}

func TestNewCacheDisabled(t *testing.T) {
	if c := newCache(true); c != nil {
		t.Error("newCache(true) should return nil")
	}
}

func TestNewCacheUsesXDGDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	c := newCache(false)
	if c == nil {
		t.Fatal("newCache returned nil with a writable cache home")
	}
	if got, want := c.Dir(), filepath.Join(dir, "opendata"); got != want {
		t.Errorf("cache dir = %q, want %q", got, want)
	}
}

func TestOpenOutputStdout(t *testing.T) {
	out, err := openOutput("")
	if err != nil {
		t.Fatalf("openOutput: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Errorf("closing stdout wrapper: %v", err)
	}
}

func TestOpenOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	out, err := openOutput(path)
	if err != nil {
		t.Fatalf("openOutput: %v", err)
	}
	if _, err := out.Write([]byte("x")); err != nil {
		t.Errorf("write: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file not created: %v", err)
	}
}
