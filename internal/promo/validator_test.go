package promo

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeCodesFile(t *testing.T, dir, name string, codes ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	var buf bytes.Buffer
	for _, code := range codes {
		buf.WriteString(code)
		buf.WriteString("\n")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write codes file %s: %v", name, err)
	}
	return path
}

func writeGzipCodesFile(t *testing.T, dir, name string, codes ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	for _, code := range codes {
		gz.Write([]byte(code + "\n"))
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip codes: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write gzip codes file %s: %v", name, err)
	}
	return path
}

func setupCodeFiles(t *testing.T) (string, string, string) {
	t.Helper()

	dir := t.TempDir()
	file1 := writeCodesFile(t, dir, "codes1.txt", "VALIDABC", "TESTCODE", "COUPON01", "AAAA1111")
	file2 := writeCodesFile(t, dir, "codes2.txt", "VALIDABC", "TESTCODE", "SPECIAL9", "BBBB2222")
	file3 := writeCodesFile(t, dir, "codes3.txt", "VALIDABC", "SPECIAL9", "ONLYONE1", "CCCC3333")
	return file1, file2, file3
}

func TestValidatorLoad(t *testing.T) {
	t.Run("multiple files", func(t *testing.T) {
		file1, file2, file3 := setupCodeFiles(t)

		v := NewValidator()
		if err := v.Load(context.Background(), []string{file1, file2, file3}); err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		sets, codes := v.Stats()
		if sets != 3 {
			t.Errorf("loaded %d sets, want 3", sets)
		}
		if codes != 12 {
			t.Errorf("loaded %d codes, want 12", codes)
		}
	})

	t.Run("gzip file by suffix", func(t *testing.T) {
		dir := t.TempDir()
		path := writeGzipCodesFile(t, dir, "codes.txt.gz", "GZIPCODE")

		v := NewValidator()
		if err := v.Load(context.Background(), []string{path}); err != nil {
			t.Fatalf("Load() gzip error = %v", err)
		}
		if !v.IsValid("GZIPCODE") {
			t.Error("code from gzip source not found")
		}
	})

	t.Run("empty sources", func(t *testing.T) {
		v := NewValidator()
		if err := v.Load(context.Background(), nil); err == nil {
			t.Error("Load() with no sources: expected error, got nil")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		v := NewValidator()
		if err := v.Load(context.Background(), []string{"/non/existent/codes.txt"}); err == nil {
			t.Error("Load() with missing file: expected error, got nil")
		}
	})

	t.Run("one bad source fails the load", func(t *testing.T) {
		file1, _, _ := setupCodeFiles(t)

		v := NewValidator()
		err := v.Load(context.Background(), []string{file1, "/non/existent/codes.txt"})
		if err == nil {
			t.Error("Load() with one bad source: expected error, got nil")
		}
	})
}

func TestValidatorLoadFromURL(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	gz.Write([]byte("REMOTE01\nREMOTE02\n"))
	gz.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/codes.txt.gz" {
			w.Write(buf.Bytes())
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	t.Run("gzipped url", func(t *testing.T) {
		v := NewValidator()
		if err := v.Load(context.Background(), []string{srv.URL + "/codes.txt.gz"}); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !v.IsValid("REMOTE01") {
			t.Error("code from URL source not found")
		}
	})

	t.Run("non-200 response", func(t *testing.T) {
		v := NewValidator()
		if err := v.Load(context.Background(), []string{srv.URL + "/missing.txt"}); err == nil {
			t.Error("Load() with 404 source: expected error, got nil")
		}
	})
}

func TestValidatorIsValid(t *testing.T) {
	file1, file2, file3 := setupCodeFiles(t)

	v := NewValidator()
	if err := v.Load(context.Background(), []string{file1, file2, file3}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		code string
		want bool
	}{
		{"in all three sets", "VALIDABC", true},
		{"in two of three sets", "TESTCODE", true},
		{"in sets two and three", "SPECIAL9", true},
		{"in one set only", "COUPON01", false},
		{"in last set only", "ONLYONE1", false},
		{"unknown code", "NOTEXIST", false},
		{"too short", "SHORT", false},
		{"too long", "TOOLONGCODE", false},
		{"lowercase matches", "validabc", true},
		{"surrounding whitespace ignored", "  VALIDABC  ", true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.IsValid(tt.code); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestValidatorIsValidSingleSet(t *testing.T) {
	dir := t.TempDir()
	file := writeCodesFile(t, dir, "codes.txt", "SOLOCODE")

	v := NewValidator()
	if err := v.Load(context.Background(), []string{file}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !v.IsValid("SOLOCODE") {
		t.Error("single-set membership should be enough with one source")
	}
	if v.IsValid("NOTEXIST") {
		t.Error("unknown code accepted")
	}
}

func TestValidatorUnloadedAndNil(t *testing.T) {
	if NewValidator().IsValid("VALIDABC") {
		t.Error("unloaded validator accepted a code")
	}

	var v *Validator
	if v.IsValid("VALIDABC") {
		t.Error("nil validator accepted a code")
	}
}

func TestValidatorConcurrentAccess(t *testing.T) {
	file1, file2, file3 := setupCodeFiles(t)

	v := NewValidator()
	if err := v.Load(context.Background(), []string{file1, file2, file3}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var wg sync.WaitGroup
	codes := []string{"VALIDABC", "TESTCODE", "SPECIAL9", "NOTEXIST"}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			code := codes[n%len(codes)]
			got := v.IsValid(code)
			want := code != "NOTEXIST"
			if got != want {
				t.Errorf("IsValid(%q) = %v, want %v", code, got, want)
			}
		}(i)
	}
	wg.Wait()
}
