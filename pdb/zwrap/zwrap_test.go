// Test Zwrap
package zwrap_test

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/andrew-torda/fragmatch/pdb/zwrap"
)

const plain = "andrewsayshello\n"

// writeToTmp writes a byte slice to a file in a test directory and
// returns the name.
func writeToTmp(t *testing.T, name string, data []byte) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(fname, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return fname
}

func gz(t *testing.T, s string) []byte {
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		gzipped bool
	}{
		{"plain", []byte(plain), false},
		{"zipped", gz(t, plain), true},
	}
	for _, tt := range tests {
		fname := writeToTmp(t, tt.name, tt.data)
		fc, err := zwrap.Open(fname)
		if err != nil {
			t.Fatal(tt.name, err)
		}
		if fc.Gzipped() != tt.gzipped {
			t.Errorf("%s: gzipped is %v", tt.name, fc.Gzipped())
		}
		got, err := io.ReadAll(fc)
		if err != nil {
			t.Error(tt.name, err)
		}
		if string(got) != plain {
			t.Errorf("%s: got %q", tt.name, got)
		}
		if err := fc.Close(); err != nil {
			t.Error(tt.name, "close", err)
		}
	}
}

func TestOpenEmpty(t *testing.T) {
	fname := writeToTmp(t, "empty", nil)
	fc, err := zwrap.Open(fname)
	if err != nil {
		t.Fatal(err)
	}
	defer fc.Close()
	if got, _ := io.ReadAll(fc); len(got) != 0 {
		t.Errorf("empty file gave %d bytes", len(got))
	}
}

func TestOpenBroken(t *testing.T) {
	for _, s := range []string{"/does/not/exist", t.TempDir()} {
		if fc, err := zwrap.Open(s); err == nil {
			fc.Close()
			t.Errorf("expected an error opening %s", s)
		}
	}
}

func TestHead(t *testing.T) {
	fname := writeToTmp(t, "zipped", gz(t, plain))
	b, err := zwrap.Head(fname, 6)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "andrew" {
		t.Errorf("got %q", b)
	}
	b, err = zwrap.Head(fname, 1000)
	if err != nil || string(b) != plain {
		t.Errorf("long head got %q %v", b, err)
	}
}
