package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"

	"marketsim/internal/app/ports"
)

// Files lists the archive files under dir in chronological order.
func Files(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, filePrefix+"-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ReadDir decodes every tick record under dir, oldest file first.
func ReadDir(dir string) ([]ports.TickRecord, error) {
	files, err := Files(dir)
	if err != nil {
		return nil, err
	}
	out := []ports.TickRecord{}
	for _, path := range files {
		recs, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

// ReadFile decodes one archive file. A stream that stops mid-frame, as left by a
// writer that is still open, ends the file instead of failing it; malformed JSON fails.
func ReadFile(path string) ([]ports.TickRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer dec.Close()

	out := []ports.TickRecord{}
	jd := json.NewDecoder(dec)
	for {
		var rec ports.TickRecord
		err := jd.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return out, fmt.Errorf("decode %s record %d: %w", filepath.Base(path), len(out)+1, err)
		}
		if err != nil {
			return out, nil
		}
		out = append(out, rec)
	}
}
