// Package output names generated PDFs and moves them into the outputs
// directory without overwriting earlier files.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/segmentio/fasthash/fnv1a"

	"github.com/bobiverse/docxfill"
)

// UnknownCompany is used in file names when no company value was given.
const UnknownCompany = "Unknown"

const invalidChars = `<>:"/\|?*`

// Sanitize drops characters that are not allowed in file names.
func Sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidChars, r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}

// Name builds "<prefix>_<company>_<YYYY-MM-DD>.pdf".
func Name(prefix, company string, date time.Time) string {
	company = Sanitize(company)
	if company == "" {
		company = UnknownCompany
	}
	return fmt.Sprintf("%s_%s_%s.pdf", prefix, company, date.Format(docxfill.DateLayout))
}

// CompanyName returns the first non-empty value among keys.
func CompanyName(values docxfill.Values, keys []string) string {
	for _, key := range keys {
		if v, ok := values.Get(key); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Place moves src into dir as name. When name is taken "_1", "_2"... is
// appended to the stem. The directory is locked while a free name is chosen
// so parallel runs never pick the same file.
func Place(dir, name, src string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create outputs dir: %w", err)
	}

	lock := flock.New(lockPath(dir))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("lock outputs dir: %w", err)
	}
	defer lock.Unlock() //nolint:errcheck

	dst := freeName(dir, name)
	if err := move(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// lockPath is the advisory lock file for dir. It lives in the temp dir so
// nothing extra shows up among the outputs.
func lockPath(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("docxfill-%016x.lock", fnv1a.HashString64(dir)))
}

func freeName(dir, name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	dst := filepath.Join(dir, name)
	for i := 1; exists(dst); i++ {
		dst = filepath.Join(dir, stem+"_"+strconv.Itoa(i)+ext)
	}
	return dst
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, os.ErrNotExist)
}

// move renames src to dst, copying when they live on different devices.
func move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src) // #nosec G304
	if err != nil {
		return fmt.Errorf("move output: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) // #nosec G304
	if err != nil {
		return fmt.Errorf("move output: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("move output: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("move output: %w", err)
	}

	in.Close()
	return os.Remove(src)
}
