// Package convert turns filled .docx files into PDF through an external
// office suite.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

// ErrNoOutput is returned when the converter exits cleanly but the expected
// PDF is missing.
var ErrNoOutput = errors.New("converter produced no output")

// Converter transforms a .docx file into a PDF.
type Converter interface {
	// Convert writes the PDF for docxPath into outDir and returns its path.
	Convert(ctx context.Context, docxPath, outDir string) (string, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 - binary comes from config
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

const binSoffice = "soffice"

// sofficeCandidates are the well-known install locations per platform.
func sofficeCandidates(goos string) []string {
	switch goos {
	case "windows":
		return []string{
			`C:\Program Files\LibreOffice\program\soffice.exe`,
			`C:\Program Files (x86)\LibreOffice\program\soffice.exe`,
		}
	case "darwin":
		return []string{"/Applications/LibreOffice.app/Contents/MacOS/soffice"}
	default:
		return []string{"/usr/bin/soffice", "/usr/local/bin/soffice", "/usr/bin/libreoffice"}
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// findSoffice picks the configured binary, else the first existing candidate,
// else plain "soffice" resolved through PATH.
func findSoffice(configured string, candidates []string, exists func(string) bool) string {
	if configured != "" {
		return configured
	}
	for _, c := range candidates {
		if exists(c) {
			return c
		}
	}
	return binSoffice
}

// LibreOffice converts documents with `soffice --headless --convert-to pdf`.
type LibreOffice struct {
	binary  string
	args    []string
	timeout time.Duration
	exec    executor
}

// NewLibreOffice creates a converter. binary may be empty to auto-detect the
// installation. args is a shell-quoted string of extra soffice arguments,
// timeout bounds each conversion when positive.
func NewLibreOffice(binary, args string, timeout time.Duration) (*LibreOffice, error) {
	return newLibreOffice(binary, args, timeout, &osExecutor{}, sofficeCandidates(runtime.GOOS), fileExists)
}

func newLibreOffice(binary, args string, timeout time.Duration, ex executor, candidates []string, exists func(string) bool) (*LibreOffice, error) {
	extra, err := shellquote.Split(args)
	if err != nil {
		return nil, fmt.Errorf("converter args %q: %w", args, err)
	}
	return &LibreOffice{
		binary:  findSoffice(binary, candidates, exists),
		args:    extra,
		timeout: timeout,
		exec:    ex,
	}, nil
}

// Binary returns the soffice executable in use.
func (l *LibreOffice) Binary() string { return l.binary }

// Available reports whether the binary can be found.
func (l *LibreOffice) Available() error {
	if _, err := l.exec.LookPath(l.binary); err != nil {
		return fmt.Errorf("LibreOffice not found (%s): %w", l.binary, err)
	}
	return nil
}

// Command returns the argument list used to convert docxPath.
func (l *LibreOffice) Command(docxPath, outDir string) []string {
	args := []string{"--headless", "--convert-to", "pdf", "--outdir", outDir}
	args = append(args, l.args...)
	return append(args, docxPath)
}

// Convert runs soffice and returns the path of the produced PDF, which has
// the stem of docxPath.
func (l *LibreOffice) Convert(ctx context.Context, docxPath, outDir string) (string, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	if err := l.exec.Run(ctx, l.binary, l.Command(docxPath, outDir), &stdout, &stderr); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("converting %s with %s: %w: %s", filepath.Base(docxPath), l.binary, err, msg)
		}
		return "", fmt.Errorf("converting %s with %s: %w", filepath.Base(docxPath), l.binary, err)
	}

	stem := strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))
	pdfPath := filepath.Join(outDir, stem+".pdf")
	if !fileExists(pdfPath) {
		return "", fmt.Errorf("%w: expected %s", ErrNoOutput, pdfPath)
	}
	return pdfPath, nil
}
