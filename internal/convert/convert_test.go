package convert

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool
	runFunc       func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error

	name string
	args []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	m.name, m.args = name, args
	if m.runFunc != nil {
		return m.runFunc(ctx, name, args, stdout, stderr)
	}
	return nil
}

// writePDF behaves like soffice: it writes <stem>.pdf into --outdir.
func writePDF(_ context.Context, _ string, args []string, _, _ io.Writer) error {
	var outDir string
	for i, a := range args {
		if a == "--outdir" {
			outDir = args[i+1]
		}
	}
	in := args[len(args)-1]
	stem := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	return os.WriteFile(filepath.Join(outDir, stem+".pdf"), []byte("%PDF-1.7"), 0o644)
}

func never(string) bool { return false }

func TestFindSoffice(t *testing.T) {
	candidates := []string{"/a/soffice", "/b/soffice"}

	tests := []struct {
		name       string
		configured string
		existing   map[string]bool
		want       string
	}{
		{"configured wins", "/opt/lo/soffice", map[string]bool{"/a/soffice": true}, "/opt/lo/soffice"},
		{"first existing candidate", "", map[string]bool{"/b/soffice": true}, "/b/soffice"},
		{"candidate order", "", map[string]bool{"/a/soffice": true, "/b/soffice": true}, "/a/soffice"},
		{"PATH fallback", "", map[string]bool{}, "soffice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findSoffice(tt.configured, candidates, func(p string) bool { return tt.existing[p] })
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSofficeCandidates(t *testing.T) {
	assert.Contains(t, sofficeCandidates("windows"), `C:\Program Files\LibreOffice\program\soffice.exe`)
	assert.Equal(t, []string{"/Applications/LibreOffice.app/Contents/MacOS/soffice"}, sofficeCandidates("darwin"))
	assert.Contains(t, sofficeCandidates("linux"), "/usr/bin/soffice")
}

func TestCommand(t *testing.T) {
	lo, err := newLibreOffice("", `--norestore "-env:UserInstallation=file:///tmp/lo profile"`, 0, &mockExecutor{}, nil, never)
	require.NoError(t, err)

	assert.Equal(t, "soffice", lo.Binary())
	assert.Equal(t, []string{
		"--headless", "--convert-to", "pdf", "--outdir", "/out",
		"--norestore", "-env:UserInstallation=file:///tmp/lo profile",
		"/tmp/in.docx",
	}, lo.Command("/tmp/in.docx", "/out"))
}

func TestBadArgs(t *testing.T) {
	_, err := newLibreOffice("", `--norestore "unterminated`, 0, &mockExecutor{}, nil, never)
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	ex := &mockExecutor{runFunc: writePDF}
	lo, err := newLibreOffice("/opt/soffice", "", time.Minute, ex, nil, never)
	require.NoError(t, err)

	docx := filepath.Join(dir, "01J0ABC.docx")
	require.NoError(t, os.WriteFile(docx, []byte("docx"), 0o644))

	pdf, err := lo.Convert(context.Background(), docx, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "01J0ABC.pdf"), pdf)
	assert.FileExists(t, pdf)
	assert.Equal(t, "/opt/soffice", ex.name)
}

func TestConvertFailureCarriesStderr(t *testing.T) {
	ex := &mockExecutor{runFunc: func(_ context.Context, _ string, _ []string, _, stderr io.Writer) error {
		io.WriteString(stderr, "Error: source file could not be loaded\n")
		return errors.New("exit status 1")
	}}
	lo, err := newLibreOffice("", "", 0, ex, nil, never)
	require.NoError(t, err)

	_, err = lo.Convert(context.Background(), "/tmp/in.docx", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 1")
	assert.Contains(t, err.Error(), "source file could not be loaded")
}

func TestConvertNoOutput(t *testing.T) {
	lo, err := newLibreOffice("", "", 0, &mockExecutor{}, nil, never)
	require.NoError(t, err)

	_, err = lo.Convert(context.Background(), "/tmp/in.docx", t.TempDir())
	assert.ErrorIs(t, err, ErrNoOutput)
}

func TestConvertTimeout(t *testing.T) {
	ex := &mockExecutor{runFunc: func(ctx context.Context, _ string, _ []string, _, _ io.Writer) error {
		<-ctx.Done()
		return errors.New("signal: killed")
	}}
	lo, err := newLibreOffice("", "", 10*time.Millisecond, ex, nil, never)
	require.NoError(t, err)

	_, err = lo.Convert(context.Background(), "/tmp/in.docx", t.TempDir())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAvailable(t *testing.T) {
	lo, err := newLibreOffice("", "", 0, &mockExecutor{availableBins: map[string]bool{"soffice": true}}, nil, never)
	require.NoError(t, err)
	assert.NoError(t, lo.Available())

	lo, err = newLibreOffice("", "", 0, &mockExecutor{}, nil, never)
	require.NoError(t, err)
	assert.Error(t, lo.Available())
}
