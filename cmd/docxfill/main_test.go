package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobiverse/docxfill"
	"github.com/bobiverse/docxfill/internal/config"
	"github.com/bobiverse/docxfill/internal/docxtest"
)

func withTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	doc := docxtest.Document(docxtest.Paragraph("[Date] [Company]"))
	docxtest.WriteFile(t, dir, "[Template]_Data_Analyst.docx", doc)
	docxtest.WriteFile(t, dir, "[Template]_Software_Engineer.docx", doc)

	old := cfg
	cfg = config.Default()
	cfg.TemplatesDir = dir
	t.Cleanup(func() { cfg = old })
	return dir
}

func TestResolveTemplate(t *testing.T) {
	dir := withTemplates(t)
	engineer := filepath.Join(dir, "[Template]_Software_Engineer.docx")

	tests := []struct {
		arg  string
		want string
	}{
		{engineer, engineer},
		{"[Template]_Software_Engineer.docx", engineer},
		{"2", engineer},
		{"software engineer", engineer},
		{"1", filepath.Join(dir, "[Template]_Data_Analyst.docx")},
	}
	for _, tt := range tests {
		got, err := resolveTemplate(tt.arg)
		require.NoError(t, err, tt.arg)
		assert.Equal(t, tt.want, got, tt.arg)
	}

	for _, bad := range []string{"3", "0", "Manager"} {
		_, err := resolveTemplate(bad)
		assert.Error(t, err, bad)
	}
}

func TestMissing(t *testing.T) {
	withTemplates(t)

	placeholders := []docxfill.Placeholder{"[Date]", "[Company]", "[Title]"}
	preset := docxfill.Values{"[Title]": "Engineer"}
	assert.Equal(t, []docxfill.Placeholder{"[Company]"}, missing(placeholders, preset))
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"list", "placeholders", "fill", "batch", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
