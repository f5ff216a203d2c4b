package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestInitReadsFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "docxfill.yaml")
	content := `templates_dir: letters
outputs_dir: pdf
output_prefix: Letter
company_keys: [Employer]
converter:
  binary: /opt/soffice
  args: "--norestore --infilter=\"MS Word 2007 XML\""
  timeout: 30s
`
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o644))

	v := viper.New()
	used, err := Init(v, cfgFile)
	require.NoError(t, err)
	assert.Equal(t, cfgFile, used)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "letters", cfg.TemplatesDir)
	assert.Equal(t, "pdf", cfg.OutputsDir)
	assert.Equal(t, "Letter", cfg.OutputPrefix)
	assert.Equal(t, "Date", cfg.DateToken)
	assert.Equal(t, []string{"Employer"}, cfg.CompanyKeys)
	assert.Equal(t, "/opt/soffice", cfg.Converter.Binary)
	assert.Equal(t, `--norestore --infilter="MS Word 2007 XML"`, cfg.Converter.Args)
	assert.Equal(t, 30*time.Second, cfg.Converter.Timeout)
}

func TestInitMissingExplicitFile(t *testing.T) {
	_, err := Init(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("DOCXFILL_OUTPUTS_DIR", "from-env")
	t.Setenv("DOCXFILL_CONVERTER_BINARY", "/env/soffice")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	v := viper.New()
	used, err := Init(v, "")
	require.NoError(t, err)
	assert.Empty(t, used)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.OutputsDir)
	assert.Equal(t, "/env/soffice", cfg.Converter.Binary)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.TemplatesDir = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Converter.Timeout = -time.Second
	assert.Error(t, cfg.Validate())

	assert.NoError(t, Default().Validate())
}

func TestEnsureOutputsDir(t *testing.T) {
	cfg := Default()
	cfg.OutputsDir = filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, cfg.EnsureOutputsDir())
	assert.DirExists(t, cfg.OutputsDir)
}
