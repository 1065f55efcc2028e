package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sampleConfig struct {
	Name    string        `split_words:"true" default:"gateway"`
	Timeout time.Duration `split_words:"true" default:"5s"`
	Limit   int           `split_words:"true"`
}

var errLimit = errors.New("limit too large")

type validatedConfig struct {
	Limit int `split_words:"true"`
}

func (c *validatedConfig) Validate() error {
	if c.Limit > 10 {
		return errLimit
	}
	return nil
}

func TestNewDecodesPrefixedEnvironment(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "crm")
	t.Setenv("SAMPLE_LIMIT", "7")

	conf, err := New[sampleConfig]("SAMPLE")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Name != "crm" || conf.Limit != 7 || conf.Timeout != 5*time.Second {
		t.Fatalf("New() = %+v", conf)
	}
}

func TestNewWrapsDecodeError(t *testing.T) {
	t.Setenv("BROKEN_LIMIT", "many")

	if _, err := New[sampleConfig]("BROKEN"); err == nil {
		t.Fatal("New() error = nil, want decode error")
	}
}

func TestNewRunsValidator(t *testing.T) {
	t.Setenv("CHECKED_LIMIT", "11")

	_, err := New[validatedConfig]("CHECKED")
	if !errors.Is(err, errLimit) {
		t.Fatalf("New() error = %v, want errLimit", err)
	}
}

func TestMustNewPanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("PANICKY_LIMIT", "99")

	defer func() {
		if recover() == nil {
			t.Fatal("MustNew() did not panic")
		}
	}()
	MustNew[validatedConfig]("PANICKY")
}

func TestExportEnvironmentKeepsExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "EXPORT_TEST_FRESH=from-file\nEXPORT_TEST_KEPT=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("EXPORT_TEST_KEPT", "from-process")
	t.Setenv("EXPORT_TEST_FRESH", "")
	os.Unsetenv("EXPORT_TEST_FRESH")

	if err := exportEnvironment(path); err != nil {
		t.Fatalf("exportEnvironment() error = %v", err)
	}
	if got := os.Getenv("EXPORT_TEST_FRESH"); got != "from-file" {
		t.Errorf("EXPORT_TEST_FRESH = %q, want from-file", got)
	}
	if got := os.Getenv("EXPORT_TEST_KEPT"); got != "from-process" {
		t.Errorf("EXPORT_TEST_KEPT = %q, want from-process", got)
	}
}

func TestExportEnvironmentIfExistsIgnoresMissingFile(t *testing.T) {
	if err := exportEnvironmentIfExists(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("exportEnvironmentIfExists() error = %v", err)
	}
}
