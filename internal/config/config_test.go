package config

import (
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.Validate.Workers != runtime.NumCPU() {
		t.Errorf("default workers = %d, want NumCPU", cfg.Validate.Workers)
	}
	if cfg.Validate.MinFilesForPool != 8 {
		t.Errorf("default min_files_for_pool = %d, want 8", cfg.Validate.MinFilesForPool)
	}
	if cfg.Validate.Strict {
		t.Error("strict should default to false")
	}
	if cfg.Dispatch.Count != 5 {
		t.Errorf("default dispatch count = %d, want 5", cfg.Dispatch.Count)
	}
	if cfg.Dispatch.Parallel != 0 {
		t.Errorf("default parallel = %d, want 0", cfg.Dispatch.Parallel)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default log level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadUsesDefaults(t *testing.T) {
	resetViper(t)
	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Validate.MinFilesForPool != 8 {
		t.Errorf("loaded min_files_for_pool = %d, want 8", cfg.Validate.MinFilesForPool)
	}
	if cfg.Paths.TaskDir != "." {
		t.Errorf("loaded task_dir = %q, want .", cfg.Paths.TaskDir)
	}
}

func TestLoadRejectsInvalidExecutor(t *testing.T) {
	resetViper(t)
	SetDefaults()
	viper.Set("dispatch.executor", "warp")

	_, err := Load()
	if err == nil {
		t.Fatal("Load should reject unknown executor tier")
	}
	if !strings.Contains(err.Error(), "dispatch.executor") {
		t.Errorf("error should name the field, got: %v", err)
	}
}

func TestLoadRejectsNegativeWorkers(t *testing.T) {
	resetViper(t)
	SetDefaults()
	viper.Set("validate.workers", -2)

	if _, err := Load(); err == nil {
		t.Fatal("Load should reject negative workers")
	}
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	resetViper(t)
	SetDefaults()
	viper.Set("logging.level", "verbose")

	if _, err := Load(); err == nil {
		t.Fatal("Load should reject unknown log level")
	}
}

func TestValidationErrorsFormatting(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Value: 1, Message: "bad"},
		{Field: "b", Value: 2, Message: "worse"},
	}
	msg := errs.Error()
	if !strings.Contains(msg, "2 validation errors") {
		t.Errorf("multi-error message should include a count, got %q", msg)
	}

	one := ValidationErrors{{Field: "a", Value: 1, Message: "bad"}}
	if got := one.Error(); got != "a: bad (got: 1)" {
		t.Errorf("single error message = %q", got)
	}
}
