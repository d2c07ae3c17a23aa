package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_RejectsInvalidConfig(t *testing.T) {
	t.Setenv("MARKETSIM_STORE_DRIVER", "mongo")

	err := run("")
	if err == nil || !strings.Contains(err.Error(), `unknown store.driver "mongo"`) {
		t.Fatalf("expected store driver error, got %v", err)
	}
}

func TestRun_RejectsUnknownScenario(t *testing.T) {
	t.Setenv("MARKETSIM_SIM_SCENARIO", "no-such-scenario")

	err := run("")
	if err == nil || !strings.Contains(err.Error(), "unknown scenario") {
		t.Fatalf("expected scenario error, got %v", err)
	}
}

func TestRun_MissingConfigFile(t *testing.T) {
	err := run(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
