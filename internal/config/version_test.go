package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetVersion(t *testing.T) {
	// Default should be "dev"
	v := GetVersion()
	if v != "dev" {
		t.Errorf("expected default version dev, got %s", v)
	}
}

func TestGetBuild(t *testing.T) {
	b := GetBuild()
	if b != "unknown" {
		t.Errorf("expected default build unknown, got %s", b)
	}
}

func TestGetFullVersion(t *testing.T) {
	fv := GetFullVersion()
	expected := "dev (build: unknown, commit: unknown)"
	if fv != expected {
		t.Errorf("expected full version %q, got %q", expected, fv)
	}
}

func TestLoadVersionFile_FillsDefaultsOnly(t *testing.T) {
	origVersion, origBuild, origCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = origVersion, origBuild, origCommit })

	Build = "from-ldflags"

	path := filepath.Join(t.TempDir(), ".version")
	content := "# release metadata\nversion: 1.2.3\nbuild: 2026-10-01\ncommit: abc1234\nnot a pair\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	loadVersionFile(path)

	if Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", Version)
	}
	if Build != "from-ldflags" {
		t.Errorf("expected ldflags build to win, got %s", Build)
	}
	if GitCommit != "abc1234" {
		t.Errorf("expected commit abc1234, got %s", GitCommit)
	}
}

func TestLoadVersionFile_MissingFile(t *testing.T) {
	origVersion := Version
	t.Cleanup(func() { Version = origVersion })

	loadVersionFile(filepath.Join(t.TempDir(), "missing"))

	if Version != origVersion {
		t.Errorf("expected version unchanged, got %s", Version)
	}
}
