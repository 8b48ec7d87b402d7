package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManagerSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	os.Setenv("HOME", dir)

	m, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	cfg := m.Get()
	cfg.Server = "example.lan"
	cfg.Port = 24800
	m.Set(cfg)

	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	m2, err := NewManager()
	if err != nil {
		t.Fatalf("second NewManager: %v", err)
	}
	if err := m2.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m2.Get().Server != "example.lan" {
		t.Fatalf("got server %q, want example.lan", m2.Get().Server)
	}
}

func TestLoadWithoutExistingFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	os.Setenv("HOME", dir)

	m, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load on missing file should not error: %v", err)
	}
	if m.Get().Port != 24800 {
		t.Fatalf("expected default port to survive a missing config file")
	}
}

func TestKnownHostsPathDerivedFromPemPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PemPath = filepath.Join("/tmp", "x", "client.pem")
	want := filepath.Join("/tmp", "x", "known_hosts.json")
	if got := cfg.KnownHostsPath(); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestRegisterChangeCallbackFiresOnSet(t *testing.T) {
	dir := t.TempDir()
	os.Setenv("HOME", dir)
	m, _ := NewManager()

	called := false
	m.RegisterChangeCallback(func() { called = true })
	m.Set(DefaultConfig())
	if !called {
		t.Fatal("expected change callback to fire on Set")
	}
}
