package tlsconfig

import (
	"path/filepath"
	"testing"
)

func TestEnsureClientCertGeneratesThenReuses(t *testing.T) {
	dir := t.TempDir()
	pemPath := filepath.Join(dir, "client.pem")

	first, err := EnsureClientCert(pemPath)
	if err != nil {
		t.Fatalf("first EnsureClientCert: %v", err)
	}
	second, err := EnsureClientCert(pemPath)
	if err != nil {
		t.Fatalf("second EnsureClientCert: %v", err)
	}
	if string(first.Certificate[0]) != string(second.Certificate[0]) {
		t.Fatal("expected the second call to reuse the existing certificate instead of regenerating")
	}
}

func TestKnownHostsTrustsOnFirstUseThenPins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "known_hosts.json")

	kh, err := LoadKnownHosts(path)
	if err != nil {
		t.Fatalf("LoadKnownHosts: %v", err)
	}
	if err := kh.Verify("server:24800", "aaaa", false); err != nil {
		t.Fatalf("expected first verify to trust-on-first-use, got: %v", err)
	}

	kh2, err := LoadKnownHosts(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := kh2.Verify("server:24800", "aaaa", false); err != nil {
		t.Fatalf("expected matching fingerprint to verify clean, got: %v", err)
	}
	err = kh2.Verify("server:24800", "bbbb", false)
	if _, ok := err.(*UntrustedFingerprint); !ok {
		t.Fatalf("expected *UntrustedFingerprint for a changed pin, got %v", err)
	}
}

func TestKnownHostsTrustOnChangeRepins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "known_hosts.json")
	kh, _ := LoadKnownHosts(path)
	kh.Verify("server:24800", "aaaa", false)
	if err := kh.Verify("server:24800", "bbbb", true); err != nil {
		t.Fatalf("expected trustOnChange to repin without error, got %v", err)
	}
}
