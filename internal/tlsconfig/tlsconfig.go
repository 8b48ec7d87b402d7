// Package tlsconfig builds the tls.Config this client connects with and
// implements trust-on-first-use certificate pinning for Deskflow's
// self-signed-certificate deployment model. Grounded on
// original_source/packages/pynergy_client/src/pynergy_client/utils.py:
// generate_self_signed_pem, get_or_create_client_cert, get_fingerprint,
// setup_ssl_context, and validate_cert.
package tlsconfig

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"
)

// Mode selects how the client verifies the server's certificate, matching
// SPEC_FULL.md's tls/mtls/tls_trust configuration surface.
type Mode int

const (
	// ModePlain disables TLS entirely (legacy Synergy servers).
	ModePlain Mode = iota
	// ModeTLS encrypts the connection but does not validate the server
	// certificate against a CA (Deskflow's self-signed default); identity
	// is instead confirmed out of band via TOFU fingerprint pinning.
	ModeTLS
	// ModeMutualTLS additionally presents a client certificate generated
	// the same way as the server's.
	ModeMutualTLS
)

const certValidity = 365 * 24 * time.Hour
const renewBefore = 24 * time.Hour

// EnsureClientCert loads the client certificate/key at pemPath, generating a
// fresh self-signed pair if none exists or the existing one expires within
// renewBefore. Mirrors get_or_create_client_cert's regenerate-if-near-expiry
// policy.
func EnsureClientCert(pemPath string) (tls.Certificate, error) {
	if cert, err := tls.LoadX509KeyPair(pemPath, pemPath); err == nil {
		leaf, parseErr := x509.ParseCertificate(cert.Certificate[0])
		if parseErr == nil && time.Until(leaf.NotAfter) > renewBefore {
			return cert, nil
		}
	}
	return generateSelfSigned(pemPath)
}

func generateSelfSigned(pemPath string) (tls.Certificate, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("tlsconfig: generate key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("tlsconfig: generate serial: %w", err)
	}

	template := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: "synergyclient"},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(certValidity),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("tlsconfig: create certificate: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(pemPath), 0o700); err != nil {
		return tls.Certificate{}, fmt.Errorf("tlsconfig: create config dir: %w", err)
	}

	f, err := os.OpenFile(pemPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("tlsconfig: open %s: %w", pemPath, err)
	}
	defer f.Close()

	if err := pem.Encode(f, &pem.Block{Type: "CERTIFICATE", Bytes: der}); err != nil {
		return tls.Certificate{}, err
	}
	keyBytes := x509.MarshalPKCS1PrivateKey(key)
	if err := pem.Encode(f, &pem.Block{Type: "RSA PRIVATE KEY", Bytes: keyBytes}); err != nil {
		return tls.Certificate{}, err
	}

	return tls.LoadX509KeyPair(pemPath, pemPath)
}

// Fingerprint returns the hex SHA-256 digest of a certificate's DER bytes,
// the value TOFU pinning compares across connections.
func Fingerprint(der []byte) string {
	sum := sha256.Sum256(der)
	return fmt.Sprintf("%x", sum)
}

// KnownHosts is the TOFU trust store: a JSON map of "host:port" to the
// fingerprint first observed for it, persisted next to the client cert.
// Grounded on validate_cert's known_hosts.json read/write pattern.
type KnownHosts struct {
	path string
	data map[string]string
}

// LoadKnownHosts reads (or initializes) the known-hosts file at path.
func LoadKnownHosts(path string) (*KnownHosts, error) {
	kh := &KnownHosts{path: path, data: make(map[string]string)}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return kh, nil
		}
		return nil, fmt.Errorf("tlsconfig: read known hosts: %w", err)
	}
	if err := json.Unmarshal(raw, &kh.data); err != nil {
		return nil, fmt.Errorf("tlsconfig: parse known hosts: %w", err)
	}
	return kh, nil
}

// UntrustedFingerprint is returned by Verify when a host's pinned
// fingerprint does not match what the server presented this time: a
// possible MITM, or simply a server that regenerated its certificate.
type UntrustedFingerprint struct {
	Host     string
	Expected string
	Got      string
}

func (e *UntrustedFingerprint) Error() string {
	return fmt.Sprintf("tlsconfig: fingerprint for %s changed: expected %s, got %s", e.Host, e.Expected, e.Got)
}

// Verify implements TOFU: an unseen host is pinned and accepted; a
// previously seen host must match exactly or Verify fails. trustOnChange, if
// true, repins instead of failing (SPEC_FULL.md's tls_trust="always"
// escape hatch for re-provisioned servers).
func (kh *KnownHosts) Verify(host, fingerprint string, trustOnChange bool) error {
	existing, seen := kh.data[host]
	if !seen || trustOnChange {
		kh.data[host] = fingerprint
		return kh.save()
	}
	if existing != fingerprint {
		return &UntrustedFingerprint{Host: host, Expected: existing, Got: fingerprint}
	}
	return nil
}

func (kh *KnownHosts) save() error {
	raw, err := json.MarshalIndent(kh.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(kh.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(kh.path, raw, 0o600)
}

// ClientConfig builds the tls.Config for mode, loading/generating the
// client certificate when mtls is requested. Server certificate validation
// always runs in InsecureSkipVerify mode with no VerifyConnection hook,
// since Deskflow-compatible servers are expected to present
// self-signed certificates that no public CA would ever validate; identity
// instead comes from the TOFU pin applied in Session after the handshake.
func ClientConfig(mode Mode, pemPath string) (*tls.Config, error) {
	cfg := &tls.Config{
		InsecureSkipVerify: true,
		MinVersion:         tls.VersionTLS12,
	}
	if mode == ModeMutualTLS {
		cert, err := EnsureClientCert(pemPath)
		if err != nil {
			return nil, err
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}
