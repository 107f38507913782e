package tls

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLoad_Disabled tests that a disabled config yields no TLS settings
func TestLoad_Disabled(t *testing.T) {
	cfg, err := Load(DefaultConfig())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != nil {
		t.Error("Expected nil config when TLS is disabled")
	}
}

// TestLoad_AutoGenerate tests self-signed generation for localhost
func TestLoad_AutoGenerate(t *testing.T) {
	c := DefaultConfig()
	c.Enabled = true

	cfg, err := Load(c)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Certificates) != 1 {
		t.Fatalf("Expected 1 certificate, got %d", len(cfg.Certificates))
	}
	if cfg.MinVersion != tls.VersionTLS12 {
		t.Errorf("Expected TLS 1.2 minimum, got %x", cfg.MinVersion)
	}

	leaf, err := x509.ParseCertificate(cfg.Certificates[0].Certificate[0])
	if err != nil {
		t.Fatalf("Failed to parse certificate: %v", err)
	}
	if err := leaf.VerifyHostname("localhost"); err != nil {
		t.Errorf("Expected localhost SAN: %v", err)
	}
	if err := leaf.VerifyHostname("127.0.0.1"); err != nil {
		t.Errorf("Expected 127.0.0.1 SAN: %v", err)
	}
}

// TestLoad_NoCertificate tests that TLS without a source is rejected
func TestLoad_NoCertificate(t *testing.T) {
	_, err := Load(Config{Enabled: true})
	if !errors.Is(err, ErrNoCertificate) {
		t.Errorf("Expected ErrNoCertificate, got %v", err)
	}
}

// TestLoad_Files tests loading written PEM files and client verification
func TestLoad_Files(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "certs", "server.crt")
	keyFile := filepath.Join(dir, "certs", "server.key")

	if err := WriteSelfSigned([]string{"controller.local"}, "test", time.Hour, certFile, keyFile); err != nil {
		t.Fatalf("WriteSelfSigned failed: %v", err)
	}
	info, err := os.Stat(keyFile)
	if err != nil {
		t.Fatalf("Stat key: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("Expected key mode 0600, got %o", info.Mode().Perm())
	}

	cfg, err := Load(Config{Enabled: true, CertFile: certFile, KeyFile: keyFile, CAFile: certFile})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ClientCAs == nil || cfg.ClientAuth != tls.RequireAndVerifyClientCert {
		t.Error("Expected client certificate verification with CA file")
	}
}

// TestLoad_BadFiles tests error reporting for missing or invalid inputs
func TestLoad_BadFiles(t *testing.T) {
	dir := t.TempDir()
	junk := filepath.Join(dir, "junk.pem")
	if err := os.WriteFile(junk, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(Config{Enabled: true, CertFile: junk, KeyFile: junk}); err == nil {
		t.Error("Expected error for invalid key pair")
	}
	if _, err := LoadCAPool(junk); err == nil {
		t.Error("Expected error for CA file without certificates")
	}
	if _, err := LoadCAPool(filepath.Join(dir, "missing.pem")); err == nil {
		t.Error("Expected error for missing CA file")
	}
}
