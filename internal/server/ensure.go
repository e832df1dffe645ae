package server

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const (
	permKey  = 0600
	permCert = 0644

	certValidity = 365 * 24 * time.Hour
)

// EnsureCertificate loads the family API key pair, creating a self-signed
// ed25519 certificate for hosts when either file is missing. A new key always
// gets a new certificate.
func EnsureCertificate(certPath, keyPath string, hosts []string, logger *zerolog.Logger) (tls.Certificate, error) {
	var (
		keyIsNew bool
		key      ed25519.PrivateKey
		keyPEM   []byte
		certPEM  []byte
	)
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	if _, err := os.Stat(keyPath); errors.Is(err, os.ErrNotExist) {
		logger.Warn().
			Str("file", keyPath).
			Msg("private key does not exist")
		key, keyPEM, err = generateKeyFile(keyPath)
		if err != nil {
			return tls.Certificate{}, err
		}
		keyIsNew = true
		logger.Info().
			Str("file", keyPath).
			Msg("created new private key")
	} else if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to retrieve private key: %w", err)
	} else {
		key, keyPEM, err = loadKeyFile(keyPath)
		if err != nil {
			return tls.Certificate{}, err
		}
	}

	if _, err := os.Stat(certPath); errors.Is(err, os.ErrNotExist) || keyIsNew {
		logger.Warn().
			Str("file", certPath).
			Msg("certificate does not exist or predates the key")
		certPEM, err = generateCertificateFile(certPath, key, certificateTemplate(hosts))
		if err != nil {
			return tls.Certificate{}, err
		}
		logger.Info().
			Str("file", certPath).
			Strs("hosts", hosts).
			Msg("created self-signed certificate")
	} else if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to retrieve certificate: %w", err)
	} else {
		certPEM, err = os.ReadFile(certPath)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to read certificate: %w", err)
		}
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to load key pair: %w", err)
	}
	return cert, nil
}

func certificateTemplate(hosts []string) x509.Certificate {
	now := time.Now()
	tmpl := x509.Certificate{
		SerialNumber:          big.NewInt(now.UnixNano()),
		Subject:               pkix.Name{Organization: []string{"famlink"}},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.Add(certValidity),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			tmpl.IPAddresses = append(tmpl.IPAddresses, ip)
		} else {
			tmpl.DNSNames = append(tmpl.DNSNames, h)
		}
	}
	if len(hosts) > 0 {
		tmpl.Subject.CommonName = hosts[0]
	}
	return tmpl
}

func generateKeyFile(keyPath string) (ed25519.PrivateKey, []byte, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate private key: %w", err)
	}
	keyBytes, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	keyPEM, err := writePEM(keyPath, "PRIVATE KEY", keyBytes, permKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to write private key: %w", err)
	}
	return key, keyPEM, nil
}

func loadKeyFile(keyPath string) (ed25519.PrivateKey, []byte, error) {
	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read private key: %w", err)
	}

	keyBlock, _ := pem.Decode(keyPEM)
	if keyBlock == nil {
		return nil, nil, fmt.Errorf("failed to decode private key %s: no PEM block", keyPath)
	}
	keyAny, err := x509.ParsePKCS8PrivateKey(keyBlock.Bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	key, ok := keyAny.(ed25519.PrivateKey)
	if !ok {
		return nil, nil, fmt.Errorf("incorrect private key format (must be ed25519)")
	}

	return key, keyPEM, nil
}

func generateCertificateFile(certPath string, key ed25519.PrivateKey, template x509.Certificate) ([]byte, error) {
	cert, err := x509.CreateCertificate(rand.Reader, &template, &template, key.Public(), key)
	if err != nil {
		return nil, fmt.Errorf("failed generating certificate: %w", err)
	}
	certPEM, err := writePEM(certPath, "CERTIFICATE", cert, permCert)
	if err != nil {
		return nil, fmt.Errorf("failed to write certificate: %w", err)
	}
	return certPEM, nil
}

func writePEM(path, blockType string, der []byte, perm os.FileMode) ([]byte, error) {
	var buf bytes.Buffer
	if err := pem.Encode(&buf, &pem.Block{Type: blockType, Bytes: der}); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, buf.Bytes(), perm); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
