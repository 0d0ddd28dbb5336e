package knox

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// NewTLSConfig builds the TLS configuration for gateway and NiFi calls.
//
// When verify is false certificate verification is skipped entirely; caBundle,
// if set, is a PEM file appended to the system root pool. Returns nil when
// neither option is set so callers keep Go's defaults.
func NewTLSConfig(verify bool, caBundle string) (*tls.Config, error) {
	if verify && caBundle == "" {
		return nil, nil
	}

	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if !verify {
		cfg.InsecureSkipVerify = true
		return cfg, nil
	}

	pem, err := os.ReadFile(caBundle)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA bundle %s: %w", caBundle, err)
	}

	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in CA bundle %s", caBundle)
	}
	cfg.RootCAs = pool

	return cfg, nil
}
