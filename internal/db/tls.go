package db

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"os"

	"github.com/axonops/cqlspec/internal/config"
)

// createTLSConfig creates a TLS configuration based on the SSL settings
func createTLSConfig(sslConfig *config.SSLConfig, hostname string) (*tls.Config, error) {
	serverName := tlsServerName(sslConfig, hostname)
	legacyCN := sslConfig.AllowLegacyCN && sslConfig.HostVerification

	tlsConfig := &tls.Config{
		// Legacy CN checks replace the standard verification, see verifyLegacyCN.
		InsecureSkipVerify: sslConfig.InsecureSkipVerify || legacyCN, // #nosec G402 - Configurable TLS verification
	}

	if sslConfig.HostVerification && !sslConfig.AllowLegacyCN && serverName != "" {
		tlsConfig.ServerName = serverName
	}

	if sslConfig.CertPath != "" && sslConfig.KeyPath != "" {
		cert, err := tls.LoadX509KeyPair(sslConfig.CertPath, sslConfig.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if sslConfig.CAPath != "" {
		pool, err := loadCAPool(sslConfig.CAPath)
		if err != nil {
			return nil, err
		}
		tlsConfig.RootCAs = pool
	}

	if legacyCN {
		tlsConfig.VerifyConnection = verifyLegacyCN(tlsConfig.RootCAs, serverName)
	}

	return tlsConfig, nil
}

// tlsServerName prefers the configured ServerName (SNI routing) over the host,
// stripping any port from the latter.
func tlsServerName(sslConfig *config.SSLConfig, hostname string) string {
	if sslConfig.ServerName != "" {
		return sslConfig.ServerName
	}
	if host, _, err := net.SplitHostPort(hostname); err == nil {
		return host
	}
	return hostname
}

func loadCAPool(path string) (*x509.CertPool, error) {
	caCert, err := os.ReadFile(path) // #nosec G304 - CA path comes from the user's config
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to parse CA certificate %s", path)
	}
	return pool, nil
}

// verifyLegacyCN accepts a peer whose SANs match serverName or, failing that,
// whose chain is valid and whose Common Name equals serverName.
func verifyLegacyCN(roots *x509.CertPool, serverName string) func(tls.ConnectionState) error {
	return func(cs tls.ConnectionState) error {
		if len(cs.PeerCertificates) == 0 {
			return fmt.Errorf("no peer certificates")
		}

		intermediates := x509.NewCertPool()
		for _, cert := range cs.PeerCertificates[1:] {
			intermediates.AddCert(cert)
		}

		leaf := cs.PeerCertificates[0]
		if _, err := leaf.Verify(x509.VerifyOptions{
			DNSName:       serverName,
			Roots:         roots,
			Intermediates: intermediates,
		}); err == nil {
			return nil
		}

		if _, err := leaf.Verify(x509.VerifyOptions{
			Roots:         roots,
			Intermediates: intermediates,
		}); err != nil {
			return fmt.Errorf("certificate verification failed: %w", err)
		}

		if leaf.Subject.CommonName == serverName {
			return nil
		}
		return fmt.Errorf("certificate CN %q doesn't match expected hostname %q", leaf.Subject.CommonName, serverName)
	}
}
