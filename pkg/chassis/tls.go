package chassis

import (
	"crypto/tls"
	"fmt"

	"github.com/hazyhaar/lexnorm/pkg/mcpquic"
)

// alpnH3 selects HTTP/3 on the shared QUIC listener.
const alpnH3 = "h3"

// loadTLS returns the QUIC TLS config offering MCP and HTTP/3. Without
// cert files a self-signed development certificate is generated.
func loadTLS(certFile, keyFile string) (cfg *tls.Config, selfSigned bool, err error) {
	var cert tls.Certificate
	if certFile != "" && keyFile != "" {
		cert, err = tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return nil, false, fmt.Errorf("load TLS cert: %w", err)
		}
	} else {
		cert, err = mcpquic.SelfSignedCert()
		if err != nil {
			return nil, false, fmt.Errorf("generate dev TLS: %w", err)
		}
		selfSigned = true
	}
	return mcpquic.ServerTLSConfig(cert, alpnH3), selfSigned, nil
}
