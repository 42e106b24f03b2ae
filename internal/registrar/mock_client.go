package registrar

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	registrationDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/registration/domain"
)

// mockClient is the synthetic registration path used when registrar
// credentials are absent. It keeps non-production environments
// function-complete: every purchase succeeds with a "mock_"-prefixed external
// id so the result is never mistaken for a real registration.
type mockClient struct {
	logger *slog.Logger
}

// NewMockClient creates the synthetic registrar client.
func NewMockClient(logger *slog.Logger) Client {
	return &mockClient{logger: logger}
}

// Purchase fabricates a successful registration.
func (c *mockClient) Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error) {
	externalID := registrationDomain.MockExternalIDPrefix + uuid.Must(uuid.NewV7()).String()

	c.logger.Warn("registrar credentials absent, using mock registration",
		slog.String("domain", req.SLD+"."+req.TLD),
		slog.String("external_order_id", externalID),
	)

	return &PurchaseResult{ExternalOrderID: externalID}, nil
}

// ConfigureNameservers is a no-op in mock mode.
func (c *mockClient) ConfigureNameservers(ctx context.Context, sld, tld string, nameservers []string) error {
	c.logger.Debug("mock nameserver configuration",
		slog.String("domain", sld+"."+tld),
		slog.Int("nameserver_count", len(nameservers)),
	)
	return nil
}
