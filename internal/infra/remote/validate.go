package remote

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"appship/internal/domain"
)

type staticCredential string

func (s staticCredential) Resolve() (domain.Credential, bool) {
	return domain.Credential{SecretKey: string(s)}, s != ""
}

// ValidateKey probes the account endpoint with a candidate key. Every
// failure, including transport errors, reports an invalid key.
func (c *Client) ValidateKey(ctx context.Context, key string) domain.KeyValidation {
	probe := *c
	probe.credentials = staticCredential(key)

	var out struct {
		Email string `json:"email"`
	}
	err := probe.call(ctx, request{
		op:       "validate_key",
		method:   http.MethodGet,
		endpoint: endpointUserInfo,
	}, &out)
	if err != nil {
		c.logger.Debug("key validation failed", zap.Error(err))
		return domain.KeyValidation{Valid: false}
	}
	return domain.KeyValidation{Valid: true, Email: out.Email}
}
