package domain

import "strings"

// Credential is the secret identifying the user to the remote service.
type Credential struct {
	SecretKey string `json:"secretKey"`
	Email     string `json:"email,omitempty"`
}

func (c Credential) IsZero() bool {
	return strings.TrimSpace(c.SecretKey) == ""
}

// CredentialSource reports where the active credential comes from.
type CredentialSource string

const (
	CredentialSourceNone        CredentialSource = "none"
	CredentialSourceEnvironment CredentialSource = "environment"
	CredentialSourceFile        CredentialSource = "file"
)

func (s CredentialSource) Label() string {
	switch s {
	case CredentialSourceEnvironment:
		return "environment variable"
	case CredentialSourceFile:
		return "credentials file"
	default:
		return "none"
	}
}

// CheckCredentialFormat applies the lightweight prefix check done before any network call.
func CheckCredentialFormat(secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return E(CodeInvalidCredentialFormat, "", "API key is required.", ErrInvalidCredentialFormat)
	}
	if !strings.HasPrefix(secret, CredentialPrefix) {
		return E(CodeInvalidCredentialFormat, "", "Invalid API key format. Key should start with '"+CredentialPrefix+"'", ErrInvalidCredentialFormat)
	}
	return nil
}

// KeyValidation is the result of probing a candidate key against the account endpoint.
type KeyValidation struct {
	Valid bool
	Email string
}
