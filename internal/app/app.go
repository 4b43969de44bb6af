package app

import (
	"appship/internal/infra/config"
)

// Config carries resolved settings into the application graph.
type Config struct {
	Settings config.Settings
	// CredentialsPath overrides ~/.appship/credentials.json.
	CredentialsPath string
	Version         string
}
