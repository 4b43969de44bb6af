package domain

const (
	DefaultAPIBaseURL            = "https://appship.up.railway.app/api"
	DefaultLogLevel              = "info"
	DefaultRequestTimeoutSeconds = 0

	// CredentialPrefix is the prefix every live Appship secret key carries.
	CredentialPrefix = "as_live_"

	// EnvAPIKey overrides the stored credential for one process.
	EnvAPIKey = "APPSHIP_API_KEY"

	ConfigDirName       = ".appship"
	CredentialsFileName = "credentials.json"
	ConfigFileName      = "config.yaml"

	APIKeyHeader    = "x-api-key"
	RequestIDHeader = "x-request-id"

	DashboardURL = "https://appship.ai/dashboard"
)
