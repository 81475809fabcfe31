package hpq

// env.go builds a Client from the process environment, the way the service's
// hosted notebooks configure it.  A .env file in the working directory is
// honored.

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables consulted by NewFromEnvironment.
const (
	// EnvEnvironment names the deployment environment; any value containing
	// "production" selects the production endpoint.
	EnvEnvironment = "MAYSTREET_ENVIRONMENT"
	// EnvJWTFile is the path of a file holding the Bearer JWT.
	EnvJWTFile = "MAYSTREET_JWT_FILE"
	// EnvSecret holds the data-lake shared secret (64 hex digits).
	EnvSecret = "MAYSTREET_DATA_LAKE_SECRET"
)

// Service endpoints.
const (
	ProductionURL = "wss://mdx.maystreet.com"
	StagingURL    = "wss://mdx.uat.maystreet.com"
)

// EnvironmentURL maps a deployment environment name to the service endpoint.
func EnvironmentURL(environment string) string {
	if strings.Contains(environment, "production") {
		return ProductionURL
	}
	return StagingURL
}

// NewFromEnvironment builds a Client configured from the environment:
// endpoint from MAYSTREET_ENVIRONMENT, credentials from MAYSTREET_JWT_FILE
// or MAYSTREET_DATA_LAKE_SECRET (the JWT wins if both are set).  Explicit
// options are applied afterwards and override the environment.
func NewFromEnvironment(opt ...Option) (*Client, error) {
	_ = godotenv.Load()
	opts := []Option{WithURL(EnvironmentURL(os.Getenv(EnvEnvironment)))}
	if path := os.Getenv(EnvJWTFile); path != "" {
		token, err := BearerTokenFromFile(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithBearerToken(token))
	} else if secret := os.Getenv(EnvSecret); secret != "" {
		opts = append(opts, WithSecret(secret))
	}
	return NewClient(append(opts, opt...)...)
}
