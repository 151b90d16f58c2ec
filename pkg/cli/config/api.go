package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/labops/labaudit/pkg/service/auditapi"
)

// AuditAPI holds CLI flags for the audit API client configuration
type AuditAPI struct {
	baseURL string
	token   string
}

// Flags returns CLI flags for audit API client configuration
func (a *AuditAPI) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-url",
			Usage:       "Base URL of the audit API server",
			Sources:     cli.EnvVars("LABAUDIT_API_URL"),
			Destination: &a.baseURL,
		},
		&cli.StringFlag{
			Name:        "api-token",
			Usage:       "Bearer token for the audit API",
			Sources:     cli.EnvVars("LABAUDIT_API_TOKEN"),
			Destination: &a.token,
		},
	}
}

// BaseURL returns the configured API base URL
func (a *AuditAPI) BaseURL() string {
	return a.baseURL
}

// Configure builds the audit API client from the flags.
func (a *AuditAPI) Configure() (*auditapi.Client, error) {
	if a.baseURL == "" {
		return nil, goerr.New("api-url is required")
	}

	client, err := auditapi.New(a.baseURL, a.token)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize audit API client")
	}
	return client, nil
}
