package core

import "net/http"

const (
	DefaultPort         = 10000
	DefaultPathPrefix   = "api"
	DefaultAPIKeyHeader = "x-api-key"
)

type APIConfig struct {
	Port           uint32   `json:"port"`
	PathPrefix     string   `json:"pathPrefix"`
	AllowedHeaders []string `json:"allowedHeaders"`
	AllowedOrigins []string `json:"allowedOrigins"`
	AllowedMethods []string `json:"allowedMethods"`
	APIKeyHeader   string   `json:"apiKeyHeader"`
	APIKeys        []string `json:"apiKeys"`
}

func (c *APIConfig) FillOut() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}

	if c.PathPrefix == "" {
		c.PathPrefix = DefaultPathPrefix
	}

	if c.AllowedHeaders == nil {
		c.AllowedHeaders = []string{"Content-Type"}
	}

	if c.AllowedOrigins == nil {
		c.AllowedOrigins = []string{"*"}
	}

	if c.AllowedMethods == nil {
		c.AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}

	if c.APIKeyHeader == "" {
		c.APIKeyHeader = DefaultAPIKeyHeader
	}
}
