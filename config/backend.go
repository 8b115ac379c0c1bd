package config

import "time"

// BackendConfig contains configuration for the GraphQL business data backend.
// The backend stores customer records, orders and product data; this service
// only reads from it after authorization succeeds.
type BackendConfig struct {
	// GraphQLURL is the endpoint of the business data backend.
	GraphQLURL string `env:"GRAPHQL_URL" envDefault:"http://localhost:9000/graphql"`

	// Token is an optional bearer token for backend requests.
	Token string `env:"TOKEN" envDefault:""`

	// Timeout bounds individual backend requests.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	if b.Timeout <= 0 {
		b.Timeout = 10 * time.Second
	}
}
