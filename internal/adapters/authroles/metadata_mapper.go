package authroles

import (
	"strings"

	domainauth "github.com/target/shopfront-ui-api/internal/domain/auth"
)

// MetadataRoleMapper maps the raw role string from identity-provider
// metadata to an application role. Matching is case-insensitive after
// trimming; anything unrecognized maps to RoleNone so that malformed or
// missing metadata denies access instead of granting it.
type MetadataRoleMapper struct{}

func (MetadataRoleMapper) Map(raw string) domainauth.Role {
	return domainauth.ParseRole(strings.ToLower(strings.TrimSpace(raw)))
}
