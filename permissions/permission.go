package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"

	"skybook/shared/constant"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

var knownRoles = []string{constant.RoleAdmin, constant.RoleManager, constant.RoleUser}

// Permission lists the roles allowed on one chi route pattern. Skip marks a public route.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// PermissionData is the route table consulted by the RBAC middleware. A top-level Skip
// disables role checks entirely.
type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`
}

// FindPermissions returns the zero Permission for a route that is not listed.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	for _, endpoint := range r.Endpoints {
		if endpoint.Path == path && endpoint.Method == method {
			return endpoint
		}
	}

	return Permission{}
}

// Validate rejects duplicate routes and roles the service does not know.
func (r *PermissionData) Validate() error {
	seen := make(map[string]struct{}, len(r.Endpoints))

	for _, endpoint := range r.Endpoints {
		key := endpoint.Method + " " + endpoint.Path
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate permission entry %s", key)
		}

		seen[key] = struct{}{}

		for _, role := range endpoint.Permissions {
			if !slices.Contains(knownRoles, role) {
				return fmt.Errorf("unknown role %q on %s", role, key)
			}
		}
	}

	return nil
}

// Get decodes the embedded table. It returns nil when the table is unusable, which makes the
// RBAC middleware deny every protected route.
func Get() *PermissionData {
	var data PermissionData

	if err := json.Unmarshal(permissionsData, &data); err != nil {
		log.Error().Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	if err := data.Validate(); err != nil {
		log.Error().Err(err).Msg("Embedded permissions are invalid")

		return nil
	}

	log.Info().Int("endpoints", len(data.Endpoints)).Msg("Loaded embedded permissions")

	return &data
}
