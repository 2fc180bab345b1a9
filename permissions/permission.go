// Package permissions holds the route access table embedded from permissions.json.
package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"

	"smashroom/shared/constant"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

var knownRoles = []string{constant.RoleSuperAdmin, constant.RoleAdmin, constant.RoleStaff}

// Permission is one route entry. Roles lists who may call it; an empty list admits any
// signed-in user. Skip marks a public route.
type Permission struct {
	Roles  []string `json:"permissions"`
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Skip   bool     `json:"skip"`
}

// Allows reports whether role may call the route.
func (p Permission) Allows(role string) bool {
	return p.Skip || len(p.Roles) == 0 || slices.Contains(p.Roles, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

func key(method, path string) string {
	return method + " " + path
}

// FindPermissions looks up a chi route pattern. Unknown routes get the zero Permission, which
// requires a signed-in user.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	if r.index == nil {
		r.build()
	}

	return r.index[key(method, path)]
}

func (r *PermissionData) build() {
	r.index = make(map[string]Permission, len(r.Endpoints))

	for _, endpoint := range r.Endpoints {
		r.index[key(endpoint.Method, endpoint.Path)] = endpoint
	}
}

// validate rejects duplicate routes and roles the service does not issue.
func (r *PermissionData) validate() error {
	seen := make(map[string]bool, len(r.Endpoints))

	for _, endpoint := range r.Endpoints {
		k := key(endpoint.Method, endpoint.Path)
		if seen[k] {
			return fmt.Errorf("duplicate permission entry %s", k)
		}

		seen[k] = true

		for _, role := range endpoint.Roles {
			if !slices.Contains(knownRoles, role) {
				return fmt.Errorf("unknown role %q on %s", role, k)
			}
		}
	}

	return nil
}

// Parse decodes and checks a permission table.
func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("decode permissions: %w", err)
	}

	if err := permissions.validate(); err != nil {
		return nil, err
	}

	permissions.build()

	return &permissions, nil
}

// Get loads the embedded table. A broken table yields nil, which makes RBAC deny everything.
func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions
}
