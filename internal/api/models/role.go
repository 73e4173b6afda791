package models

// GrantRoleRequest is a request to grant a role to an identity.
type GrantRoleRequest struct {
	Role     string `json:"role"`
	Identity string `json:"identity"`
}

// RolesResponse lists the roles held by an identity.
type RolesResponse struct {
	Identity string   `json:"identity"`
	Roles    []string `json:"roles"`
}
