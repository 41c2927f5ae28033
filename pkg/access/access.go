// Package access holds the canonical role identifiers and the authorization
// predicates applied after authentication. Role names are used verbatim in
// token claims; any framework-specific prefix convention stays out of here.
package access

// Canonical role identifiers.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Principal is the identity resolved for a single request: the authenticated
// username plus the roles carried by the token's claims. It lives only for
// the duration of the request.
type Principal struct {
	Username string
	Roles    []string
}

func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RequireRole allows only principals holding the given role.
func RequireRole(p Principal, role string) bool {
	return p.HasRole(role)
}

// RequireSelfOrRole allows the owner of a resource, or any principal holding
// the given role.
func RequireSelfOrRole(p Principal, resourceOwner, role string) bool {
	if p.Username != "" && p.Username == resourceOwner {
		return true
	}
	return p.HasRole(role)
}
