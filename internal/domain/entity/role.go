package entity

// Role is the caller role carried in the access token issued by the identity service
type Role string

// Role names
const (
	RoleAdmin   Role = "ADMIN"
	RoleDentist Role = "DENTIST"
	RolePatient Role = "PATIENT"
)

// Owns reports whether a caller with this role may act on resources scoped to owner.
// Admins act on any scope.
func (r Role) Owns(owner OwnerRole) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleDentist:
		return owner == OwnerDentist
	case RolePatient:
		return owner == OwnerPatient
	default:
		return false
	}
}
