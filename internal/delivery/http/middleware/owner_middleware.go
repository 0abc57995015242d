package middleware

import (
	"net/http"

	"dentalcare-scheduling/internal/domain/entity"
	"dentalcare-scheduling/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// ownerParams maps the request parameters that scope a route to their owner kind
var ownerParams = []struct {
	name  string
	owner entity.OwnerRole
}{
	{"dentistId", entity.OwnerDentist},
	{"patientId", entity.OwnerPatient},
}

// RequireOwner rejects callers acting on another dentist's or patient's data.
// Routes with an owner variable are scoped by it alone, so query parameters
// there are plain filters. Other routes take the owner from the query string.
// Admins pass unconditionally. Requests without a scope, or with one that
// does not parse, are left for the handler to reject.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "User information not found")
			return
		}
		role, _ := GetRoleFromContext(r.Context())
		if role == entity.RoleAdmin {
			next.ServeHTTP(w, r)
			return
		}

		source := ownerSource(r)
		for _, param := range ownerParams {
			raw := source(param.name)
			if raw == "" {
				continue
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				continue
			}
			if !role.Owns(param.owner) || id != userID {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// ownerSource picks where the owner scope of a request is read from
func ownerSource(r *http.Request) func(string) string {
	vars := mux.Vars(r)
	for _, param := range ownerParams {
		if _, ok := vars[param.name]; ok {
			return func(name string) string { return vars[name] }
		}
	}
	return r.URL.Query().Get
}
