package middleware

import (
	"net/http"

	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
	"github.com/vitaliscar/Proyecto-PRM/pkg/response"
)

// RequireRole allows the request through only when the authenticated role is
// one of the listed roles. Must run after Authenticate.
func RequireRole(roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "")
				return
			}
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, "You do not have permission to perform this action")
		})
	}
}

func RequireAdministrator() func(http.Handler) http.Handler {
	return RequireRole(entity.RoleAdministrator)
}

func RequireStaff() func(http.Handler) http.Handler {
	return RequireRole(entity.RoleAdministrator, entity.RolePsychologist, entity.RoleReceptionist)
}

func RequirePsychologistOrAdministrator() func(http.Handler) http.Handler {
	return RequireRole(entity.RoleAdministrator, entity.RolePsychologist)
}
