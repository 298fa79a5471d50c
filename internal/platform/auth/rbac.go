package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Roles understood by the system. RoleAdmin passes every role check.
const (
	RoleAdmin                = "admin"
	RoleHealthcareProvider   = "healthcare_provider"
	RoleInsuranceCoordinator = "insurance_coordinator"
	RolePatient              = "patient"
)

// ValidRoles enumerates the roles accepted at registration, in the order they
// are reported back in validation errors.
var ValidRoles = []string{RoleAdmin, RoleHealthcareProvider, RoleInsuranceCoordinator, RolePatient}

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// RequireRole returns middleware that checks if the user has one of the
// specified roles. Admins always pass.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := RoleFromContext(c.Request().Context())
			if role == RoleAdmin {
				return next(c)
			}
			for _, required := range roles {
				if role == required {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}
