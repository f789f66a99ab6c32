package models

type Permission struct {
	Resource string `json:"resource"` // e.g., "appointments", "doctors"
	Action   string `json:"action"`   // e.g., "create", "read", "update", "delete"
}

const (
	ResourceAppointments = "appointments"
	ResourceDoctors      = "doctors"
	ResourceServices     = "services"
	ResourceSchedules    = "schedules"
	ResourceUsers        = "users"
	ResourceReports      = "reports"

	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

var grants = map[Role][]Permission{
	RoleAdmin: crud(ResourceAppointments, ResourceDoctors, ResourceServices,
		ResourceSchedules, ResourceUsers, ResourceReports),
	RoleReceptionist: {
		{ResourceAppointments, ActionCreate},
		{ResourceAppointments, ActionRead},
		{ResourceAppointments, ActionUpdate},
		{ResourceDoctors, ActionRead},
		{ResourceServices, ActionRead},
		{ResourceSchedules, ActionRead},
	},
}

func crud(resources ...string) []Permission {
	var out []Permission
	for _, r := range resources {
		for _, a := range []string{ActionCreate, ActionRead, ActionUpdate, ActionDelete} {
			out = append(out, Permission{r, a})
		}
	}
	return out
}

// Allows reports whether the role holds the permission.
func (r Role) Allows(resource, action string) bool {
	for _, p := range grants[r] {
		if p.Resource == resource && p.Action == action {
			return true
		}
	}
	return false
}
