package provider

// Role selects one of the four registration tables together with the
// provider abstraction it requires and the labels used when reporting errors.
type Role struct {
	idx    int
	Name   string
	Kind   Kind
	Module bool
	Action string
	Label  string
}

var (
	ViewDestination = Role{
		idx:    0,
		Name:   "view",
		Kind:   KindView,
		Action: "toView",
		Label:  "view protocol",
	}
	ViewModule = Role{
		idx:    1,
		Name:   "view_module",
		Kind:   KindView,
		Module: true,
		Action: "toViewModule",
		Label:  "view module config protocol",
	}
	ServiceDestination = Role{
		idx:    2,
		Name:   "service",
		Kind:   KindService,
		Action: "toService",
		Label:  "service protocol",
	}
	ServiceModule = Role{
		idx:    3,
		Name:   "service_module",
		Kind:   KindService,
		Module: true,
		Action: "toServiceModule",
		Label:  "service module config protocol",
	}
)

// RoleCount is the number of registrable roles.
const RoleCount = 4

var roles = [RoleCount]Role{ViewDestination, ViewModule, ServiceDestination, ServiceModule}

// Index returns the table index of the role.
func (r Role) Index() int { return r.idx }

func (r Role) String() string { return r.Name }

// Roles returns all roles in table order.
func Roles() []Role {
	out := make([]Role, RoleCount)
	copy(out, roles[:])
	return out
}

// RoleNamed returns the role with the given manifest name.
func RoleNamed(name string) (Role, bool) {
	for _, r := range roles {
		if r.Name == name {
			return r, true
		}
	}
	return Role{}, false
}
