package auth

// Role is one of the three access tiers. The set is closed and totally
// ordered: guest < user < admin.
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var roleLevels = map[Role]int{
	RoleGuest: 0,
	RoleUser:  1,
	RoleAdmin: 2,
}

// Permission is an access kind against a resource.
type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
)

type resourceAccess struct {
	read  bool
	write bool
}

var (
	readOnly  = resourceAccess{read: true}
	readWrite = resourceAccess{read: true, write: true}
)

// permissionTable is fixed at compile time; the role set is closed so
// there is nothing to configure at runtime.
var permissionTable = map[Role]map[string]resourceAccess{
	RoleAdmin: {
		"nodes":             readWrite,
		"triggers":          readWrite,
		"actions":           readWrite,
		"responses":         readWrite,
		"resourceTemplates": readWrite,
	},
	RoleUser: {
		"nodes":             readWrite,
		"triggers":          readWrite,
		"actions":           readWrite,
		"responses":         readWrite,
		"resourceTemplates": readOnly,
	},
	RoleGuest: {
		"nodes":             readOnly,
		"triggers":          readOnly,
		"actions":           readOnly,
		"responses":         readOnly,
		"resourceTemplates": readOnly,
	},
}

// HasRole reports whether role meets or exceeds required in the role
// hierarchy. Unknown roles never qualify.
func HasRole(role, required Role) bool {
	level, ok := roleLevels[role]
	if !ok {
		return false
	}
	requiredLevel, ok := roleLevels[required]
	if !ok {
		return false
	}
	return level >= requiredLevel
}

// HasPermission consults the permission table. Unknown roles and
// unrecognized resource names yield false.
func HasPermission(role Role, resource string, perm Permission) bool {
	resources, ok := permissionTable[role]
	if !ok {
		return false
	}
	access, ok := resources[resource]
	if !ok {
		return false
	}
	switch perm {
	case PermissionRead:
		return access.read
	case PermissionWrite:
		return access.write
	default:
		return false
	}
}
