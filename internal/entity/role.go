package entity

type Role string

const (
	RoleUser      Role = "user"
	RoleDeveloper Role = "developer"
	RoleAdmin     Role = "admin"
	RoleRoot      Role = "root"
)

var roleRank = map[Role]int{
	RoleUser:      0,
	RoleDeveloper: 1,
	RoleAdmin:     2,
	RoleRoot:      3,
}

// ResolveRole derives the effective role from persisted flags. There is no
// stored role column; this must be recomputed at every token issuance.
func ResolveRole(u *User) Role {
	switch {
	case u.IsRoot:
		return RoleRoot
	case u.IsAdmin:
		return RoleAdmin
	case u.DeveloperCodeID != nil:
		return RoleDeveloper
	default:
		return RoleUser
	}
}

// AtLeast reports whether r sits at or above min in the privilege order
// user < developer < admin < root. Unknown roles rank below user.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}
