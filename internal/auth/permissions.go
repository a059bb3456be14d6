package auth

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type Resource string

const (
	ResourceProduct Resource = "product"
	ResourceOrder   Resource = "order"
	ResourceMember  Resource = "member"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type statement map[Resource][]Action

var roleStatements = map[Role]statement{
	RoleOwner: {
		ResourceProduct: {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
		ResourceOrder:   {ActionRead, ActionUpdate, ActionDelete},
		ResourceMember:  {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
	},
	RoleAdmin: {
		ResourceProduct: {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
		ResourceOrder:   {ActionRead, ActionUpdate},
		ResourceMember:  {ActionRead},
	},
	RoleMember: {
		ResourceProduct: {ActionRead},
		ResourceOrder:   {ActionRead},
		ResourceMember:  {ActionRead},
	},
}

func (r Role) Valid() bool {
	_, ok := roleStatements[r]
	return ok
}

// HasPermission reports whether role may perform action on resource.
func HasPermission(role Role, resource Resource, action Action) bool {
	for _, a := range roleStatements[role][resource] {
		if a == action {
			return true
		}
	}
	return false
}
