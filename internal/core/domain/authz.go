package domain

// Action classifies what a caller wants to do with a resource.
type Action int

const (
	ActionRead Action = iota
	ActionWrite
	ActionDelete
)

// IsAuthorized decides whether p may perform action on a resource owned by
// ownerID. Admins are authorized for every action. Reads require only an
// authenticated principal; writes and deletes require ownership.
func IsAuthorized(p *User, ownerID string, action Action) bool {
	if p == nil {
		return false
	}
	if p.Role == RoleAdmin {
		return true
	}
	if action == ActionRead {
		return true
	}
	return p.ID == ownerID
}
