package domain

// Actor is the identity making a request. The zero value is anonymous.
type Actor struct {
	ID       uint
	Username string
	Role     string
}

// Anonymous is the actor of unauthenticated requests.
var Anonymous = Actor{}

// IsAnonymous reports whether no identity is attached.
func (a Actor) IsAnonymous() bool {
	return a.ID == 0
}

// IsAdmin checks if actor has admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
