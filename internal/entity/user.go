package entity

import "strings"

// User is a member of a tenant's staff with a role.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name" jsonschema:"minLength=2"`
	Email     string `json:"email" jsonschema:"format=email"`
	Role      string `json:"role" jsonschema:"enum=Admin,enum=Manager,enum=Editor,enum=Viewer"`
	Status    string `json:"status" jsonschema:"enum=Active,enum=Inactive"`
	LastLogin string `json:"lastLogin" jsonschema:"description=Last login time or Never"`
}

// Clone returns a copy of the User.
func (u *User) Clone() *User {
	c := *u
	return &c
}

// GetID returns the User's ID.
func (u *User) GetID() string {
	return u.ID
}

// SetID sets the User's ID.
func (u *User) SetID(id string) {
	u.ID = id
}

// Validate checks that the User is valid. An empty last login is set to
// NeverLoggedIn.
func (u *User) Validate() error {
	if err := minLen("name", &u.Name, 2); err != nil {
		return err
	}
	if err := email("email", &u.Email); err != nil {
		return err
	}
	if err := required("role", &u.Role, UserRoles); err != nil {
		return err
	}
	if err := oneOf("status", &u.Status, UserStatuses); err != nil {
		return err
	}
	if u.LastLogin = strings.TrimSpace(u.LastLogin); u.LastLogin == "" {
		u.LastLogin = NeverLoggedIn
	}
	return nil
}
