package domain

import "time"

// Role classifies what a user can do in the application. The token core only
// carries the role as a claim; permission policy lives with the route layer.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleClient  Role = "client"
)

// User is the account entity as seen by the token core. The core reads
// IsActive and Role at issuance and verification time and never mutates users.
type User struct {
	ID        string
	Email     string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
}
