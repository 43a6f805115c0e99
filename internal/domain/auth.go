package domain

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID    string
	Email string
	Role  Role
}
