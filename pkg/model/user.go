package model

const RoleAdmin = "admin"

// User is an authenticated operator of the calendar. The system assumes a
// single admin bootstrapped at startup; the role field exists so the auth
// middleware can stay a plain role check.
type User struct {
	ID           string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Email        string `json:"email" bson:"email" validate:"required,email"`
	PasswordHash string `json:"-" bson:"password_hash" validate:"required"`
	Role         string `json:"role" bson:"role" validate:"required,oneof=admin"`
}
