package handler

// --- Request types ---

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,strongpw"`
	Role     string `json:"role"     validate:"required,oneof=ADMIN USER"`
}

// updateUserRequest is a partial update: absent fields are left untouched.
// confirmPassword exists only for cross-field validation; it is dropped
// before the service is called.
type updateUserRequest struct {
	Name            *string `json:"name"            validate:"omitempty,min=1"`
	Email           *string `json:"email"           validate:"omitempty,email"`
	Password        *string `json:"password"        validate:"omitempty,strongpw"`
	Role            *string `json:"role"            validate:"omitempty,oneof=ADMIN USER"`
	ConfirmPassword *string `json:"confirmPassword"`
}
