package handler

const (
	errInternalServer  = "Internal server error"
	errItemNotFound    = "Item not found"
	errUserNotFound    = "Email not found"
	errEmailTaken      = "Email already registered"
	errEmailNotAllowed = "Only college emails allowed"
	errNotVerified     = "Verify your email first"
	errInvalidLogin    = "Invalid email or password"
	errTokenInvalid    = "Token is invalid or expired"
	errTokenExpired    = "Token expired"
)
