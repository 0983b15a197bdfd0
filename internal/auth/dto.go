package auth

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// Validate checks required fields and returns a ValidationError on failure.
func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

// LoginResult is the structured outcome of a login attempt. Failures are
// returned for display, not raised as errors.
type LoginResult struct {
	Status  bool     `json:"status"`
	Message string   `json:"message"`
	Data    *Session `json:"data,omitempty"`
}

// credentialDocument is the fixed upstream document a login is compared
// against, field for field.
type credentialDocument struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
