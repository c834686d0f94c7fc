package validation

const (
	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit

	// String lengths
	MaxFullNameLength    = 100
	MaxDescriptionLength = 500
)
