package validation

import "strings"

// Registration validates a sign-up request. At least one of phone and email
// is required; the phone doubles as the wallet account number.
func (v *Validator) Registration(phone, email, password, fullName string) {
	phone, email = strings.TrimSpace(phone), strings.TrimSpace(email)
	v.Check(phone != "" || email != "", "identifier", "phone or email is required")
	if phone != "" {
		v.Phone("phone", phone)
	}
	if email != "" {
		v.Email("email", email)
	}
	v.Password("password", password)
	v.MaxLength("full_name", fullName, MaxFullNameLength)
}

// Credentials validates a login request.
func (v *Validator) Credentials(phone, email, password string) {
	v.Check(strings.TrimSpace(phone) != "" || strings.TrimSpace(email) != "", "identifier", "phone or email is required")
	v.Required("password", password)
}
