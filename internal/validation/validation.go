package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	digitRegex     = regexp.MustCompile(`\d`)
)

// LoginForm is the payload of a credentials login attempt.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterForm is the payload of a registration attempt.
type RegisterForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// FormErrors maps field name to message. A field without a key is valid;
// validators never store empty-string messages.
type FormErrors map[string]string

// ValidateEmail returns an error message, or "" when the email is valid.
func ValidateEmail(email string) string {
	if email == "" {
		return "Email is required"
	}
	if !emailRegex.MatchString(email) {
		return "Please enter a valid email address"
	}
	return ""
}

// ValidatePassword checks the four password rules in order; the first
// failing rule wins.
func ValidatePassword(password string) string {
	if password == "" {
		return "Password is required"
	}
	if utf8.RuneCountInString(password) < 6 {
		return "Password must be at least 6 characters long"
	}
	if !lowercaseRegex.MatchString(password) {
		return "Password must contain at least one lowercase letter"
	}
	if !uppercaseRegex.MatchString(password) {
		return "Password must contain at least one uppercase letter"
	}
	if !digitRegex.MatchString(password) {
		return "Password must contain at least one number"
	}
	return ""
}

// ValidateName requires a trimmed length between 2 and 50 characters.
func ValidateName(name string) string {
	if name == "" {
		return "Name is required"
	}
	// Character counts, not byte counts; multibyte names are common.
	length := utf8.RuneCountInString(strings.TrimSpace(name))
	if length < 2 {
		return "Name must be at least 2 characters long"
	}
	if length > 50 {
		return "Name must be less than 50 characters"
	}
	return ""
}

// ValidateConfirmPassword checks that the confirmation matches the password.
func ValidateConfirmPassword(password, confirmPassword string) string {
	if confirmPassword == "" {
		return "Please confirm your password"
	}
	if password != confirmPassword {
		return "Passwords do not match"
	}
	return ""
}

// ValidateLoginForm aggregates the field validators for a login attempt.
func ValidateLoginForm(form LoginForm) FormErrors {
	errors := FormErrors{}

	if msg := ValidateEmail(form.Email); msg != "" {
		errors["email"] = msg
	}
	if msg := ValidatePassword(form.Password); msg != "" {
		errors["password"] = msg
	}

	return errors
}

// ValidateRegisterForm aggregates the field validators for a registration
// attempt.
func ValidateRegisterForm(form RegisterForm) FormErrors {
	errors := FormErrors{}

	if msg := ValidateName(form.Name); msg != "" {
		errors["name"] = msg
	}
	if msg := ValidateEmail(form.Email); msg != "" {
		errors["email"] = msg
	}
	if msg := ValidatePassword(form.Password); msg != "" {
		errors["password"] = msg
	}
	if msg := ValidateConfirmPassword(form.Password, form.ConfirmPassword); msg != "" {
		errors["confirmPassword"] = msg
	}

	return errors
}
