package users

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// User is the profile row behind commette.[User].
type User struct {
	ID        int64  `json:"id_user"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
}

// Credentials is the inbound payload for password login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the inbound payload for creating an account. A
// non-empty CompanyName marks the account as a seller.
type Registration struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	Username    string `json:"username"`
	CompanyName string `json:"companyName,omitempty"`
}

func (r Registration) IsSeller() bool {
	return r.CompanyName != ""
}

var (
	emailPattern    = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	digitRunPattern = regexp.MustCompile(`(012|123|234|345|456|567|678|789|890)`)
)

// Validate checks the registration payload before any external call is
// made on its behalf.
func (r Registration) Validate() error {
	if !emailPattern.MatchString(r.Email) {
		return errors.New("invalid email address")
	}
	if err := ValidatePasswordStrength(r.Password); err != nil {
		return err
	}
	if ContainsSQLMetacharacters(r.FirstName) || ContainsSQLMetacharacters(r.LastName) {
		return errors.New("invalid name")
	}
	if len(r.Username) < 3 {
		return errors.New("username must be at least 3 characters long")
	}
	if !usernamePattern.MatchString(r.Username) {
		return errors.New("username can only contain alphanumeric characters and underscores")
	}
	if r.IsSeller() && ContainsSQLMetacharacters(r.CompanyName) {
		return errors.New("invalid company name")
	}
	return nil
}

// ValidatePasswordStrength checks if a password meets the account rules:
// - At least 6 characters long
// - Contains an uppercase letter and a special character
// - No ascending digit runs (123, 234, ...)
func ValidatePasswordStrength(password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters long")
	}

	var (
		hasUpper   bool
		hasSpecial bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		}
		if !unicode.IsLetter(char) && !unicode.IsDigit(char) {
			hasSpecial = true
		}
	}

	if !hasUpper {
		return errors.New("password must contain at least one uppercase letter")
	}
	if !hasSpecial {
		return errors.New("password must contain at least one special character")
	}
	if digitRunPattern.MatchString(password) {
		return errors.New("password must not contain a sequence of numbers")
	}
	return nil
}

// ContainsSQLMetacharacters screens user-supplied identity fields for
// statement keywords and quoting characters. Values are still bound as
// parameters downstream; this only mirrors the user-facing rejections.
func ContainsSQLMetacharacters(value string) bool {
	lowered := strings.ToLower(value)
	for _, keyword := range []string{"exec", "select"} {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	for _, char := range []string{"'", ";", "--", "/*", "*/", "@", "`", `"`} {
		if strings.Contains(value, char) {
			return true
		}
	}
	return false
}
