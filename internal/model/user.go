package model

import (
	"regexp"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	emailRegex = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,})+$`)
	phoneRegex = regexp.MustCompile(`^[0-9]{10,15}$`)
)

type User struct {
	UserID       int64      `json:"userid"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // never JSON-encode
	Phone        string     `json:"phone"`
	Role         string     `json:"role"`
	IsVerified   bool       `json:"is_verified"`

	LoginAttempts int        `json:"-"`
	LockUntil     *time.Time `json:"-"`
	LastLogin     *time.Time `json:"last_login,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// IsLocked reports whether the lockout window is still open.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && now.Before(*u.LockUntil)
}

// PublicUser is the projection returned to clients after login or on /me.
type PublicUser struct {
	UserID    int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Role      string     `json:"role"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		LastLogin: u.LastLogin,
	}
}

// ValidateRegistration checks the writable identity fields plus the plaintext
// password. Stores must call this (or Validate) before persisting.
func ValidateRegistration(name, email, password, phone string) error {
	var v ValidationError
	if name == "" {
		v.add("name", "Name is required")
	} else if len(name) < 2 || len(name) > 50 {
		v.add("name", "Name must be between 2 and 50 characters")
	}
	if email == "" {
		v.add("email", "Email is required")
	} else if !emailRegex.MatchString(email) {
		v.add("email", "Please enter a valid email")
	}
	if password == "" {
		v.add("password", "Password is required")
	} else if len(password) < 6 {
		v.add("password", "Password must be at least 6 characters")
	}
	if phone == "" {
		v.add("phone", "Phone number is required")
	} else if !phoneRegex.MatchString(phone) {
		v.add("phone", "Please enter a valid phone number")
	}
	return v.orNil()
}

// Validate re-checks the persisted field constraints before any store write.
func (u *User) Validate() error {
	var v ValidationError
	if u.Name == "" {
		v.add("name", "Name is required")
	} else if len(u.Name) < 2 || len(u.Name) > 50 {
		v.add("name", "Name must be between 2 and 50 characters")
	}
	if u.Email == "" {
		v.add("email", "Email is required")
	} else if !emailRegex.MatchString(u.Email) {
		v.add("email", "Please enter a valid email")
	}
	if u.Phone == "" {
		v.add("phone", "Phone number is required")
	} else if !phoneRegex.MatchString(u.Phone) {
		v.add("phone", "Please enter a valid phone number")
	}
	if u.Role != RoleUser && u.Role != RoleAdmin {
		v.add("role", "Role must be user or admin")
	}
	return v.orNil()
}

// ValidatePassword checks only the plaintext password constraint.
func ValidatePassword(password string) error {
	var v ValidationError
	if password == "" {
		v.add("password", "Password is required")
	} else if len(password) < 6 {
		v.add("password", "Password must be at least 6 characters")
	}
	return v.orNil()
}
