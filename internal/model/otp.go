package model

import "time"

// OTP purposes. Only codes generated for a purpose can verify that purpose.
const (
	PurposeEmailVerification = "email_verification"
	PurposePasswordReset     = "password_reset"
	PurposeLogin             = "login"
)

// OTPTTL is how long a code stays valid after generation.
const OTPTTL = 10 * time.Minute

// OTPMaxAttempts caps verification tries on a single code record.
const OTPMaxAttempts = 3

type OTP struct {
	OTPID     int64     `json:"otpid"`
	Email     string    `json:"email"`
	Code      string    `json:"-"` // never returned over the API
	Purpose   string    `json:"purpose"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
	IsUsed    bool      `json:"is_used"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidPurpose(p string) bool {
	switch p {
	case PurposeEmailVerification, PurposePasswordReset, PurposeLogin:
		return true
	}
	return false
}
