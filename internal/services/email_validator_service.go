package services

import "context"

// EmailValidator optionally vets an address beyond its shape (e.g. a
// reputation lookup) before an account is created.
type EmailValidator interface {
	Validate(ctx context.Context, email string) error
}

// LocalValidator accepts any address that already passed field validation.
type LocalValidator struct{}

func NewLocalValidator() *LocalValidator {
	return &LocalValidator{}
}

func (v *LocalValidator) Validate(ctx context.Context, email string) error {
	return nil
}
