package service

import (
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	server "github.com/charadev96/famlink/internal/server/domain"
)

var validate = validator.New()

// normalizeEmail returns the canonical form of email or a validation error.
func normalizeEmail(email string) (string, error) {
	email = server.NormalizeEmail(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return "", fmt.Errorf("%w: invalid email address %q", server.ErrValidation, email)
	}
	return email, nil
}

const (
	codeAlphabet    = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength      = 8
	maxCodeAttempts = 5
)

// generateCode draws a code from rnd. The alphabet has 32 symbols, so
// reducing a byte modulo its size is unbiased.
func generateCode(rnd io.Reader) (string, error) {
	buf := make([]byte, codeLength)
	if _, err := io.ReadFull(rnd, buf); err != nil {
		return "", fmt.Errorf("failed to generate invitation code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

func nopIfNil(logger *zerolog.Logger) *zerolog.Logger {
	if logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return logger
}
