package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"medrag-be/internal/dto"
	"medrag-be/internal/pkg/mailer"
	"medrag-be/internal/repository/memory"

	"github.com/golang-jwt/jwt/v5"
)

const verificationCodeTTL = 10 * time.Minute

var ErrInvalidCode = errors.New("invalid or expired verification code")

type IAuthService interface {
	SendCode(ctx context.Context, req *dto.SendCodeRequest) error
	Verify(ctx context.Context, req *dto.VerifyCodeRequest) (*dto.VerifyCodeResponse, error)
}

type authService struct {
	ledger       *memory.VerificationRepository
	emailService mailer.IEmailService
	jwtSecret    string
}

func NewAuthService(ledger *memory.VerificationRepository, emailService mailer.IEmailService, jwtSecret string) IAuthService {
	return &authService{
		ledger:       ledger,
		emailService: emailService,
		jwtSecret:    jwtSecret,
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n), nil
}

// SendCode issues a fresh code for the email. A still-pending code for the
// same email is replaced, not kept alongside.
func (s *authService) SendCode(ctx context.Context, req *dto.SendCodeRequest) error {
	code, err := generateCode()
	if err != nil {
		return err
	}

	s.ledger.Put(req.Email, code, verificationCodeTTL)

	if err := s.emailService.SendVerificationCode(req.Email, code); err != nil {
		return err
	}
	return nil
}

// Verify consumes the pending code and, on success, mints a signed token.
// Expired, mismatched, and already-used codes all fail the same way.
func (s *authService) Verify(ctx context.Context, req *dto.VerifyCodeRequest) (*dto.VerifyCodeResponse, error) {
	if !s.ledger.Consume(req.Email, req.Code) {
		return nil, ErrInvalidCode
	}

	name := displayName(req.Email)

	claims := jwt.MapClaims{
		"sub":  req.Email,
		"name": name,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &dto.VerifyCodeResponse{
		Token: signed,
		Email: req.Email,
		Name:  name,
	}, nil
}

// displayName derives a human-readable name from the email's local part.
func displayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)

	words := strings.Fields(local)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
