package libs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"pc-store/models"
	"time"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

var ErrGoogleToken = errors.New("google id token rejected")

// GoogleVerifier checks ID tokens locally against Google's signing keys.
// The keys are fetched once and cached for as long as Google allows.
type GoogleVerifier struct {
	clientID  string
	validator *idtoken.Validator
}

// NewGoogleVerifier fetches keys over an unauthenticated client; opts may
// replace it.
func NewGoogleVerifier(ctx context.Context, clientID string, opts ...option.ClientOption) (*GoogleVerifier, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(&http.Client{Timeout: 5 * time.Second})}, opts...)
	validator, err := idtoken.NewValidator(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google id token validator: %w", err)
	}
	return &GoogleVerifier{clientID: clientID, validator: validator}, nil
}

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*models.GoogleIdentity, error) {
	if idToken == "" {
		return nil, fmt.Errorf("%w: empty token", ErrGoogleToken)
	}

	payload, err := v.validator.Validate(ctx, idToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleToken, err)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)

	switch {
	case payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com":
		return nil, fmt.Errorf("%w: issuer %q", ErrGoogleToken, payload.Issuer)
	case !emailVerified(payload.Claims["email_verified"]):
		return nil, fmt.Errorf("%w: email not verified", ErrGoogleToken)
	case payload.Subject == "" || email == "":
		return nil, fmt.Errorf("%w: missing subject or email", ErrGoogleToken)
	}

	return &models.GoogleIdentity{Subject: payload.Subject, Email: email, Name: name}, nil
}

// Google sends email_verified as a JSON bool, older tokens as a string.
func emailVerified(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	}
	return false
}
