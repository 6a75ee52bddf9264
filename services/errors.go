package services

import (
	"errors"
	"pc-store/i18n"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a failure the caller caused. Key is an i18n message key; anything
// that is not an *Error is treated as internal.
type Error struct {
	Kind ErrorKind
	Key  string
}

func (e *Error) Error() string {
	return e.Key
}

// Is matches on kind and key so sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Key == e.Key
}

func newError(kind ErrorKind, key string) *Error {
	return &Error{Kind: kind, Key: key}
}

var (
	ErrInvalidCredentials = newError(KindUnauthorized, i18n.KeyInvalidCredentials)
	ErrEmailTaken         = newError(KindConflict, i18n.KeyEmailTaken)
	ErrGoogleDisabled     = newError(KindValidation, i18n.KeyGoogleDisabled)
	ErrGoogleInvalid      = newError(KindUnauthorized, i18n.KeyGoogleInvalid)
	ErrUserNotFound       = newError(KindNotFound, i18n.KeyUserNotFound)

	ErrProductNotFound  = newError(KindNotFound, i18n.KeyProductNotFound)
	ErrVariantNotFound  = newError(KindValidation, i18n.KeyVariantNotFound)
	ErrCategoryNotFound = newError(KindNotFound, i18n.KeyCategoryNotFound)
	ErrProductInactive  = newError(KindValidation, i18n.KeyProductInactive)
	ErrReviewExists     = newError(KindConflict, i18n.KeyReviewExists)

	ErrInsufficientStock = newError(KindValidation, i18n.KeyInsufficientStock)
	ErrInvalidQuantity   = newError(KindValidation, i18n.KeyInvalidQuantity)
	ErrCartItemNotFound  = newError(KindNotFound, i18n.KeyCartItemNotFound)
	ErrCartEmpty         = newError(KindValidation, i18n.KeyCartEmpty)

	ErrEmailRequired     = newError(KindValidation, i18n.KeyEmailRequired)
	ErrOrderNotFound     = newError(KindNotFound, i18n.KeyOrderNotFound)
	ErrOrderFinalStatus  = newError(KindValidation, i18n.KeyOrderFinalStatus)
	ErrOrderNumberTaken  = newError(KindConflict, i18n.KeyOrderNumberTaken)
	ErrStatusChanged     = newError(KindConflict, i18n.KeyStatusChanged)
	ErrInvalidStatus     = newError(KindValidation, i18n.KeyInvalidStatus)
	ErrProductConflict   = newError(KindConflict, i18n.KeyProductConflict)
	ErrInvalidReference  = newError(KindValidation, i18n.KeyValidationFailed)
	ErrEmptyPatch        = newError(KindValidation, i18n.KeyEmptyPatch)
	ErrInvalidImage      = newError(KindValidation, i18n.KeyInvalidImage)
	ErrForbidden         = newError(KindForbidden, i18n.KeyForbidden)
	ErrUnauthorized      = newError(KindUnauthorized, i18n.KeyUnauthorized)
	ErrValidation        = newError(KindValidation, i18n.KeyValidationFailed)
)

// AsError extracts a client-facing error from err, if there is one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
