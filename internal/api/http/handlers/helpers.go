package handlers

import (
	"errors"

	apperrors "github.com/spec-kit/customer-service/pkg/util"
)

// domainStatus extracts the HTTP status of a DomainError, or 0 when err is
// not one.
func domainStatus(err error) int {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.HTTPStatus
	}
	return 0
}
