package googleai

import (
	"errors"
	"net/http"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
)

// IsRateLimited returns true if the error indicates rate limiting or quota exhaustion.
func IsRateLimited(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests, codes.ResourceExhausted)
}

// IsUnauthorized returns true if the error indicates an invalid API key.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized, codes.Unauthenticated) ||
		hasStatus(err, http.StatusForbidden, codes.PermissionDenied)
}

// hasStatus checks REST errors by HTTP code and gRPC errors by status code.
func hasStatus(err error, httpCode int, grpcCode codes.Code) bool {
	if err == nil {
		return false
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == httpCode
	}

	var aerr *apierror.APIError
	if errors.As(err, &aerr) {
		if aerr.HTTPCode() == httpCode {
			return true
		}
		if st := aerr.GRPCStatus(); st != nil {
			return st.Code() == grpcCode
		}
	}
	return false
}
