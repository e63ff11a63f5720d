package sinks

import (
	"rpc-sentinel/internal/shared/svcerrors"
)

const (
	codeOpenFailed  = "SNK_1000"
	codeWriteFailed = "SNK_1001"
)

// errOpenFailed returns an error when a bucket file cannot be created or
// opened for append.
func errOpenFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeOpenFailed, cause)
}

// errWriteFailed returns an error when appending a record fails.
func errWriteFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeWriteFailed, cause)
}
