package classifiers

import (
	"rpc-sentinel/internal/shared/svcerrors"
)

const (
	codeAlertEncode = "CLS_1000"
)

// errAlertEncodeFailed returns an error when an alert cannot be serialized.
func errAlertEncodeFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeAlertEncode, cause)
}
