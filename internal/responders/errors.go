package responders

import (
	"rpc-sentinel/internal/shared/svcerrors"
)

const (
	codeAuditAppend = "RSP_1000"
	codeBlockFailed = "RSP_2000"
)

// errAuditAppendFailed returns an error when the audit trail cannot be
// extended. The response still ran; only its record is at risk.
func errAuditAppendFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeAuditAppend, cause)
}
