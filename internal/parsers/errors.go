package parsers

import (
	"fmt"

	"rpc-sentinel/internal/shared/svcerrors"
)

const (
	codeMalformedLine   = "PRS_1000"
	codeMissingMethod   = "PRS_1001"
	codeNegativeLatency = "PRS_1002"
)

// errMalformedLine returns an error when a line is not valid JSON.
func errMalformedLine(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeMalformedLine, "malformed event line", cause)
}

// errMissingMethod returns an error when a line has no method to key a window on.
func errMissingMethod() *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeMissingMethod, "event line missing method", nil)
}

// errNegativeLatency returns an error when lat_ms is negative.
func errNegativeLatency(latency float64) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeNegativeLatency, fmt.Sprintf("negative lat_ms: %f", latency), nil)
}
