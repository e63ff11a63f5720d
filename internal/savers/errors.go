package savers

import (
	"fmt"

	"rpc-sentinel/internal/shared/svcerrors"
)

const (
	codeUnknownStream = "SVR_1000"
)

// errUnknownStream returns an error when a record is routed to a stream with
// no registered writer. Indicates a wiring bug, not bad input.
func errUnknownStream(stream string) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeUnknownStream, fmt.Errorf("no writer registered for stream %q", stream))
}
