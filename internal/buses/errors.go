package buses

import (
	"rpc-sentinel/internal/shared/svcerrors"
)

const (
	codeInvalidBrokerURL     = "BUS_1000"
	codeTransportPublish     = "BUS_2000"
	codeTransportUnconnected = "BUS_2001"
)

// errInvalidBrokerURL returns an error for an unusable broker address.
// Fatal at startup: the process refuses to run with an undialable bus.
func errInvalidBrokerURL(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidBrokerURL, "invalid broker URL", cause)
}

// errPublishFailed returns an error when the transport rejects a publish.
func errPublishFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewTransportError(codeTransportPublish, "publish failed", cause)
}

// errPublishNotConnected returns an error when publishing while disconnected.
func errPublishNotConnected() *svcerrors.ServiceError {
	return svcerrors.NewTransportError(codeTransportUnconnected, "not connected to broker", nil)
}
