package loggers

const (
	FieldApp       = "app"
	FieldComponent = "component"

	FieldTopic  = "topic"
	FieldMethod = "method"
	FieldPath   = "path"
	FieldStream = "stream"

	FieldRequestID  = "request_id"
	FieldErrorStack = "error_stack"
	FieldErrorCode  = "error_code"

	FieldPartitionId = "partition_id"
)
