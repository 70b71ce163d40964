package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrUnavailable     ErrorCode = "service_unavailable"
	ErrAlreadyRunning  ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Hardware errors
	ErrHostInit    ErrorCode = "host_init_failed"
	ErrPinClaim    ErrorCode = "pin_claim_failed"
	ErrPinWrite    ErrorCode = "pin_write_failed"
	ErrPinRead     ErrorCode = "pin_read_failed"
	ErrPinRelease  ErrorCode = "pin_release_failed"
	ErrSensorSetup ErrorCode = "sensor_setup_failed"

	// Storage errors
	ErrStorageInit   ErrorCode = "storage_init_failed"
	ErrStorageAppend ErrorCode = "storage_append_failed"
	ErrStorageRead   ErrorCode = "storage_read_failed"
	ErrStorageClose  ErrorCode = "storage_close_failed"

	// Application errors
	ErrInitApp  ErrorCode = "init_app_failed"
	ErrMainLoop ErrorCode = "main_loop_failed"

	// Operation errors
	ErrOperationFailed  ErrorCode = "operation_failed"
	ErrOperationTimeout ErrorCode = "operation_timeout"

	// Telemetry errors
	ErrInitTelemetry    ErrorCode = "init_telemetry_failed"
	ErrRecordTelemetry  ErrorCode = "record_telemetry_failed"
	ErrCloseTelemetry   ErrorCode = "close_telemetry_failed"
	ErrInvalidTelemetry ErrorCode = "invalid_telemetry_record"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:         "Internal error occurred",
	ErrInvalidArgument:  "Invalid argument provided",
	ErrUnavailable:      "Service unavailable",
	ErrAlreadyRunning:   "Another instance is already running",
	ErrInvalidConfig:    "Invalid configuration",
	ErrReadConfig:       "Failed to read config file",
	ErrInvalidInterval:  "Invalid interval value",
	ErrInvalidLogLevel:  "Invalid log level",
	ErrInitFailed:       "Initialization failed",
	ErrShutdownFailed:   "Shutdown failed",
	ErrHostInit:         "Failed to initialize GPIO host",
	ErrPinClaim:         "Failed to claim GPIO pin",
	ErrPinWrite:         "Failed to drive GPIO pin",
	ErrPinRead:          "Failed to read GPIO pin",
	ErrPinRelease:       "Failed to release GPIO pins",
	ErrSensorSetup:      "Failed to set up sensor",
	ErrStorageInit:      "Failed to initialize log store",
	ErrStorageAppend:    "Failed to append to log store",
	ErrStorageRead:      "Failed to read log store",
	ErrStorageClose:     "Failed to close log store",
	ErrInitApp:          "Failed to initialize application",
	ErrMainLoop:         "Error in main loop",
	ErrOperationFailed:  "Operation failed",
	ErrOperationTimeout: "Operation timed out",
	ErrInitTelemetry:    "Failed to initialize telemetry",
	ErrRecordTelemetry:  "Failed to record telemetry",
	ErrCloseTelemetry:   "Failed to close telemetry connection",
	ErrInvalidTelemetry: "Invalid telemetry record",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
