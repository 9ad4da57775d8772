package log

const (
	// Outbound request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldURL       = "url"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldProxy     = "proxy"

	// Plugin
	FieldPlugin = "plugin"

	// Loader
	FieldPath   = "path"
	FieldFormat = "format"
)
