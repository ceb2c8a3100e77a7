package http

const (
	CodeUnknown             = "UNKNOWN"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeInvalidJSON         = "INVALID_JSON"
	CodeBadRequest          = "BAD_REQUEST"
	CodeInvalidPath         = "INVALID_PATH"
	CodeInvalidTaskID       = "INVALID_TASK_ID"
	CodeMissingRefreshToken = "MISSING_REFRESH_TOKEN"
	CodeMissingAuth         = "MISSING_AUTHORIZATION"
	CodeInvalidToken        = "INVALID_TOKEN"
)
