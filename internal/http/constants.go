package http

const (
	KeyHeaderContentType       = "Content-Type"
	KeyHeaderRequestID         = "X-Request-Id"
	KeyHeaderForwardedFor      = "X-Forwarded-For"
	ValueHeaderApplicationJson = "application/json"
)
