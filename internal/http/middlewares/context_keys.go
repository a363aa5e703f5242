package middlewares

const (
	CtxRequestID = "request_id"
	CtxUser      = "auth.user"
	CtxUserID    = "auth.userID"
)

// SessionCookie carries the opaque session token.
const SessionCookie = "sid"
