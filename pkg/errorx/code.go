package errorx

import "net/http"

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
	NotImplemented   Code = 100009
)

// HTTPStatus maps an error code to the http status written by the router.
func (c Code) HTTPStatus() int {
	switch c {
	case BadRequest:
		return http.StatusBadRequest
	case PermissionDenied:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Unauthenticated:
		return http.StatusUnauthorized
	case AlreadyExists:
		return http.StatusConflict
	case Unavailable:
		return http.StatusServiceUnavailable
	case NotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
