package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// MsgConnectivity is the user-facing message for a service that could not be reached.
const MsgConnectivity = "Connectivity error. Please check your network."

// ErrorKind classifies a failed call.
type ErrorKind int

const (
	// KindConnectivity is a transport failure: the service was not reached.
	KindConnectivity ErrorKind = iota + 1
	// KindAuthentication is a rejected or expired bearer token (401/403).
	KindAuthentication
	// KindValidation is any other non-2xx answer; Detail carries the server's reason.
	KindValidation
	// KindProtocol is a 2xx answer whose body could not be understood.
	KindProtocol
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnectivity:
		return "connectivity"
	case KindAuthentication:
		return "authentication"
	case KindValidation:
		return "validation"
	case KindProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// RequestError is returned by every HTTP method on failure.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int // zero for connectivity failures
	Kind       ErrorKind
	Detail     string // server-supplied, human readable; may be empty
	Err        error  // underlying transport or decode error, if any
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	prefix := fmt.Sprintf("api %s %s", strings.ToLower(e.Method), e.Path)
	switch {
	case e.Detail != "" && e.StatusCode > 0:
		return fmt.Sprintf("%s: http %d: %s", prefix, e.StatusCode, e.Detail)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s: http %d", prefix, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", prefix, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s error", prefix, e.Kind)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// KindOf returns the kind of a *RequestError in err's chain, or zero.
func KindOf(err error) ErrorKind {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}

// DetailOf returns the server-supplied detail in err's chain, or "".
func DetailOf(err error) string {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Detail
	}
	return ""
}

// IsConnectivity reports whether err is a transport failure.
func IsConnectivity(err error) bool { return KindOf(err) == KindConnectivity }

// IsAuthentication reports whether err is a token rejection.
func IsAuthentication(err error) bool { return KindOf(err) == KindAuthentication }

func kindForStatus(status int) ErrorKind {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return KindAuthentication
	}
	return KindValidation
}

// extractDetail pulls a readable reason out of an error body. The service
// answers {"detail": "..."} for business errors and
// {"detail": [{"msg": "...", ...}]} for request validation errors.
func extractDetail(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	for _, key := range []string{"detail", "message", "error"} {
		r := gjson.GetBytes(body, key)
		switch {
		case !r.Exists():
			continue
		case r.Type == gjson.String:
			if s := strings.TrimSpace(r.String()); s != "" {
				return s
			}
		case r.IsArray():
			msgs := make([]string, 0, len(r.Array()))
			for _, item := range r.Array() {
				msg := item.Get("msg")
				if !msg.Exists() && item.Type == gjson.String {
					msg = item
				}
				if s := strings.TrimSpace(msg.String()); s != "" {
					msgs = append(msgs, s)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		case r.IsObject():
			if s := strings.TrimSpace(r.Get("msg").String()); s != "" {
				return s
			}
			if s := strings.TrimSpace(r.Get("message").String()); s != "" {
				return s
			}
		}
	}
	return ""
}
