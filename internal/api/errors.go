package api

import (
	"net/http"
	"strings"

	"github.com/tutor-web/quizclient/internal/lecture"
)

// classifyMessage maps a server "domain::category::detail" string onto
// an error kind. Unknown categories and plain strings come back as
// remote errors.
func classifyMessage(message string) lecture.ErrorKind {
	parts := strings.SplitN(message, "::", 3)
	if len(parts) < 2 {
		return lecture.KindRemote
	}
	switch parts[1] {
	case "unauth", "notacceptedterms":
		return lecture.KindAuth
	case "neterror":
		return lecture.KindNetwork
	case "quota":
		return lecture.KindQuota
	case "notfound":
		return lecture.KindNotFound
	default:
		return lecture.KindRemote
	}
}

// classifyStatus maps an HTTP status to an error kind, used when the
// body carries no structured message.
func classifyStatus(status int) lecture.ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return lecture.KindAuth
	case status == http.StatusNotFound:
		return lecture.KindNotFound
	case status >= 500:
		return lecture.KindNetwork
	default:
		return lecture.KindRemote
	}
}

// serverError builds the classified error for a failed response.
func serverError(status int, message, url string) error {
	kind := classifyStatus(status)
	if strings.Contains(message, "::") {
		kind = classifyMessage(message)
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return lecture.Errorf(kind, "server error: %s", message).
		WithContext("url", url)
}
