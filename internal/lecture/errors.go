package lecture

import (
	"errors"
	"fmt"
)

// ErrorKind categorises every failure the engine, session manager and
// sync protocol can surface. Callers match on the kind, never on message
// text.
type ErrorKind string

const (
	// KindValidation: a required parameter is missing or malformed
	// (e.g. no lecture selected).
	KindValidation ErrorKind = "VALIDATION"

	// KindNotFound: unknown lecture, question or URI.
	KindNotFound ErrorKind = "NOT_FOUND"

	// KindAuth: the server rejected our credentials; the caller should
	// re-authenticate and retry.
	KindAuth ErrorKind = "AUTH"

	// KindQuota: storage exhausted; routed to a recovery flow rather
	// than treated as a generic failure.
	KindQuota ErrorKind = "QUOTA"

	// KindNetwork: transient transport failure; callers may degrade to
	// cached replica state.
	KindNetwork ErrorKind = "NETWORK"

	// KindUserMismatch: the server returned a lecture owned by a
	// different user. Fatal for that sync attempt only; the replica is
	// left untouched.
	KindUserMismatch ErrorKind = "USER_MISMATCH"

	// KindEmptyLecture: allocation requested from a lecture with no
	// eligible questions.
	KindEmptyLecture ErrorKind = "EMPTY_LECTURE"

	// KindUnknownQuestion: a forced question URI is not in the pool.
	KindUnknownQuestion ErrorKind = "UNKNOWN_QUESTION"

	// KindPracticeQuota: the practice allowance is used up.
	KindPracticeQuota ErrorKind = "PRACTICE_QUOTA"

	// KindRemote: server-signalled error we do not recognise; reported
	// generically and logged for diagnosis.
	KindRemote ErrorKind = "REMOTE"
)

// Error is the tagged error carried through the whole client. Context
// holds whatever identifies the failure site (lecture or question URI,
// user names on a mismatch).
type Error struct {
	Kind    ErrorKind
	Message string
	Context map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if uri, ok := e.Context["uri"]; ok {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, uri)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Errorf builds a tagged error with no context.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithContext attaches a context key to the error and returns it.
func (e *Error) WithContext(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string, 1)
	}
	e.Context[key] = value
	return e
}

// KindOf returns the kind of err, or KindRemote for errors that did not
// originate in this module.
func KindOf(err error) ErrorKind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindRemote
}

// IsKind reports whether err carries the given kind, unwrapping as
// needed.
func IsKind(err error, kind ErrorKind) bool {
	var le *Error
	return errors.As(err, &le) && le.Kind == kind
}

// IsNetworkError reports whether err is a transient transport failure.
func IsNetworkError(err error) bool { return IsKind(err, KindNetwork) }

// IsQuotaError reports whether err is a storage-quota failure.
func IsQuotaError(err error) bool { return IsKind(err, KindQuota) }

// IsUserMismatchError reports whether err is a cross-user sync refusal.
func IsUserMismatchError(err error) bool { return IsKind(err, KindUserMismatch) }
