package views

import (
	"errors"
	"fmt"

	"github.com/aretw0/notes/pkg/core"
)

// detailFields are checked in order for field-level server messages.
var detailFields = []struct {
	key   string
	label string
}{
	{"username", "Username"},
	{"email", "Email"},
	{"password", "Password"},
	{"title", "Title"},
	{"content", "Content"},
}

// ErrorMessage turns an error into the line shown to the user.
//
// HTTP errors prefer the first field-level message sent by the server, then
// its "detail" entry, then fallback. Other errors use their own message.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}

	apiErr, ok := core.AsError(err)
	if !ok || apiErr.Kind != core.KindHTTP {
		if msg := err.Error(); msg != "" {
			return msg
		}
		return fallback
	}

	details, _ := apiErr.Details.(map[string]any)
	for _, f := range detailFields {
		if msg, ok := firstMessage(details[f.key]); ok {
			return f.label + ": " + msg
		}
	}
	if msg, ok := firstMessage(details["detail"]); ok {
		return msg
	}
	return fallback
}

func firstMessage(v any) (string, bool) {
	switch m := v.(type) {
	case string:
		return m, m != ""
	case []any:
		if len(m) == 0 {
			return "", false
		}
		return firstMessage(m[0])
	case nil:
		return "", false
	default:
		return fmt.Sprint(m), true
	}
}
