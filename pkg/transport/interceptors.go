package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/aretw0/notes/pkg/core"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// ErrorInterceptor turns non-2xx responses into *core.Error. The details are
// the decoded body when it is JSON, or the raw text otherwise.
func ErrorInterceptor(ctx context.Context, resp *http.Response, _ Replay) (*http.Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.NewNetworkError(fmt.Errorf("read error body: %w", err))
	}

	var details any = string(raw)
	if IsJSON(resp.Header.Get("Content-Type")) {
		var parsed any
		if json.Unmarshal(raw, &parsed) == nil {
			details = parsed
		}
	}

	return nil, core.NewHTTPError(resp.StatusCode, statusText(resp), details)
}

// BearerInterceptor sets the JSON content type and the Authorization header
// from the token store. Caller headers win over the content type; the
// Authorization header is always taken from the store. A missing token still
// produces the header, and the server rejects it.
func BearerInterceptor(tokens *core.Tokens, logger *slog.Logger) RequestInterceptor {
	return func(ctx context.Context, url string, opts RequestOptions) RequestOptions {
		token, _, err := tokens.Access(ctx)
		if err != nil && logger != nil {
			logger.Warn("access token unavailable", "url", url, "error", err)
		}

		header := http.Header{}
		header.Set("Content-Type", "application/json")
		for k, v := range opts.Header {
			header[http.CanonicalHeaderKey(k)] = v
		}
		header.Set("Authorization", "Bearer "+token)

		opts.Header = header
		return opts
	}
}

// RequestIDInterceptor tags each request with a random id unless the caller
// already set one.
func RequestIDInterceptor(ctx context.Context, url string, opts RequestOptions) RequestOptions {
	if opts.Header == nil {
		opts.Header = http.Header{}
	}
	if opts.Header.Get(RequestIDHeader) == "" {
		opts.Header.Set(RequestIDHeader, uuid.NewString())
	}
	return opts
}

// LoggingInterceptor logs every response at debug level.
func LoggingInterceptor(logger *slog.Logger) ResponseInterceptor {
	return func(ctx context.Context, resp *http.Response, _ Replay) (*http.Response, error) {
		if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) {
			return resp, nil
		}
		args := []any{"status", resp.StatusCode}
		if resp.Request != nil {
			args = append(args,
				"method", resp.Request.Method,
				"url", resp.Request.URL.String(),
				"request_id", resp.Request.Header.Get(RequestIDHeader),
			)
		}
		logger.Debug("http response", args...)
		return resp, nil
	}
}

// IsJSON reports whether a Content-Type header denotes a JSON payload.
func IsJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// statusText returns the reason phrase sent by the server, falling back to
// the standard text for the code.
func statusText(resp *http.Response) string {
	if text, ok := strings.CutPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
