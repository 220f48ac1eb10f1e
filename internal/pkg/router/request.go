package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/shandysiswandi/opcode-profile/internal/pkg/goerror"
)

// MaxBodyBytes caps how much of a request body the decoders read.
const MaxBodyBytes = 1 << 20

const (
	mediaJSON = "application/json"
	mediaForm = "application/x-www-form-urlencoded"
)

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	// Request is the underlying http.Request.
	*http.Request
}

// DecodeFields reads a partial-update body into a flat key/value map.
//
// JSON objects (application/json or any +json type) keep their decoded value
// types, except numbers which stay json.Number so no digits are lost. Form
// bodies yield the first value of each key as a string. An empty body yields
// an empty map whatever the content type; any other content type with a body
// is rejected as unsupported.
func (r *Request) DecodeFields() (map[string]any, error) {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return map[string]any{}, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}
	if len(body) > MaxBodyBytes {
		return nil, goerror.NewInvalidFormat("Request body too large")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}

	contentType := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, goerror.NewUnsupportedMediaType(strings.TrimSpace(contentType))
	}

	switch {
	case mediaType == mediaJSON, strings.HasSuffix(mediaType, "+json"):
		return decodeJSONObject(body)
	case mediaType == mediaForm:
		return decodeForm(body)
	default:
		return nil, goerror.NewUnsupportedMediaType(mediaType)
	}
}

func decodeJSONObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, goerror.NewInvalidFormat()
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, goerror.NewInvalidFormat()
	}

	return fields, nil
}

func decodeForm(body []byte) (map[string]any, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}

	fields := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	return fields, nil
}
