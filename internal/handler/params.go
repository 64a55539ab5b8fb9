package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/meetpoint/internal/domain"
)

// pathInt64 binds the named chi URL parameter as a positive int64.
func pathInt64(r *http.Request, name string) (int64, error) {
	var v int64
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	if v < 1 {
		return 0, fmt.Errorf("invalid parameter %s: must be positive", name)
	}
	return v, nil
}

// pathString returns the named chi URL parameter decoded exactly once.
// chi matches against r.URL.RawPath when the request carries one, so only then
// is the captured segment still escaped.
func pathString(r *http.Request, name string) (string, error) {
	v := chi.URLParam(r, name)
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(v)
		if err != nil {
			return "", fmt.Errorf("invalid format for parameter %s: %w", name, err)
		}
		v = unescaped
	}
	if v == "" {
		return "", fmt.Errorf("invalid parameter %s: must not be empty", name)
	}
	return v, nil
}

// pagination binds the optional ?page= and ?limit= query parameters
// (defaults: page=1, limit=20, max=100).
func pagination(r *http.Request) (domain.PaginationParams, error) {
	var page, limit *int
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		return domain.PaginationParams{}, fmt.Errorf("invalid format for parameter page: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		return domain.PaginationParams{}, fmt.Errorf("invalid format for parameter limit: %w", err)
	}
	return domain.NewPaginationParams(page, limit), nil
}

// decodeBody decodes the JSON request body into dst. It reports whether the
// handler may continue; on failure the response has already been written.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		requestError(w, "request body is required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("payload_too_large", "request body too large"))
			return false
		}
		requestError(w, "malformed JSON body")
		return false
	}
	return true
}
