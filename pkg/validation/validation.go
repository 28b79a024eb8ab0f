package validation

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	MinThreads = 1
	MaxThreads = 20
)

func ValidateThreadCount(threads int) error {
	if threads < MinThreads || threads > MaxThreads {
		return fmt.Errorf("thread count must be between %d and %d, got %d", MinThreads, MaxThreads, threads)
	}
	return nil
}

func ValidateNonEmptyString(fieldName, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateMethod accepts the HTTP methods the client sends.
func ValidateMethod(method string) error {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return nil
	}
	return fmt.Errorf("unsupported HTTP method: %s (must be one of: GET, POST, PUT, PATCH, DELETE)", method)
}

// ValidateRelativePath requires an API path such as "/api/events".
func ValidateRelativePath(path string) error {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return fmt.Errorf("path must start with a single '/', got %q", path)
	}
	return nil
}

// ValidateBaseURL requires an absolute http(s) URL without a query.
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL must include a host, got %q", raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("base URL must not carry a query or fragment, got %q", raw)
	}
	return nil
}

func ValidateStoreBackend(backend string) error {
	validBackends := map[string]bool{
		"sqlite": true,
		"redis":  true,
		"memory": true,
	}
	if !validBackends[backend] {
		return fmt.Errorf("invalid store backend: %s (must be one of: sqlite, redis, memory)", backend)
	}
	return nil
}

func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}
