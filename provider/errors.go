package provider

import (
	"fmt"
)

// ConfigError reports a provider configuration that cannot produce an
// upstream request. It is returned before any network traffic happens.
type ConfigError struct {
	Missing string
}

func (e *ConfigError) Error() string {
	return "provider config missing " + e.Missing
}

// UpstreamError is a non-success HTTP response from the vendor, surfaced
// after the adapter exhausted its known recovery classes. Body carries the
// raw response payload so callers can inspect vendor-specific diagnostics.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream returned status %d", e.Status)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Body)
}

// EmptyResponseError means the vendor answered with a success status but none
// of the known response shapes contained extractable content.
type EmptyResponseError struct {
	Model string
}

func (e *EmptyResponseError) Error() string {
	if e.Model == "" {
		return "upstream returned no extractable content"
	}
	return "upstream returned no extractable content for model " + e.Model
}
