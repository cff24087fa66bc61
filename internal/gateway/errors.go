package gateway

import "fmt"

// CodeAuthRequired is the machine-readable code carried by AuthRequiredError.
const CodeAuthRequired = "AUTH_REQUIRED"

// ConfigurationError reports that the gateway cannot build request URLs.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "gateway configuration: " + e.Reason
}

// AuthRequiredError reports that no access token is available. No request
// was sent.
type AuthRequiredError struct {
	Code string
}

func (e *AuthRequiredError) Error() string {
	return "authentication required (" + e.Code + ")"
}

// RequestFailedError reports a non-2xx response.
type RequestFailedError struct {
	Status  int
	Message string
	URL     string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("request %s failed with status %d: %s", e.URL, e.Status, e.Message)
}
