package respond

import (
	"regexp"
)

var (
	// provider API keys travel as a query parameter, so they show up in
	// url.Error messages verbatim
	apiKeyParamPattern = regexp.MustCompile(`(?i)(apikey=)[a-zA-Z0-9_-]+`)

	// Authorization-style bearer values
	bearerPattern = regexp.MustCompile(`(?i)(bearer\s+)[a-zA-Z0-9._-]+`)

	// credentials embedded in connection URLs (postgres://, redis://)
	urlPasswordPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)
)

// SanitizeError returns the error message with credentials masked so it is
// safe to log.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = apiKeyParamPattern.ReplaceAllString(msg, "${1}****")
	msg = bearerPattern.ReplaceAllString(msg, "${1}****")
	msg = urlPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
