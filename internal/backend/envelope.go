package backend

import "strings"

// Envelope is the wire contract shared with the upstream API. The embedded
// StatusCode carries the real outcome even when the transport status is 200.
type Envelope struct {
	Success    bool     `json:"success"`
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Result     any      `json:"result"`
	Errors     []string `json:"errors"`
}

// OK builds a success envelope.
func OK(message string, result any) Envelope {
	return Envelope{
		Success:    true,
		StatusCode: 200,
		Message:    message,
		Result:     result,
	}
}

// Fail builds a failure envelope.
func Fail(statusCode int, message string, errs ...string) Envelope {
	return Envelope{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
		Errors:     errs,
	}
}

// ResultString returns the envelope result when it is a plain string.
func (e *Envelope) ResultString() string {
	s, _ := e.Result.(string)
	return s
}

// SplitImageList parses the backend's comma-separated URL string into a
// trimmed slice, preserving order. An empty input yields no entries.
func SplitImageList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			urls = append(urls, p)
		}
	}
	return urls
}
