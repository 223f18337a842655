package middleware

import (
	"net/http"
	"strings"
)

// Request kinds on the intake service. A GET to "/" is a hidden-frame
// submission when its query carries a non-blank submission field and a
// liveness poll otherwise.
const (
	KindLiveness    = "liveness"
	KindSubmitPost  = "submit_post"
	KindSubmitFrame = "submit_frame"
	KindExport      = "export"
	KindHealth      = "health"
	KindOther       = "other"
)

// RequestKind classifies r for logs and metrics.
func RequestKind(r *http.Request) string {
	path := r.URL.Path
	switch {
	case path == "/health":
		return KindHealth
	case strings.HasPrefix(path, "/admin/"):
		return KindExport
	case path != "/" && path != "":
		return KindOther
	case r.Method == http.MethodPost:
		return KindSubmitPost
	case r.Method == http.MethodGet && hasSubmissionField(r):
		return KindSubmitFrame
	case r.Method == http.MethodGet:
		return KindLiveness
	default:
		return KindOther
	}
}

// submissionKeys are the wire keys the intake form binds.
var submissionKeys = []string{"timestamp", "name", "email", "phone", "country", "businessType", "services", "budget"}

func hasSubmissionField(r *http.Request) bool {
	if r.URL.RawQuery == "" {
		return false
	}
	q := r.URL.Query()
	for _, k := range submissionKeys {
		if q.Get(k) != "" {
			return true
		}
	}
	return false
}
