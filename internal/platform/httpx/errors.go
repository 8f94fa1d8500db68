package httpx

import "net/http"

// Unauthorized sends the single undifferentiated 401 used for every identity
// failure. The caller decides what, if anything, to log about the real cause.
func Unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer`)
	Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
}
