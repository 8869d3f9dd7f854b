// Package web holds the JSON plumbing shared by the HTTP handlers:
// response helpers and the middleware chain around the mux.
package web

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
)

type errorBody struct {
	Error string `json:"error"`
}

type msgBody struct {
	Msg string `json:"msg"`
}

func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, errorBody{Error: msg})
}

func Msg(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, msgBody{Msg: msg})
}

// Decode unmarshals a JSON request body, rejecting unknown fields.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// ClientIP picks the caller address for rate-limit keys. X-Forwarded-For is
// client-controlled, so it is consulted only when a trusted proxy in front
// is known to set it; otherwise the socket peer wins and a spoofed header
// cannot dodge the limiter.
func ClientIP(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			if i := strings.IndexByte(fwd, ','); i >= 0 {
				fwd = fwd[:i]
			}
			return strings.TrimSpace(fwd)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
