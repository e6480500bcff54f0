package handler

import (
	"net/http"
	"strings"
)

const (
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type, Accept, Authorization, Origin, X-Requested-With, X-Request-Id"
)

// corsPolicy decides which browser origins may call the API. A "*" entry
// allows every origin.
type corsPolicy struct {
	any     bool
	allowed map[string]struct{}
}

func newCORSPolicy(origins []string) corsPolicy {
	p := corsPolicy{allowed: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			p.any = true
		default:
			p.allowed[o] = struct{}{}
		}
	}
	return p
}

func (p corsPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if p.any {
		return true
	}
	_, ok := p.allowed[origin]
	return ok
}

// headers returns the CORS response headers for a request from origin. The
// origin is echoed rather than "*" so credentials keep working.
func (p corsPolicy) headers(origin string) map[string]string {
	if !p.allows(origin) {
		return nil
	}
	return map[string]string{
		"Access-Control-Allow-Origin":      origin,
		"Access-Control-Allow-Credentials": "true",
		"Access-Control-Allow-Methods":     corsAllowMethods,
		"Access-Control-Allow-Headers":     corsAllowHeaders,
		"Vary":                             "Origin",
	}
}

func isPreflight(method string) bool {
	return method == http.MethodOptions
}
