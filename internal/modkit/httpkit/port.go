package httpkit

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	perrs "embedbatch/internal/platform/errors"
)

// TokenFunc resolves a bearer token to a client label
type TokenFunc func(token string) (clientID string, err error)

// Port implements middleware.AuthPort by reading Authorization and delegating to a TokenFunc
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a simple parser function
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn}
}

// Parse extracts the client label from an Authorization Bearer token
// returns unauthorized when the header is missing, malformed, or the parser rejects the token
func (p *Port) Parse(r *http.Request) (string, error) {
	s := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer"
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	raw := strings.TrimSpace(s[len(prefix):])
	if raw == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	if p.parse == nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	client, err := p.parse(raw)
	if err != nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	return client, nil
}

// StaticTokens builds a TokenFunc from "label:token" or bare "token" entries
// bare tokens are labelled client-1, client-2, ... in list order
func StaticTokens(entries []string) TokenFunc {
	type tok struct{ label, secret string }
	toks := make([]tok, 0, len(entries))
	for i, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		label, secret, ok := strings.Cut(e, ":")
		if !ok {
			label, secret = fmt.Sprintf("client-%d", i+1), e
		}
		toks = append(toks, tok{label: strings.TrimSpace(label), secret: strings.TrimSpace(secret)})
	}
	return func(token string) (string, error) {
		for _, t := range toks {
			if subtle.ConstantTimeCompare([]byte(t.secret), []byte(token)) == 1 {
				return t.label, nil
			}
		}
		return "", perrs.Unauthorizedf("unknown token")
	}
}
