package session

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"code.anagramas.org/golang/internal/observability"
	"code.anagramas.org/golang/internal/transport"
)

const (
	LoginPath    = "/api/auth/login"
	RegisterPath = "/api/auth/register"

	maxResponseSize = 1 << 20
)

var jsonSrz = transport.WrapInSafeSerializer(transport.JSONSerializer{})

// httpClient is a private interface that simplify mocking http.Client.
type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// errorBody is the shape of Auth API error responses.
type errorBody struct {
	Message string `json:"message"`
}

// checkApiUrl returns an error if apiUrl is not an absolute http(s) URL.
func checkApiUrl(apiUrl string) error {
	u, err := url.Parse(apiUrl)
	if nil != err {
		return wrapError(err, "invalid ApiUrl")
	}
	if !slices.Contains([]string{"http", "https"}, u.Scheme) {
		return newError("invalid ApiUrl scheme %q", u.Scheme)
	}
	if "" == u.Host {
		return newError("ApiUrl has no host")
	}
	return nil
}

// exchangeCredentials POSTs creds to endpoint and returns the Auth API response.
// All failures are reported as *AuthError.
func exchangeCredentials(ctx context.Context, cli httpClient, endpoint string, creds Credentials) (AuthResponse, error) {
	var rv AuthResponse
	log := observability.GetObservability(ctx).Log().With("endpoint", endpoint)

	srzcreds, err := jsonSrz.Marshal(creds)
	if nil != err {
		return rv, &AuthError{Kind: ErrTransport, Message: "failed encoding credentials", Cause: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(srzcreds))
	if nil != err {
		return rv, &AuthError{Kind: ErrTransport, Message: "failed instantiating http Request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Debug("sending credentials", "username", creds.Username)
	resp, err := cli.Do(req)
	if nil != err {
		return rv, &AuthError{Kind: ErrTransport, Message: "failed http POST request", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if nil != err {
		return rv, &AuthError{
			Kind:    ErrTransport,
			Status:  resp.StatusCode,
			Message: "failed reading response body",
			Cause:   err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kind := statusKind(resp.StatusCode)
		log.Debug("credentials rejected", "status", resp.StatusCode, "kind", kind)
		return rv, &AuthError{
			Kind:    kind,
			Status:  resp.StatusCode,
			Message: errorMessage(body, kind),
		}
	}

	err = jsonSrz.Unmarshal(body, &rv)
	if nil != err {
		return AuthResponse{}, &AuthError{
			Kind:    ErrTransport,
			Status:  resp.StatusCode,
			Message: "malformed Auth API response",
			Cause:   err,
		}
	}

	return rv, nil
}

// errorMessage returns the message of an Auth API error body or a generic description of kind.
func errorMessage(body []byte, kind error) string {
	eb := errorBody{}
	err := jsonSrz.Unmarshal(body, &eb)
	if nil == err && "" != strings.TrimSpace(eb.Message) {
		return eb.Message
	}

	switch kind {
	case ErrValidation:
		return "invalid username or password data"
	case ErrInvalidCredentials:
		return "invalid credentials"
	case ErrConflict:
		return "username already exists"
	default:
		return "authentication request failed"
	}
}
