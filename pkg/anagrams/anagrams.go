// Package anagrams is the client of the anagrams generation API.
//
// Requests carry no credential themselves, build the Client with an augment.NewClient
// http.Client so that the current Session token is attached.
package anagrams

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"code.anagramas.org/golang/internal/observability"
	"code.anagramas.org/golang/internal/transport"
	"code.anagramas.org/golang/internal/utils"
)

const (
	BasePath = "/api/anagrams"

	MinLetters = 1
	MaxLetters = 10

	maxResponseSize = 16 << 20
)

var jsonSrz = transport.WrapInSafeSerializer(transport.JSONSerializer{})

// httpClient is a private interface that simplify mocking http.Client.
type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request asks for the anagrams of Letters.
type Request struct {
	Letters string `json:"letters"`
}

// Check returns an error if Letters has not between MinLetters and MaxLetters characters.
func (self Request) Check() error {
	return checkLetters(self.Letters)
}

// Response holds the anagrams generated by the API.
type Response struct {
	OriginalLetters  string   `json:"originalLetters"`
	Anagrams         []string `json:"anagrams"`
	TotalAnagrams    int      `json:"totalAnagrams"`
	FromCache        bool     `json:"fromCache"`
	ProcessingTimeMs int64    `json:"processingTimeMs"`
}

// Client calls the anagrams API.
type Client struct {
	baseUrl string
	cli     httpClient
}

// New returns a Client for the API served at apiUrl, eg http://localhost:8080.
// It errors if apiUrl is not an http(s) URL or cli is nil.
func New(apiUrl string, cli httpClient) (*Client, error) {
	if nil == cli {
		return nil, newError("nil http client")
	}
	u, err := url.Parse(apiUrl)
	if nil != err {
		return nil, wrapError(err, "invalid apiUrl")
	}
	if !slices.Contains([]string{"http", "https"}, u.Scheme) || "" == u.Host {
		return nil, newError("invalid apiUrl %q", apiUrl)
	}

	return &Client{baseUrl: strings.TrimSuffix(apiUrl, "/") + BasePath, cli: cli}, nil
}

// Generate returns the anagrams of letters, the API may answer from its cache.
func (self *Client) Generate(ctx context.Context, letters string) (Response, error) {
	return self.generate(ctx, "/generate", letters)
}

// GenerateWithoutCache returns the anagrams of letters, bypassing the API cache.
func (self *Client) GenerateWithoutCache(ctx context.Context, letters string) (Response, error) {
	return self.generate(ctx, "/generate-no-cache", letters)
}

// CacheStatus returns the API cache status document.
func (self *Client) CacheStatus(ctx context.Context) (map[string]any, error) {
	rv := map[string]any{}
	err := self.call(ctx, http.MethodGet, "/cache/status", nil, &rv)
	return rv, err
}

// CalculateTotal returns the API document describing how many anagrams letters has.
func (self *Client) CalculateTotal(ctx context.Context, letters string) (map[string]any, error) {
	letters = strings.TrimSpace(letters)
	err := checkLetters(letters)
	if nil != err {
		return nil, err
	}

	rv := map[string]any{}
	err = self.call(ctx, http.MethodGet, "/calculate-total/"+url.PathEscape(letters), nil, &rv)
	return rv, err
}

func (self *Client) generate(ctx context.Context, path string, letters string) (Response, error) {
	var rv Response
	req := Request{Letters: strings.TrimSpace(letters)}
	if err := req.Check(); nil != err {
		return rv, err
	}

	err := self.call(ctx, http.MethodPost, path, req, &rv)
	return rv, err
}

// call sends a JSON request to the API and decodes the JSON response in dst.
func (self *Client) call(ctx context.Context, method string, path string, msg any, dst any) error {
	log := observability.GetObservability(ctx).Log().With("path", path)

	var body io.Reader
	if nil != msg {
		srzmsg, err := jsonSrz.Marshal(msg)
		if nil != err {
			return wrapError(err, "failed serializing request")
		}
		body = bytes.NewReader(srzmsg)
	}
	req, err := http.NewRequestWithContext(ctx, method, self.baseUrl+path, body)
	if nil != err {
		return wrapError(err, "failed instantiating http Request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := self.cli.Do(req)
	if nil != err {
		return utils.WrapError(err, 0, ErrRequest, "failed http %s request", method)
	}
	defer resp.Body.Close()

	switch {
	case http.StatusUnauthorized == resp.StatusCode || http.StatusForbidden == resp.StatusCode:
		log.Debug("request rejected", "status", resp.StatusCode)
		return utils.WrapError(StatusError{Status: resp.StatusCode}, 0, ErrUnauthorized, "request rejected")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		log.Debug("request failed", "status", resp.StatusCode)
		return utils.WrapError(StatusError{Status: resp.StatusCode}, 0, ErrRequest, "request failed")
	}

	srzresp, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if nil != err {
		return utils.WrapError(err, 0, ErrRequest, "failed reading response body")
	}
	err = jsonSrz.Unmarshal(srzresp, dst)
	if nil != err {
		return utils.WrapError(err, 0, ErrRequest, "malformed response")
	}

	return nil
}

func checkLetters(letters string) error {
	size := utf8.RuneCountInString(letters)
	if size < MinLetters || size > MaxLetters {
		return utils.NewError(0, ErrInvalidLetters, "letters must have between %d and %d characters, got %d", MinLetters, MaxLetters, size)
	}
	return nil
}
