package anagrams

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"code.anagramas.org/golang/pkg/augment"
)

type apiCall struct {
	method        string
	path          string
	authorization string
	letters       string
}

func TestGenerate(t *testing.T) {
	srv, calls := newAnagramsApi(t, http.StatusOK)
	cli := newClient(t, srv.URL, "mock-jwt-token")
	ctx := context.Background()

	resp, err := cli.Generate(ctx, "  abc ")
	if nil != err {
		t.Fatalf("failed Generate, got error %v", err)
	}
	if "abc" != resp.OriginalLetters || 6 != resp.TotalAnagrams || !resp.FromCache {
		t.Errorf("unexpected response %+v", resp)
	}
	if !slices.Contains(resp.Anagrams, "cab") {
		t.Errorf("missing anagram in %v", resp.Anagrams)
	}

	_, err = cli.GenerateWithoutCache(ctx, "abc")
	if nil != err {
		t.Fatalf("failed GenerateWithoutCache, got error %v", err)
	}

	expect := []apiCall{
		{method: "POST", path: "/api/anagrams/generate", authorization: "Bearer mock-jwt-token", letters: "abc"},
		{method: "POST", path: "/api/anagrams/generate-no-cache", authorization: "Bearer mock-jwt-token", letters: "abc"},
	}
	if !slices.Equal(*calls, expect) {
		t.Errorf("unexpected calls %+v", *calls)
	}
}

func TestGenerateInvalidLetters(t *testing.T) {
	srv, calls := newAnagramsApi(t, http.StatusOK)
	cli := newClient(t, srv.URL, "")
	ctx := context.Background()

	for pos, letters := range []string{"", "   ", "abcdefghijk"} {
		_, err := cli.Generate(ctx, letters)
		if !errors.Is(err, ErrInvalidLetters) {
			t.Errorf("[%d] expected ErrInvalidLetters, got %v", pos, err)
		}
		_, err = cli.CalculateTotal(ctx, letters)
		if !errors.Is(err, ErrInvalidLetters) {
			t.Errorf("[%d] expected ErrInvalidLetters, got %v", pos, err)
		}
	}
	if 0 != len(*calls) {
		t.Errorf("invalid letters were sent, %+v", *calls)
	}

	// 10 multi bytes characters are accepted
	_, err := cli.Generate(ctx, "ááááááááãã")
	if nil != err {
		t.Errorf("failed Generate, got error %v", err)
	}
}

func TestCacheStatusAndTotal(t *testing.T) {
	srv, calls := newAnagramsApi(t, http.StatusOK)
	cli := newClient(t, srv.URL, "")
	ctx := context.Background()

	status, err := cli.CacheStatus(ctx)
	if nil != err {
		t.Fatalf("failed CacheStatus, got error %v", err)
	}
	if float64(3) != status["size"] {
		t.Errorf("unexpected status %v", status)
	}

	total, err := cli.CalculateTotal(ctx, "abcd")
	if nil != err {
		t.Fatalf("failed CalculateTotal, got error %v", err)
	}
	if float64(24) != total["total"] {
		t.Errorf("unexpected total %v", total)
	}

	if "/api/anagrams/calculate-total/abcd" != (*calls)[1].path {
		t.Errorf("unexpected path %s", (*calls)[1].path)
	}
	if "" != (*calls)[0].authorization {
		t.Errorf("unexpected Authorization %q", (*calls)[0].authorization)
	}
}

func TestRequestErrors(t *testing.T) {
	ctx := context.Background()
	testcases := []struct {
		status int
		flag   error
	}{
		{status: http.StatusUnauthorized, flag: ErrUnauthorized},
		{status: http.StatusForbidden, flag: ErrUnauthorized},
		{status: http.StatusInternalServerError, flag: ErrRequest},
		{status: http.StatusBadRequest, flag: ErrRequest},
	}
	for pos, tc := range testcases {
		srv, _ := newAnagramsApi(t, tc.status)
		cli := newClient(t, srv.URL, "")

		_, err := cli.Generate(ctx, "abc")
		if !errors.Is(err, tc.flag) {
			t.Errorf("[%d] expected %v, got %v", pos, tc.flag, err)
		}
		var serr StatusError
		if !errors.As(err, &serr) || tc.status != serr.Status {
			t.Errorf("[%d] missing StatusError in %v", pos, err)
		}
	}
}

func TestNewInvalid(t *testing.T) {
	for pos, apiUrl := range []string{"", "localhost:8080", "ftp://localhost"} {
		_, err := New(apiUrl, http.DefaultClient)
		if !errors.Is(err, Error) {
			t.Errorf("[%d] New accepted %q", pos, apiUrl)
		}
	}
	_, err := New("http://localhost:8080", nil)
	if !errors.Is(err, Error) {
		t.Error("New accepted nil client")
	}
}

// ---

type fixedToken string

func (self fixedToken) Token() (string, bool) {
	return string(self), "" != self
}

func newClient(t *testing.T, apiUrl string, token string) *Client {
	cli, err := New(apiUrl, augment.NewClient(fixedToken(token), nil, 0))
	if nil != err {
		t.Fatalf("failed New, got error %v", err)
	}
	return cli
}

// newAnagramsApi returns a stub anagrams API, non 200 status are returned without body.
func newAnagramsApi(t *testing.T, status int) (*httptest.Server, *[]apiCall) {
	calls := &[]apiCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := apiCall{method: r.Method, path: r.URL.Path, authorization: r.Header.Get("Authorization")}
		if http.MethodPost == r.Method {
			req := Request{}
			json.NewDecoder(r.Body).Decode(&req)
			call.letters = req.Letters
		}
		*calls = append(*calls, call)

		if http.StatusOK != status {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/anagrams/cache/status":
			w.Write([]byte(`{"size":3,"enabled":true}`))
		case "/api/anagrams/calculate-total/abcd":
			w.Write([]byte(`{"letters":"abcd","total":24}`))
		default:
			json.NewEncoder(w).Encode(Response{
				OriginalLetters:  call.letters,
				Anagrams:         []string{"abc", "acb", "bac", "bca", "cab", "cba"},
				TotalAnagrams:    6,
				FromCache:        "/api/anagrams/generate" == r.URL.Path,
				ProcessingTimeMs: 2,
			})
		}
	}))
	t.Cleanup(srv.Close)

	return srv, calls
}
