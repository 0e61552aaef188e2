package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"auction_scout/pkg/httpx"
)

type fakeAuthenticator struct {
	token         atomic.Value
	authenticated atomic.Int64
}

func (f *fakeAuthenticator) Authenticate(context.Context) error {
	f.authenticated.Add(1)
	f.token.Store("token-" + string(rune('0'+f.authenticated.Load())))
	return nil
}

func (f *fakeAuthenticator) BearerToken() string {
	token, _ := f.token.Load().(string)
	return token
}

func TestAuthBearerRoundTripperAuthenticatesOnce(t *testing.T) {
	rq := require.New(t)

	var gotAuthorization string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthorization = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	auth := &fakeAuthenticator{}
	client := &http.Client{Transport: httpx.NewAuthBearerRoundTripper(http.DefaultTransport, auth)}

	resp, err := client.Get(srv.URL)
	rq.NoError(err)
	defer resp.Body.Close()

	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("Bearer token-1", gotAuthorization)
	rq.EqualValues(1, auth.authenticated.Load())

	// токен уже есть, повторной аутентификации нет
	resp, err = client.Get(srv.URL)
	rq.NoError(err)
	defer resp.Body.Close()

	rq.EqualValues(1, auth.authenticated.Load())
}

func TestAuthBearerRoundTripperRefreshesOnUnauthorized(t *testing.T) {
	rq := require.New(t)

	var requests atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		rq.Equal("Bearer token-2", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	auth := &fakeAuthenticator{}
	client := &http.Client{Transport: httpx.NewAuthBearerRoundTripper(http.DefaultTransport, auth)}

	resp, err := client.Get(srv.URL)
	rq.NoError(err)
	defer resp.Body.Close()

	// 401 вызвал повторную аутентификацию и повтор запроса
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.EqualValues(2, auth.authenticated.Load())
	rq.EqualValues(2, requests.Load())
}
