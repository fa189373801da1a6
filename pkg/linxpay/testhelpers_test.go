package linxpay

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for token expiry tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// apiCall is one recorded request to a business endpoint.
type apiCall struct {
	Method      string
	Path        string
	Auth        string
	ContentType string
	RequestID   string
	RawBody     string
	Form        url.Values
}

// fakeLinxPay is an httptest-backed LinxPay stand-in. The token endpoint issues
// access-N / refresh-N pairs; business endpoints are answered by api.
type fakeLinxPay struct {
	*httptest.Server

	mu         sync.Mutex
	tokenCalls []url.Values
	apiCalls   []apiCall
	issued     int

	// token endpoint behaviour
	expiresIn      int    // 0 omits expires_in
	noRefreshToken bool   // omit refresh_token from responses
	tokenStatus    int    // non-zero forces an error status
	tokenBody      string // body sent with tokenStatus

	// business endpoint behaviour; defaults to 200 {"status":"ok"}
	api func(w http.ResponseWriter, call apiCall, n int)
}

func newFakeLinxPay(t *testing.T) *fakeLinxPay {
	t.Helper()
	f := &fakeLinxPay{expiresIn: 3600}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeLinxPay) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == "/oauth/token" {
		f.serveToken(w, r)
		return
	}

	body, _ := io.ReadAll(r.Body)
	form, _ := url.ParseQuery(string(body))
	call := apiCall{
		Method:      r.Method,
		Path:        r.URL.Path,
		Auth:        r.Header.Get("Authorization"),
		ContentType: r.Header.Get("Content-Type"),
		RequestID:   r.Header.Get("X-Request-Id"),
		RawBody:     string(body),
		Form:        form,
	}

	f.mu.Lock()
	f.apiCalls = append(f.apiCalls, call)
	n := len(f.apiCalls)
	handler := f.api
	f.mu.Unlock()

	if handler == nil {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
		return
	}
	handler(w, call, n)
}

func (f *fakeLinxPay) serveToken(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenCalls = append(f.tokenCalls, r.PostForm)

	if f.tokenStatus != 0 {
		w.WriteHeader(f.tokenStatus)
		_, _ = w.Write([]byte(f.tokenBody))
		return
	}

	f.issued++
	resp := map[string]any{
		"access_token": fmt.Sprintf("access-%d", f.issued),
		"token_type":   "Bearer",
	}
	if !f.noRefreshToken {
		resp["refresh_token"] = fmt.Sprintf("refresh-%d", f.issued)
	}
	if f.expiresIn > 0 {
		resp["expires_in"] = f.expiresIn
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeLinxPay) TokenCalls() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.tokenCalls...)
}

func (f *fakeLinxPay) APICalls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.apiCalls...)
}

func (f *fakeLinxPay) creds() Credentials {
	return Credentials{
		BaseURI:      f.URL,
		ClientID:     "pos-client",
		ClientSecret: "pos-secret",
		Username:     "budtender@shop",
		Password:     "hunter2",
	}
}

// respond writes status and body from an api handler.
func respond(w http.ResponseWriter, status int, body string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// validRedemption is a payload that passes every rule.
func validRedemption() Fields {
	return Fields{
		"linx_card_number": "123",
		"customer": Fields{
			"type":      "passport",
			"id_number": "X1",
			"country":   "US",
		},
		"product_type":   "medicinal",
		"store_location": Fields{"name": "Shop"},
		"budtender":      Fields{"name": "Bud"},
		"amount":         20,
	}
}
