package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
)

func TestRestyLookupAPIFetchSuccess(t *testing.T) {
	t.Parallel()

	var gotQuery, gotUserAgent, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		gotQuery = r.URL.RawQuery
		gotUserAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"Valid","dnc":false}`))
	}))
	defer server.Close()

	api, err := NewRestyLookupAPI(time.Second, CheckerUserAgent)
	if err != nil {
		t.Fatalf("NewRestyLookupAPI() error = %v", err)
	}

	resp, err := api.Fetch(context.Background(), Endpoint{Name: EndpointTCPA, URL: server.URL + "/tcpa/v1"}, "+12345678901")
	if err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}

	if gotQuery != "x=%2B12345678901" {
		t.Fatalf("query = %q, want x=%%2B12345678901", gotQuery)
	}
	if gotUserAgent != CheckerUserAgent {
		t.Fatalf("User-Agent = %q, want %q", gotUserAgent, CheckerUserAgent)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("StatusCode = %d, want 200", resp.StatusCode)
	}

	payload, err := resp.Payload()
	if err != nil {
		t.Fatalf("Payload() error = %v", err)
	}
	if payload["status"] != "Valid" {
		t.Fatalf("payload status = %v, want Valid", payload["status"])
	}
}

func TestRestyLookupAPIFetchStatusClassification(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		statusCode    int
		wantTransient bool
	}{
		{name: "too many requests is transient", statusCode: http.StatusTooManyRequests, wantTransient: true},
		{name: "not found is permanent", statusCode: http.StatusNotFound, wantTransient: false},
		{name: "bad gateway is transient", statusCode: http.StatusBadGateway, wantTransient: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
			}))
			defer server.Close()

			api, err := NewRestyLookupAPI(time.Second, RelayUserAgent)
			if err != nil {
				t.Fatalf("NewRestyLookupAPI() error = %v", err)
			}

			_, err = api.Fetch(context.Background(), Endpoint{Name: EndpointPerson, URL: server.URL}, "+12345678901")
			if err == nil {
				t.Fatal("expected error")
			}

			if got := IsTransient(err); got != tc.wantTransient {
				t.Fatalf("IsTransient() = %v, want %v", got, tc.wantTransient)
			}

			var providerErr *ProviderError
			if !errors.As(err, &providerErr) {
				t.Fatalf("expected ProviderError, got %T", err)
			}
			if providerErr.StatusCode != tc.statusCode {
				t.Fatalf("StatusCode = %d, want %d", providerErr.StatusCode, tc.statusCode)
			}
			if providerErr.Endpoint != EndpointPerson {
				t.Fatalf("Endpoint = %q, want %q", providerErr.Endpoint, EndpointPerson)
			}
		})
	}
}

func TestRestyLookupAPIFetchTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := resty.New()
	client.SetTimeout(30 * time.Millisecond)

	api, err := NewRestyLookupAPIWithClient(client, "")
	if err != nil {
		t.Fatalf("NewRestyLookupAPIWithClient() error = %v", err)
	}

	_, err = api.Fetch(context.Background(), Endpoint{Name: EndpointTCPA, URL: server.URL}, "+12345678901")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !IsTimeout(err) {
		t.Fatalf("IsTimeout() = false (err=%v)", err)
	}
	if !IsTransient(err) {
		t.Fatalf("IsTransient() = false (err=%v)", err)
	}
	if !strings.HasPrefix(err.Error(), "timeout of 30ms exceeded") {
		t.Fatalf("error = %q, want timeout message", err.Error())
	}
}

func TestRestyLookupAPIFetchInvalidEndpoint(t *testing.T) {
	t.Parallel()

	api, err := NewRestyLookupAPI(0, CheckerUserAgent)
	if err != nil {
		t.Fatalf("NewRestyLookupAPI() error = %v", err)
	}

	_, err = api.Fetch(context.Background(), Endpoint{Name: "broken", URL: "not a url"}, "+12345678901")
	if err == nil {
		t.Fatal("expected error for invalid url")
	}
	if IsTransient(err) {
		t.Fatal("invalid endpoint url should not be transient")
	}
}

func TestLookupResponsePayload(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		body    string
		wantLen int
		wantErr bool
	}{
		{name: "object", body: `{"dnc":true,"status":"valid"}`, wantLen: 2},
		{name: "array is empty payload", body: `[1,2]`, wantLen: 0},
		{name: "null is empty payload", body: `null`, wantLen: 0},
		{name: "html is an error", body: `<html></html>`, wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			payload, err := (&LookupResponse{Body: []byte(tc.body)}).Payload()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Payload() error = %v", err)
			}
			if len(payload) != tc.wantLen {
				t.Fatalf("len(payload) = %d, want %d", len(payload), tc.wantLen)
			}
		})
	}
}

func TestResolveEndpoint(t *testing.T) {
	t.Parallel()

	endpoints := []Endpoint{
		{Name: EndpointTCPA, URL: "http://a"},
		{Name: EndpointPerson, URL: "http://b"},
		{Name: EndpointPremium, URL: "http://c"},
	}

	testCases := []struct {
		input string
		want  string
	}{
		{input: "person", want: EndpointPerson},
		{input: "premium", want: EndpointPremium},
		{input: "PREMIUM", want: EndpointTCPA},
		{input: " person ", want: EndpointTCPA},
		{input: "report", want: EndpointTCPA},
		{input: "", want: EndpointTCPA},
	}

	for _, tc := range testCases {
		got, ok := ResolveEndpoint(endpoints, tc.input)
		if !ok {
			t.Fatalf("ResolveEndpoint(%q) not ok", tc.input)
		}
		if got.Name != tc.want {
			t.Fatalf("ResolveEndpoint(%q) = %q, want %q", tc.input, got.Name, tc.want)
		}
	}

	if _, ok := ResolveEndpoint(nil, "tcpa"); ok {
		t.Fatal("ResolveEndpoint(nil) should not be ok")
	}
}
