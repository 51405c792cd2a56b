package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultTimeout = 10 * time.Second

	CheckerUserAgent = "DNC-Checker/1.0"
	RelayUserAgent   = "DNC-Checker-Proxy/1.0"

	numberQueryParam = "x"
)

// RestyLookupAPI issues lookup GETs with resty. Retries are owned by the
// caller, so the resty client never retries on its own.
type RestyLookupAPI struct {
	client    *resty.Client
	userAgent string
}

func NewRestyLookupAPI(timeout time.Duration, userAgent string) (*RestyLookupAPI, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New()
	client.SetTimeout(timeout)

	return NewRestyLookupAPIWithClient(client, userAgent)
}

func NewRestyLookupAPIWithClient(client *resty.Client, userAgent string) (*RestyLookupAPI, error) {
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = CheckerUserAgent
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(DefaultTimeout)
	}
	client.SetRetryCount(0)

	return &RestyLookupAPI{
		client:    client,
		userAgent: userAgent,
	}, nil
}

func (a *RestyLookupAPI) Fetch(ctx context.Context, endpoint Endpoint, number string) (*LookupResponse, error) {
	if a == nil || a.client == nil {
		return nil, fmt.Errorf("lookup api is not initialized")
	}
	if _, err := url.ParseRequestURI(endpoint.URL); err != nil {
		return nil, &ProviderError{
			Endpoint: endpoint.Name,
			Message:  "invalid endpoint url",
			Cause:    err,
		}
	}

	response, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", a.userAgent).
		SetQueryParam(numberQueryParam, number).
		Get(endpoint.URL)
	if err != nil {
		timeout := IsTimeout(err)
		message := "request failed"
		if timeout {
			message = fmt.Sprintf("timeout of %dms exceeded", a.client.GetClient().Timeout.Milliseconds())
		}
		return nil, &ProviderError{
			Endpoint:  endpoint.Name,
			Message:   message,
			Transient: !errors.Is(err, context.Canceled),
			Timeout:   timeout,
			Cause:     err,
		}
	}

	statusCode := response.StatusCode()
	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return &LookupResponse{
			StatusCode: statusCode,
			Body:       response.Body(),
		}, nil
	}

	return nil, &ProviderError{
		Endpoint:   endpoint.Name,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("Request failed with status code %d", statusCode),
		Transient:  isTransientHTTPStatus(statusCode),
	}
}

func isTransientHTTPStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || (statusCode >= http.StatusInternalServerError && statusCode <= 599)
}
