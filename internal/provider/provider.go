package provider

import (
	"context"
	"encoding/json"
	"fmt"
)

// Endpoint names in fallback order.
const (
	EndpointTCPA    = "tcpa"
	EndpointPerson  = "person"
	EndpointPremium = "premium"
	EndpointReport  = "report"
)

// Endpoint is a named upstream lookup service.
type Endpoint struct {
	Name string
	URL  string
}

// LookupAPI is the outbound port for a single upstream lookup.
type LookupAPI interface {
	Fetch(ctx context.Context, endpoint Endpoint, number string) (*LookupResponse, error)
}

// LookupResponse is a successful (2xx) upstream answer.
type LookupResponse struct {
	StatusCode int
	Body       []byte
}

// Payload decodes the body as a JSON object. Valid JSON that is not an
// object yields an empty payload.
func (r *LookupResponse) Payload() (map[string]any, error) {
	if r == nil {
		return nil, fmt.Errorf("empty response")
	}

	var decoded any
	if err := json.Unmarshal(r.Body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	payload, ok := decoded.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return payload, nil
}

// ResolveEndpoint picks the endpoint whose name matches exactly and falls back
// to the first one for any other name.
func ResolveEndpoint(endpoints []Endpoint, name string) (Endpoint, bool) {
	if len(endpoints) == 0 {
		return Endpoint{}, false
	}

	for _, endpoint := range endpoints {
		if endpoint.Name == name {
			return endpoint, true
		}
	}
	return endpoints[0], true
}
