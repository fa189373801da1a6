package linxpay

import "net/http"

// EndpointSpec describes one LinxPay operation: where it lives, how it is called
// and which top-level payload keys must be present.
type EndpointSpec struct {
	Name   string
	Method string
	Path   string

	required []string
}

// NewEndpointSpec builds a descriptor for an operation.
func NewEndpointSpec(name, method, path string, required ...string) EndpointSpec {
	return EndpointSpec{
		Name:     name,
		Method:   method,
		Path:     path,
		required: append([]string(nil), required...),
	}
}

// RequiredFields returns a copy of the operation's required keys.
func (s EndpointSpec) RequiredFields() []string {
	return append([]string(nil), s.required...)
}

var (
	// PollEndpoint: GET /api/v1/poll
	PollEndpoint = NewEndpointSpec("poll", http.MethodGet, "/api/v1/poll")

	// RedemptionEndpoint: POST /api/v1/redemptions/redemption
	RedemptionEndpoint = NewEndpointSpec("redemption", http.MethodPost, "/api/v1/redemptions/redemption",
		"linx_card_number",
		"customer",
		"product_type",
		"store_location",
		"budtender",
		"amount",
	)
)
