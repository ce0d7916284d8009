package stripe

import "fmt"

// LineItem is one priced line of a checkout session. UnitAmount is in the
// smallest currency unit (cents).
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int
}

// SessionRequest represents the parameters for creating a checkout session
type SessionRequest struct {
	LineItems []LineItem
	Metadata  map[string]string

	// SuccessURL and CancelURL override the configured defaults when set
	SuccessURL string
	CancelURL  string
}

// SessionResponse represents a created checkout session
type SessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// apiError is the error object Stripe returns on non-2xx responses
type apiError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResponse wraps Stripe's error envelope
type errorResponse struct {
	Error apiError `json:"error"`
}

func (e *apiError) String() string {
	return fmt.Sprintf("stripe error: type=%s, code=%s, msg=%s", e.Type, e.Code, e.Message)
}
