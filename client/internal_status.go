package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// InternalStatusClient talks to the internal-status endpoint, which
// switches the assistant's system instructions for municipality employees.
type InternalStatusClient struct {
	baseURL    string
	httpClient *http.Client
	csrfToken  string
}

// NewInternalStatusClient returns a client for the endpoint at baseURL.
func NewInternalStatusClient(baseURL string) *InternalStatusClient {
	return &InternalStatusClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

// WithCSRFToken sets the token sent in the X-CSRFTOKEN header.
func (c *InternalStatusClient) WithCSRFToken(token string) *InternalStatusClient {
	c.csrfToken = token
	return c
}

// SetInternalStatus declares the user's employment status to the server.
func (c *InternalStatusClient) SetInternalStatus(ctx context.Context, internal bool) error {
	body, err := json.Marshal(map[string]bool{"isInternal": internal})
	if err != nil {
		return &Error{Code: CodeInvalidResponse, Message: "Invalid response format"}
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return classify(ctx)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	if c.csrfToken != "" {
		httpRequest.Header.Set("X-CSRFTOKEN", c.csrfToken)
	}

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return classify(ctx)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		return &Error{Code: CodeAPIError, Message: "Failed to send message"}
	}
	return nil
}
