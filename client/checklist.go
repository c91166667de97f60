package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pvassist/pvassist/checklist"
)

type checklistResponse struct {
	Response *string `json:"response"`
	Error    string  `json:"error"`
}

// ChecklistClient talks to the checklist-to-text endpoint. It satisfies
// session.Converter.
type ChecklistClient struct {
	baseURL    string
	httpClient *http.Client
	csrfToken  string
}

// NewChecklistClient returns a client for the conversion endpoint at baseURL.
func NewChecklistClient(baseURL string) *ChecklistClient {
	return &ChecklistClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

// WithCSRFToken sets the token sent in the X-CSRFTOKEN header.
func (c *ChecklistClient) WithCSRFToken(token string) *ChecklistClient {
	c.csrfToken = token
	return c
}

// ConvertToText posts the payload and returns its textual rendering. An
// API-reported error message takes precedence over the generic one.
func (c *ChecklistClient) ConvertToText(ctx context.Context, payload *checklist.Payload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &Error{Code: CodeInvalidResponse, Message: "Invalid response format"}
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", classify(ctx)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	if c.csrfToken != "" {
		httpRequest.Header.Set("X-CSRFTOKEN", c.csrfToken)
	}

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return "", classify(ctx)
	}
	defer httpResponse.Body.Close()

	var decoded checklistResponse
	decodeErr := json.NewDecoder(httpResponse.Body).Decode(&decoded)

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		message := "Failed to convert checklist"
		if decodeErr == nil && decoded.Error != "" {
			message = decoded.Error
		}
		return "", &Error{Code: CodeAPIError, Message: message}
	}
	if decodeErr != nil || decoded.Response == nil {
		return "", &Error{Code: CodeInvalidResponse, Message: "Invalid response format"}
	}
	return *decoded.Response, nil
}
