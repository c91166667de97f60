package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pvassist/pvassist/store"
)

// ChatRequest is the body of a chat send.
type ChatRequest struct {
	Prompt      string           `json:"prompt"`
	History     []*store.Message `json:"history"`
	ContextText string           `json:"context_text"`
}

type chatResponse struct {
	Response *string `json:"response"`
	Error    string  `json:"error"`
}

// ChatClient talks to the chat endpoint.
type ChatClient struct {
	baseURL    string
	httpClient *http.Client
	csrfToken  string
}

// NewChatClient returns a client for the chat endpoint at baseURL.
func NewChatClient(baseURL string) *ChatClient {
	return &ChatClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

// WithCSRFToken sets the token sent in the X-CSRFTOKEN header.
func (c *ChatClient) WithCSRFToken(token string) *ChatClient {
	c.csrfToken = token
	return c
}

// SendMessage posts a prompt and returns the assistant's reply. Failures
// follow the collaborator taxonomy; a cancelled ctx yields an ABORTED
// error the caller must treat as silent.
func (c *ChatClient) SendMessage(ctx context.Context, request *ChatRequest) (string, error) {
	if request.History == nil {
		request.History = []*store.Message{}
	}
	body, err := json.Marshal(request)
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

	var decoded chatResponse
	decodeErr := json.NewDecoder(httpResponse.Body).Decode(&decoded)

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		return "", &Error{Code: CodeAPIError, Message: "Failed to send message"}
	}
	if decodeErr != nil || decoded.Response == nil {
		return "", &Error{Code: CodeInvalidResponse, Message: "Invalid response format"}
	}
	return *decoded.Response, nil
}
