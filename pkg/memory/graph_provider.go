package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GraphProvider talks to a Zep-style memory graph service over HTTP.
type GraphProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

var _ Provider = &GraphProvider{}

func NewGraphProvider(baseURL, apiKey string) *GraphProvider {
	return &GraphProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type graphSearchRequest struct {
	UserId string `json:"user_id"`
	Limit  int    `json:"limit"`
}

type graphSearchResponse struct {
	Facts []struct {
		Fact string `json:"fact"`
	} `json:"facts"`
}

type graphMessageRequest struct {
	Role    string `json:"role_type"`
	Content string `json:"content"`
}

func (p *GraphProvider) SearchFacts(ctx context.Context, userId string) ([]string, error) {
	reqBody := graphSearchRequest{UserId: userId, Limit: 10}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/v2/graph/search", p.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	p.setHeaders(req)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil // unknown user, nothing known
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("memory graph search error: %s", string(bodyBytes))
	}

	var searchResp graphSearchResponse
	if err := json.Unmarshal(bodyBytes, &searchResp); err != nil {
		return nil, err
	}

	facts := make([]string, 0, len(searchResp.Facts))
	for _, f := range searchResp.Facts {
		if f.Fact != "" {
			facts = append(facts, f.Fact)
		}
	}
	return facts, nil
}

func (p *GraphProvider) AppendMessage(ctx context.Context, userId, role, text string) error {
	reqBody := graphMessageRequest{Role: role, Content: text}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v2/users/%s/messages", p.BaseURL, userId)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	p.setHeaders(req)

	resp, err := p.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("memory graph append error: %s", string(bodyBytes))
	}
	return nil
}

func (p *GraphProvider) Enabled() bool {
	return true
}

func (p *GraphProvider) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Api-Key "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")
}
