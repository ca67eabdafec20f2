package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// VoyageProvider implements EmbeddingProvider against the Voyage AI API.
type VoyageProvider struct {
	APIKey string
	Model  string
	Client *http.Client
}

func NewVoyageProvider(apiKey string, model string) EmbeddingProvider {
	if model == "" {
		model = "voyage-2"
	}
	return &VoyageProvider{
		APIKey: apiKey,
		Model:  model,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type voyageEmbeddingRequest struct {
	Model     string `json:"model"`
	Input     string `json:"input"`
	InputType string `json:"input_type"`
}

type voyageEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (p *VoyageProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	inputType := "query"
	if taskType == "RETRIEVAL_DOCUMENT" {
		inputType = "document"
	}

	reqBody := voyageEmbeddingRequest{
		Model:     p.Model,
		Input:     text,
		InputType: inputType,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, "https://api.voyageai.com/v1/embeddings", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voyage embedding error: %s", string(bodyBytes))
	}

	var voyageResp voyageEmbeddingResponse
	if err := json.Unmarshal(bodyBytes, &voyageResp); err != nil {
		return nil, err
	}
	if len(voyageResp.Data) == 0 {
		return nil, fmt.Errorf("voyage embedding error: empty response")
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: voyageResp.Data[0].Embedding,
		},
	}, nil
}
