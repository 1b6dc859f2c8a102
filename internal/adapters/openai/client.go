package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// openai.go — cliente mínimo de chat completions.
//
// Un solo mensaje de usuario, sin streaming ni tools: el prompt de análisis
// es autocontenido y la respuesta es un objeto JSON. Implementa
// ports.Completer.

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "o1-mini"

	// El análisis de 200 listings tarda; el timeout cubre el peor caso
	// de razonamiento largo del modelo.
	completionTimeout = 90 * time.Second
)

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Client llama al endpoint de chat completions.
type Client struct {
	http  *resty.Client
	model string
}

// NewClient crea el cliente. baseURL vacío usa el API público; model vacío
// usa el modelo por defecto.
func NewClient(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(completionTimeout).
		SetAuthToken(apiKey)
	return &Client{http: http, model: model}
}

// Complete envía el prompt como único mensaje de usuario y devuelve el texto
// de la primera choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	var decoded chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&decoded).
		SetError(&decoded).
		ForceContentType("application/json").
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openai.Complete: %w", err)
	}

	if resp.StatusCode() != 200 {
		if decoded.Error != nil {
			return "", fmt.Errorf("openai.Complete: %s (%s)", decoded.Error.Message, decoded.Error.Type)
		}
		return "", fmt.Errorf("openai.Complete: status %d", resp.StatusCode())
	}

	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai.Complete: respuesta vacía del modelo")
	}
	return decoded.Choices[0].Message.Content, nil
}
