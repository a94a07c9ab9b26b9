package classify

import (
	"context"
	"time"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/credentials"
	"google.golang.org/genai"

	"github.com/agentstation/mapreview/pkg/constants"
	"github.com/agentstation/mapreview/pkg/errors"
)

// Model answers one prompt.
type Model interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// ModelConfig selects the Gemini backend. With Vertex unset the Gemini API
// is used and APIKey is required. With Vertex set, Application Default
// Credentials are used unless an APIKey is given.
type ModelConfig struct {
	Model    string
	APIKey   string
	Vertex   bool
	Project  string
	Location string
}

// GenAIModel is a Model backed by google.golang.org/genai.
type GenAIModel struct {
	client *genai.Client
	model  string
}

// NewGenAIModel creates a Gemini client for cfg.
func NewGenAIModel(ctx context.Context, cfg ModelConfig) (*GenAIModel, error) {
	if cfg.Model == "" {
		cfg.Model = constants.DefaultGeminiModel
	}

	var config *genai.ClientConfig
	if cfg.Vertex {
		if cfg.Project == "" {
			return nil, errors.NewConfigError("gemini-vertex", "project ID not configured - set GOOGLE_CLOUD_PROJECT", nil)
		}
		config = &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.Project,
			Location: cfg.Location,
			APIKey:   cfg.APIKey,
		}
		if cfg.APIKey == "" {
			creds, err := detectCredentials(ctx)
			if err != nil {
				return nil, errors.NewConfigError("gemini-vertex", "no application default credentials", err)
			}
			config.Credentials = creds
		}
	} else {
		if cfg.APIKey == "" {
			return nil, errors.NewConfigError("gemini", "GEMINI_API_KEY is not set", nil)
		}
		config = &genai.ClientConfig{
			Backend: genai.BackendGeminiAPI,
			APIKey:  cfg.APIKey,
		}
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, errors.NewConfigError("gemini", "failed to create client", err)
	}
	return &GenAIModel{client: client, model: cfg.Model}, nil
}

// detectCredentials looks up Application Default Credentials. The lookup
// ignores contexts, so it runs with its own deadline.
func detectCredentials(ctx context.Context) (*auth.Credentials, error) {
	type result struct {
		creds *auth.Credentials
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		creds, err := credentials.DetectDefault(&credentials.DetectOptions{
			Scopes: []string{"https://www.googleapis.com/auth/cloud-platform"},
		})
		ch <- result{creds, err}
	}()

	select {
	case r := <-ch:
		return r.creds, r.err
	case <-time.After(5 * time.Second):
		return nil, errors.ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Generate implements Model.
func (m *GenAIModel) Generate(ctx context.Context, system, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	})
	if err != nil {
		return "", errors.WrapAPI("gemini", m.model, err)
	}
	return resp.Text(), nil
}
