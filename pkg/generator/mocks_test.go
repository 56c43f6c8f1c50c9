package generator

import (
	"context"

	"github.com/shouni/gemini-image-runner/pkg/domain"
	"google.golang.org/genai"
)

// --- Mocks ---

// mockModels は ContentGenerator のテスト用モックです。
type mockModels struct {
	calls      int
	lastModel  string
	lastConfig *genai.GenerateContentConfig
	lastInput  []*genai.Content
	resp       *genai.GenerateContentResponse
	err        error
}

func (m *mockModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	m.lastModel = model
	m.lastInput = contents
	m.lastConfig = config
	return m.resp, m.err
}

// mockImageCore は ImageExecutor のテスト用モックなのだ。
type mockImageCore struct {
	prepareFunc func(ctx context.Context, path string) (*genai.Part, error)
	executeFunc func(ctx context.Context, model string, contents []*genai.Content, opts GenerateOptions) (*domain.ImageResponse, error)
}

func (m *mockImageCore) PrepareReferencePart(ctx context.Context, path string) (*genai.Part, error) {
	if m.prepareFunc != nil {
		return m.prepareFunc(ctx, path)
	}
	return nil, nil
}

func (m *mockImageCore) ExecuteRequest(ctx context.Context, model string, contents []*genai.Content, opts GenerateOptions) (*domain.ImageResponse, error) {
	if m.executeFunc != nil {
		return m.executeFunc(ctx, model, contents, opts)
	}
	return nil, nil
}

func imageResponse(mimeType string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}},
			},
		}},
	}
}
