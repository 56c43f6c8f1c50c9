package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-image-runner/pkg/domain"
	"google.golang.org/genai"
)

// GeminiGenerator はテキストのみ、またはテキスト＋参照画像から1枚の画像を生成するジェネレーターです。
type GeminiGenerator struct {
	imgCore ImageExecutor
}

// NewGeminiGenerator は GeminiGenerator を初期化するのだ。
func NewGeminiGenerator(core ImageExecutor) (*GeminiGenerator, error) {
	if core == nil {
		return nil, fmt.Errorf("core (ImageExecutor) is required")
	}
	return &GeminiGenerator{imgCore: core}, nil
}

// Generate はリクエストからコンテンツを組み立て、1回だけ生成を実行するのだ。
// 参照画像がある場合は [画像, プロンプト] の順の単一メッセージ、ない場合はプロンプトのみを送るのだ。
func (g *GeminiGenerator) Generate(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	model := req.Model
	if model == "" {
		model = domain.DefaultModel
	}

	contents, err := g.buildContents(ctx, req)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Geminiに画像生成をリクエストします",
		"model", model,
		"reference", req.ReferencePath != "",
		"aspect_ratio", req.AspectRatio,
	)

	resp, err := g.imgCore.ExecuteRequest(ctx, model.String(), contents, GenerateOptions{
		AspectRatio: req.AspectRatio,
		Seed:        req.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini画像生成エラー: %w", err)
	}
	return resp, nil
}

func (g *GeminiGenerator) buildContents(ctx context.Context, req domain.ImageGenerationRequest) ([]*genai.Content, error) {
	if req.ReferencePath == "" {
		return genai.Text(req.Prompt), nil
	}

	imgPart, err := g.imgCore.PrepareReferencePart(ctx, req.ReferencePath)
	if err != nil {
		return nil, err
	}
	parts := []*genai.Part{imgPart, genai.NewPartFromText(req.Prompt)}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil
}
