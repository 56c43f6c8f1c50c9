package generator

import (
	"context"

	"github.com/shouni/gemini-image-runner/pkg/domain"
	"google.golang.org/genai"
)

// ContentGenerator は Gemini の generateContent 呼び出しを抽象化します。
// *genai.Models がこのインターフェースを満たします。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ImageGenerator は Runner が利用する統合窓口です。
type ImageGenerator interface {
	Generate(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error)
}

// ImageExecutor は、画像生成リクエストを処理し、画像関連データを準備するためのメソッドを定義するインターフェースです。
type ImageExecutor interface {
	// ExecuteRequest は、組み立て済みのコンテンツで画像生成リクエストを1回だけ実行し、結果を返します。
	ExecuteRequest(ctx context.Context, model string, contents []*genai.Content, opts GenerateOptions) (*domain.ImageResponse, error)
	// PrepareReferencePart は、ローカルの参照画像ファイルから InlineData パーツを作成します。
	PrepareReferencePart(ctx context.Context, path string) (*genai.Part, error)
}
