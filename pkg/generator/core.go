package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-image-runner/pkg/domain"
	"github.com/shouni/gemini-image-runner/pkg/imgutil"
	"google.golang.org/genai"
)

// GeminiImageCore はリクエスト実行と参照画像の準備を担う基盤クラスです。
type GeminiImageCore struct {
	models ContentGenerator
	opts   CoreOptions
}

// NewGeminiImageCore は依存関係を注入して GeminiImageCore を初期化します。
func NewGeminiImageCore(models ContentGenerator, opts CoreOptions) (*GeminiImageCore, error) {
	if models == nil {
		return nil, fmt.Errorf("models (ContentGenerator) is required")
	}
	return &GeminiImageCore{
		models: models,
		opts:   opts.withDefaults(),
	}, nil
}

// ExecuteRequest は画像のみを出力モダリティとして generateContent を1回だけ呼び出し、
// 最初の候補の最初のパーツに含まれる画像を返します。
func (c *GeminiImageCore) ExecuteRequest(ctx context.Context, model string, contents []*genai.Content, opts GenerateOptions) (*domain.ImageResponse, error) {
	resp, err := c.models.GenerateContent(ctx, model, contents, buildConfig(opts))
	if err != nil {
		return nil, err
	}

	out, err := c.parseToResponse(resp, dereferenceSeed(opts.Seed))
	if err != nil {
		return nil, err
	}

	return &domain.ImageResponse{
		Data:     out.Data,
		MimeType: out.MimeType,
		UsedSeed: out.UsedSeed,
	}, nil
}

// PrepareReferencePart は参照画像ファイルを読み込み、固定 MIME タイプの InlineData パーツにします。
// CompressReference が有効な場合は JPEG へ再エンコードし、失敗したときは元データのまま送信します。
func (c *GeminiImageCore) PrepareReferencePart(ctx context.Context, path string) (*genai.Part, error) {
	data, err := readReference(path)
	if err != nil {
		return nil, err
	}

	mimeType := c.opts.ReferenceMIMEType
	if format, err := imgutil.Format(data); err != nil {
		slog.WarnContext(ctx, "参照画像のフォーマットを判別できませんでした。そのまま送信します", "path", path, "error", err)
	} else {
		slog.DebugContext(ctx, "参照画像を読み込みました", "path", path, "format", format, "bytes", len(data))
	}

	if c.opts.CompressReference {
		if compressed, err := imgutil.CompressToJPEG(data, c.opts.JPEGQuality); err == nil {
			data = compressed
			mimeType = imgutil.MIMETypeJPEG
		} else {
			slog.WarnContext(ctx, "参照画像の圧縮に失敗しました。元データで続行します", "path", path, "error", err)
		}
	}

	return c.toPart(data, mimeType), nil
}
