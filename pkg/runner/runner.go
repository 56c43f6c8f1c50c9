package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-image-runner/pkg/config"
	"github.com/shouni/gemini-image-runner/pkg/domain"
	"github.com/shouni/gemini-image-runner/pkg/generator"
	"github.com/shouni/gemini-image-runner/pkg/storage"
)

// ErrGenerationFailed は通信・レスポンス解析・保存のいずれかで失敗したことを表します。
// 診断ログは Runner 内で出力済みなので、呼び出し側はプロセスを異常終了させる必要はありません。
var ErrGenerationFailed = errors.New("画像生成に失敗しました")

// ImageWriter は生成画像の保存先です。
type ImageWriter interface {
	Save(name string, data []byte) (string, error)
}

// ImageRequestRunner は1回の起動につき1回だけ画像生成を行い、結果をファイルに保存します。
type ImageRequestRunner struct {
	cfg    config.Config
	gen    generator.ImageGenerator
	writer ImageWriter
	logger *slog.Logger
}

// New は依存関係を注入して ImageRequestRunner を初期化します。logger が nil なら slog.Default() を使います。
func New(cfg config.Config, gen generator.ImageGenerator, writer ImageWriter, logger *slog.Logger) (*ImageRequestRunner, error) {
	if gen == nil {
		return nil, fmt.Errorf("gen (ImageGenerator) is required")
	}
	if writer == nil {
		return nil, fmt.Errorf("writer (ImageWriter) is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageRequestRunner{cfg: cfg, gen: gen, writer: writer, logger: logger}, nil
}

// Generate は req を検証し、生成 API を1回呼び出して最初の画像を保存します。
//
// 設定エラー（config.ErrMissingAPIKey）と入力エラー（generator.IsInputError, storage.ErrInvalidName）は
// 通信前にそのまま返します。それ以外の失敗は診断ログを出したうえで ErrGenerationFailed を返し、
// ファイルは作成されません。
func (r *ImageRequestRunner) Generate(ctx context.Context, req domain.ImageGenerationRequest) (*domain.GeneratedImage, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	if req.Model == "" {
		req.Model = r.cfg.Model
	}
	if req.OutputName == "" {
		req.OutputName = domain.DefaultOutputName
	}
	if err := storage.ValidateName(req.OutputName); err != nil {
		return nil, err
	}

	resp, err := r.gen.Generate(ctx, req)
	if err != nil {
		if generator.IsInputError(err) {
			return nil, err
		}
		return nil, r.fail(ctx, "画像生成中にエラーが発生しました", err)
	}

	path, err := r.writer.Save(req.OutputName, resp.Data)
	if err != nil {
		return nil, r.fail(ctx, "画像の保存に失敗しました", err)
	}

	img := &domain.GeneratedImage{
		Path:     path,
		Size:     len(resp.Data),
		MimeType: resp.MimeType,
		UsedSeed: resp.UsedSeed,
	}
	r.logger.InfoContext(ctx, "画像が生成されました",
		"path", img.Path,
		"size_kb", fmt.Sprintf("%.2f", img.SizeKB()),
		"mime_type", img.MimeType,
	)
	return img, nil
}

func (r *ImageRequestRunner) fail(ctx context.Context, msg string, err error) error {
	r.logger.ErrorContext(ctx, msg, "error", err)
	return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
}

// IsFatal は err がプロセスを異常終了させるべき設定・入力エラーかどうかを返します。
func IsFatal(err error) bool {
	if err == nil || errors.Is(err, ErrGenerationFailed) {
		return false
	}
	return true
}
