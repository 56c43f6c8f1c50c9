package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shouni/gemini-image-runner/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("成功: 参照画像なしならプロンプトだけを送るのだ", func(t *testing.T) {
		var seedVal int64 = 777
		req := domain.ImageGenerationRequest{
			Prompt:      "ずんだもん、走る",
			Model:       domain.ModelProImagePreview,
			AspectRatio: "1:1",
			Seed:        &seedVal,
		}

		core := &mockImageCore{
			prepareFunc: func(ctx context.Context, path string) (*genai.Part, error) {
				t.Error("参照画像なしで PrepareReferencePart が呼ばれたのだ")
				return nil, nil
			},
			executeFunc: func(ctx context.Context, model string, contents []*genai.Content, opts GenerateOptions) (*domain.ImageResponse, error) {
				assert.Equal(t, "gemini-3-pro-image-preview", model)
				require.Len(t, contents, 1)
				require.Len(t, contents[0].Parts, 1)
				assert.Equal(t, req.Prompt, contents[0].Parts[0].Text)
				assert.Equal(t, "1:1", opts.AspectRatio)
				assert.Equal(t, &seedVal, opts.Seed)
				return &domain.ImageResponse{Data: []byte("fake-png"), MimeType: "image/png", UsedSeed: seedVal}, nil
			},
		}

		gen, err := NewGeminiGenerator(core)
		require.NoError(t, err)
		resp, err := gen.Generate(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, seedVal, resp.UsedSeed)
	})

	t.Run("成功: 参照画像ありなら画像→テキストの順の1メッセージになるのだ", func(t *testing.T) {
		imgPart := &genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("ref")}}
		core := &mockImageCore{
			prepareFunc: func(ctx context.Context, path string) (*genai.Part, error) {
				assert.Equal(t, "ref.png", path)
				return imgPart, nil
			},
			executeFunc: func(ctx context.Context, model string, contents []*genai.Content, opts GenerateOptions) (*domain.ImageResponse, error) {
				assert.Equal(t, string(domain.DefaultModel), model)
				require.Len(t, contents, 1)
				assert.Equal(t, "user", contents[0].Role)
				require.Len(t, contents[0].Parts, 2)
				assert.Same(t, imgPart, contents[0].Parts[0])
				assert.Equal(t, "同じ構図で夜景に", contents[0].Parts[1].Text)
				return &domain.ImageResponse{Data: []byte("out")}, nil
			},
		}

		gen, _ := NewGeminiGenerator(core)
		_, err := gen.Generate(ctx, domain.ImageGenerationRequest{Prompt: "同じ構図で夜景に", ReferencePath: "ref.png"})

		require.NoError(t, err)
	})

	t.Run("失敗: 参照画像の読み込みエラーなら生成しないのだ", func(t *testing.T) {
		executed := false
		core := &mockImageCore{
			prepareFunc: func(ctx context.Context, path string) (*genai.Part, error) {
				return nil, ErrReferenceNotFound
			},
			executeFunc: func(ctx context.Context, model string, contents []*genai.Content, opts GenerateOptions) (*domain.ImageResponse, error) {
				executed = true
				return nil, nil
			},
		}

		gen, _ := NewGeminiGenerator(core)
		_, err := gen.Generate(ctx, domain.ImageGenerationRequest{Prompt: "p", ReferencePath: "missing.png"})

		assert.ErrorIs(t, err, ErrReferenceNotFound)
		assert.False(t, executed)
	})

	t.Run("失敗: 空のプロンプトは入力エラーなのだ", func(t *testing.T) {
		gen, _ := NewGeminiGenerator(&mockImageCore{})
		_, err := gen.Generate(ctx, domain.ImageGenerationRequest{Prompt: "   "})

		assert.ErrorIs(t, err, ErrEmptyPrompt)
		assert.True(t, IsInputError(err))
	})

	t.Run("失敗: 実行エラーが適切にラップされて返るのだ", func(t *testing.T) {
		expectedErr := errors.New("ai error")
		core := &mockImageCore{
			executeFunc: func(ctx context.Context, model string, contents []*genai.Content, opts GenerateOptions) (*domain.ImageResponse, error) {
				return nil, expectedErr
			},
		}

		gen, _ := NewGeminiGenerator(core)
		_, err := gen.Generate(ctx, domain.ImageGenerationRequest{Prompt: "p"})

		require.ErrorIs(t, err, expectedErr)
		assert.True(t, strings.Contains(err.Error(), "Gemini画像生成エラー"))
		assert.False(t, IsInputError(err))
	})
}

func TestNewGeminiGenerator(t *testing.T) {
	t.Run("nilチェック: 依存関係が足りない場合はエラーを返すのだ", func(t *testing.T) {
		_, err := NewGeminiGenerator(nil)
		assert.Error(t, err)
	})
}
