package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"google.golang.org/genai"
)

func buildConfig(opts GenerateOptions) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{responseModalityImage},
	}
	if opts.Seed != nil {
		config.Seed = seedToPtrInt32(opts.Seed)
	}
	if opts.AspectRatio != "" {
		config.ImageConfig = &genai.ImageConfig{AspectRatio: opts.AspectRatio}
	}
	return config
}

func readReference(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrReferenceNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrReferenceUnreadable, path, err)
	}
	return data, nil
}

func (c *GeminiImageCore) toPart(data []byte, mimeType string) *genai.Part {
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}
}

// parseToResponse は最初の候補 → 最初のパーツ → InlineData の順に辿ります。
// どの段階が欠けていてもエラーを返し、その他のパーツは見ません。
func (c *GeminiImageCore) parseToResponse(resp *genai.GenerateContentResponse, seed int64) (*ImageOutput, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("%w (BlockReason: %s)", ErrNoCandidates, resp.PromptFeedback.BlockReason)
		}
		return nil, ErrNoCandidates
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, withFinishReason(ErrNoParts, candidate.FinishReason)
	}

	part := candidate.Content.Parts[0]
	if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
		return nil, withFinishReason(ErrNoInlineData, candidate.FinishReason)
	}

	mimeType := part.InlineData.MIMEType
	if mimeType == "" {
		mimeType = DefaultOutputMIMEType
	}
	return &ImageOutput{Data: part.InlineData.Data, MimeType: mimeType, UsedSeed: seed}, nil
}

// withFinishReason は安全フィルター等による異常終了の理由をエラーに付け加えます。
func withFinishReason(err error, reason genai.FinishReason) error {
	if reason == "" || reason == genai.FinishReasonUnspecified || reason == genai.FinishReasonStop {
		return err
	}
	return fmt.Errorf("%w (FinishReason: %s)", err, reason)
}
