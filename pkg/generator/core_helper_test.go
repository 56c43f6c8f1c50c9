package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// parseToResponse のテスト
func TestGeminiImageCore_ParseToResponse(t *testing.T) {
	core := &GeminiImageCore{}
	seed := int64(999)

	t.Run("正常系: 最初のパーツの画像をそのまま返す", func(t *testing.T) {
		data := []byte{0x89, 'P', 'N', 'G', 0x00, 0xFF}
		out, err := core.parseToResponse(imageResponse("image/png", data), seed)

		require.NoError(t, err)
		assert.Equal(t, data, out.Data)
		assert.Equal(t, "image/png", out.MimeType)
		assert.Equal(t, seed, out.UsedSeed)
	})

	t.Run("MIME タイプが空なら image/png とみなす", func(t *testing.T) {
		out, err := core.parseToResponse(imageResponse("", []byte("x")), seed)

		require.NoError(t, err)
		assert.Equal(t, DefaultOutputMIMEType, out.MimeType)
	})

	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		wantErr error
		wantMsg string
	}{
		{
			name:    "nil レスポンス",
			resp:    nil,
			wantErr: ErrNoCandidates,
		},
		{
			name:    "candidates なし",
			resp:    &genai.GenerateContentResponse{},
			wantErr: ErrNoCandidates,
		},
		{
			name: "プロンプトがブロックされた",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			},
			wantErr: ErrNoCandidates,
			wantMsg: "BlockReason",
		},
		{
			name:    "Content なし",
			resp:    &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
			wantErr: ErrNoParts,
		},
		{
			name: "parts が空",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{}},
			}},
			wantErr: ErrNoParts,
		},
		{
			name: "安全フィルターで停止",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{FinishReason: genai.FinishReasonSafety},
			}},
			wantErr: ErrNoParts,
			wantMsg: "SAFETY",
		},
		{
			name: "最初のパーツがテキスト",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []*genai.Part{
					{Text: "just text"},
					{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("later")}},
				}}},
			}},
			wantErr: ErrNoInlineData,
		},
		{
			name: "InlineData が空",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: "image/png"}}}}},
			}},
			wantErr: ErrNoInlineData,
		},
	}

	for _, tt := range tests {
		t.Run("異常系: "+tt.name, func(t *testing.T) {
			out, err := core.parseToResponse(tt.resp, seed)

			assert.Nil(t, out)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestBuildConfig(t *testing.T) {
	cfg := buildConfig(GenerateOptions{})
	assert.Equal(t, []string{"IMAGE"}, cfg.ResponseModalities)
	assert.Nil(t, cfg.Seed)
	assert.Nil(t, cfg.ImageConfig)
}
