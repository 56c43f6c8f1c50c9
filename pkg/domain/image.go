package domain

import (
	"fmt"
	"strings"
)

// Model は画像生成に利用できる Gemini モデルの識別子です。
type Model string

const (
	// ModelFlashImage は既定のモデルです。
	ModelFlashImage Model = "gemini-2.5-flash-image"
	// ModelProImagePreview は高品質なプレビューモデルです。
	ModelProImagePreview Model = "gemini-3-pro-image-preview"

	DefaultModel      = ModelFlashImage
	DefaultOutputName = "generated_image.png"
)

// SupportedModels は CLI で選択可能なモデルの一覧です。
var SupportedModels = []Model{ModelFlashImage, ModelProImagePreview}

func (m Model) String() string { return string(m) }

// ParseModel は文字列をサポート済みの Model に変換します。
// 空文字の場合は DefaultModel を返します。
func ParseModel(s string) (Model, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultModel, nil
	}
	for _, m := range SupportedModels {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("未対応のモデルです: %q (選択肢: %s)", s, JoinModels(", "))
}

// JoinModels はサポート済みモデル名を sep で連結します。
func JoinModels(sep string) string {
	names := make([]string, len(SupportedModels))
	for i, m := range SupportedModels {
		names[i] = string(m)
	}
	return strings.Join(names, sep)
}

// ImageGenerationRequest は単一の画像生成要求です。
type ImageGenerationRequest struct {
	Prompt        string
	Model         Model
	OutputName    string
	ReferencePath string // 空なら参照画像なし
	AspectRatio   string
	Seed          *int64 // nil でランダム
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
	UsedSeed int64 // 戻り値は情報欠落を防ぐため int64
}

// GeneratedImage はディスクに保存された生成結果です。
type GeneratedImage struct {
	Path     string
	Size     int
	MimeType string
	UsedSeed int64
}

// SizeKB は表示用のキロバイト単位のサイズです。
func (g GeneratedImage) SizeKB() float64 {
	return float64(g.Size) / 1024
}
