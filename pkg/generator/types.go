package generator

import (
	"errors"
)

const (
	DefaultReferenceMIMEType = "image/png"
	DefaultOutputMIMEType    = "image/png"
	DefaultJPEGQuality       = 75

	responseModalityImage = "IMAGE"
)

// 入力エラー。ネットワーク呼び出しの前に検出されます。
var (
	ErrEmptyPrompt         = errors.New("プロンプトが指定されていません")
	ErrReferenceNotFound   = errors.New("参照画像が見つかりません")
	ErrReferenceUnreadable = errors.New("参照画像を読み込めません")
)

// レスポンス解析エラー。
var (
	ErrNoCandidates = errors.New("応答に candidates がありません")
	ErrNoParts      = errors.New("応答に parts がありません")
	ErrNoInlineData = errors.New("画像データが見つかりませんでした")
)

// IsInputError は err がリクエスト送信前に検出された入力エラーかどうかを返します。
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyPrompt) ||
		errors.Is(err, ErrReferenceNotFound) ||
		errors.Is(err, ErrReferenceUnreadable)
}

// ImageOutput は Core の内部解析結果
type ImageOutput struct {
	Data     []byte
	MimeType string
	UsedSeed int64
}

// GenerateOptions はリクエストごとの生成パラメータです。
type GenerateOptions struct {
	AspectRatio string
	Seed        *int64
}

// CoreOptions は参照画像の扱いを決める GeminiImageCore の設定です。
type CoreOptions struct {
	// ReferenceMIMEType は参照画像パーツに付与する固定の MIME タイプです。
	ReferenceMIMEType string
	// CompressReference が true の場合、参照画像を JPEG に再エンコードしてから送信します。
	CompressReference bool
	JPEGQuality       int
}

func (o CoreOptions) withDefaults() CoreOptions {
	if o.ReferenceMIMEType == "" {
		o.ReferenceMIMEType = DefaultReferenceMIMEType
	}
	if o.JPEGQuality <= 0 {
		o.JPEGQuality = DefaultJPEGQuality
	}
	return o
}
