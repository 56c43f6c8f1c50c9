package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/shouni/gemini-image-runner/pkg/config"
	"github.com/shouni/gemini-image-runner/pkg/domain"
	"github.com/shouni/gemini-image-runner/pkg/generator"
	"github.com/shouni/gemini-image-runner/pkg/logging"
	"github.com/shouni/gemini-image-runner/pkg/runner"
	"github.com/shouni/gemini-image-runner/pkg/storage"
)

const promptPreviewLength = 100

var (
	titleStyle   = color.New(color.Bold)
	successStyle = color.New(color.FgGreen)
	errorStyle   = color.New(color.FgRed)
	labelStyle   = color.New(color.FgCyan)
)

// GeneratorFactory は設定から ImageGenerator を作成します。テストでは差し替えます。
type GeneratorFactory func(ctx context.Context, cfg config.Config) (generator.ImageGenerator, error)

// App は CLI の入出力と依存関係です。
type App struct {
	Stdout       io.Writer
	Stderr       io.Writer
	NewGenerator GeneratorFactory
	// EnvFiles は godotenv で読み込む .env ファイルです。空ならカレントの .env を試します。
	EnvFiles []string
}

type options struct {
	prompt            string
	model             string
	output            string
	reference         string
	aspectRatio       string
	seed              int64
	configPath        string
	compressReference bool
}

// Execute は os.Args でコマンドを実行し、プロセスの終了コードを返します。
func Execute() int {
	app := &App{Stdout: os.Stdout, Stderr: os.Stderr, NewGenerator: NewGeminiGenerator}
	return app.Run(context.Background(), os.Args[1:])
}

// Run は args でコマンドを実行します。
// 設定エラーと入力エラーは 1 を返し、生成 API 側の失敗は診断を表示したうえで 0 を返します。
func (a *App) Run(ctx context.Context, args []string) int {
	if args == nil {
		// nil だと cobra が os.Args を読みにいく
		args = []string{}
	}
	cmd := a.NewRootCommand()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		errorStyle.Fprintf(a.Stderr, "エラー: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand はサブコマンドを持たないルートコマンドを作成します。
func (a *App) NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "gemini-image",
		Short: "Gemini API を使って画像を1枚生成します",
		Long: `プロンプト（と任意の参照画像）を Gemini API に送り、返ってきた最初の画像を output/ に保存します。

使用例:
  gemini-image --prompt "A luxury lip tint product from APR brand"
  gemini-image --prompt "Create a minimalist logo" --model gemini-3-pro-image-preview
  gemini-image --prompt "Modern office space" --output office.png
  gemini-image --prompt "Same product at night" --reference product.png`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, opts)
		},
	}
	cmd.SetOut(a.Stdout)
	cmd.SetErr(a.Stderr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.prompt, "prompt", "p", "", "画像生成のためのプロンプト（必須）")
	flags.StringVarP(&opts.model, "model", "m", "", fmt.Sprintf("使用する Gemini モデル (%s, 既定: %s)", domain.JoinModels(", "), domain.DefaultModel))
	flags.StringVarP(&opts.output, "output", "o", domain.DefaultOutputName, "出力ファイル名")
	flags.StringVarP(&opts.reference, "reference", "r", "", "参照する画像ファイルのパス（任意）")
	flags.StringVar(&opts.aspectRatio, "aspect-ratio", "", "アスペクト比 (例: 1:1, 16:9)")
	flags.Int64Var(&opts.seed, "seed", 0, "シード値（指定時のみ送信）")
	flags.StringVar(&opts.configPath, "config", "", "YAML 設定ファイルのパス")
	flags.BoolVar(&opts.compressReference, "compress-reference", false, "参照画像を JPEG に圧縮してから送信する")
	_ = cmd.MarkFlagRequired("prompt")
	_ = cmd.RegisterFlagCompletionFunc("model", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(domain.SupportedModels))
		for i, m := range domain.SupportedModels {
			names[i] = m.String()
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (a *App) run(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()

	cfg, err := config.Load(config.LoadOptions{ConfigPath: opts.configPath, EnvFiles: a.EnvFiles})
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("model") {
		m, err := domain.ParseModel(opts.model)
		if err != nil {
			return err
		}
		cfg.Model = m
	}
	if opts.compressReference {
		cfg.CompressReference = true
	}

	logger := logging.New(a.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	req := domain.ImageGenerationRequest{
		Prompt:        opts.prompt,
		Model:         cfg.Model,
		OutputName:    opts.output,
		ReferencePath: opts.reference,
		AspectRatio:   opts.aspectRatio,
	}
	if cmd.Flags().Changed("seed") {
		seed := opts.seed
		req.Seed = &seed
	}

	// クライアント作成より前に認証情報を確認する
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.printBanner(req)

	gen, err := a.NewGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	r, err := runner.New(cfg, gen, storage.NewLocalWriter(cfg.OutputDir), logger)
	if err != nil {
		return err
	}

	img, err := r.Generate(ctx, req)
	if err != nil {
		if runner.IsFatal(err) {
			return err
		}
		errorStyle.Fprintf(a.Stdout, "エラー: %v\n", err)
		return nil
	}

	successStyle.Fprintf(a.Stdout, "\n✓ 画像が生成されました: %s\n", img.Path)
	fmt.Fprintf(a.Stdout, "  ファイルサイズ: %.2f KB\n", img.SizeKB())
	return nil
}

func (a *App) printBanner(req domain.ImageGenerationRequest) {
	titleStyle.Fprintln(a.Stdout, "=== Gemini Image Generation ===")
	fmt.Fprintln(a.Stdout)
	fmt.Fprintln(a.Stdout, "画像を生成しています...")
	labelStyle.Fprint(a.Stdout, "モデル: ")
	fmt.Fprintln(a.Stdout, req.Model)
	labelStyle.Fprint(a.Stdout, "プロンプト: ")
	fmt.Fprintln(a.Stdout, previewPrompt(req.Prompt))
	if req.ReferencePath != "" {
		labelStyle.Fprint(a.Stdout, "参照画像: ")
		fmt.Fprintln(a.Stdout, req.ReferencePath)
	}
}

func previewPrompt(prompt string) string {
	runes := []rune(prompt)
	if len(runes) <= promptPreviewLength {
		return prompt
	}
	return strings.TrimSpace(string(runes[:promptPreviewLength])) + "..."
}

// NewGeminiGenerator は Gemini API バックエンドの genai クライアントから ImageGenerator を作成します。
func NewGeminiGenerator(ctx context.Context, cfg config.Config) (generator.ImageGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini クライアントの作成に失敗しました: %w", err)
	}

	core, err := generator.NewGeminiImageCore(client.Models, generator.CoreOptions{
		ReferenceMIMEType: cfg.ReferenceMIMEType,
		CompressReference: cfg.CompressReference,
		JPEGQuality:       cfg.JPEGQuality,
	})
	if err != nil {
		return nil, err
	}
	gen, err := generator.NewGeminiGenerator(core)
	if err != nil {
		return nil, err
	}
	return gen, nil
}
