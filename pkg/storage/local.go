package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidName は出力ファイル名が不正な場合のエラーです。
var ErrInvalidName = errors.New("出力ファイル名が不正です")

// LocalWriter は生成画像を固定ディレクトリ配下に保存します。
type LocalWriter struct {
	Dir string
}

// NewLocalWriter は dir を出力先とする LocalWriter を返します。
func NewLocalWriter(dir string) *LocalWriter {
	return &LocalWriter{Dir: dir}
}

// Save は data を Dir/name に書き込み、書き込んだパスを返します。
// ディレクトリは必要に応じて作成し、同名ファイルは上書きします。
// 一時ファイルに書いてから rename するため、途中で失敗しても中途半端なファイルは残りません。
func (w *LocalWriter) Save(name string, data []byte) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}

	path := filepath.Join(w.Dir, name)
	tmp, err := os.CreateTemp(w.Dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("一時ファイルの作成に失敗しました: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("画像の書き込みに失敗しました: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("画像の書き込みに失敗しました: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("画像の保存に失敗しました: %w", err)
	}
	return path, nil
}

// ValidateName は name が Dir 直下のファイル名として使えるかを確認します。
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: ディレクトリを含めることはできません: %q", ErrInvalidName, name)
	}
	return nil
}
