package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/go-webtoon-kit/pkg/asset"
)

// LocalStore はローカルファイルシステム上に生成物を保存します。
type LocalStore struct {
	baseDir string
}

// NewLocalStore は baseDir を絶対パスに解決し、種類ごとのディレクトリを作成します。
func NewLocalStore(baseDir string) (*LocalStore, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("保存先ディレクトリの解決に失敗しました (%s): %w", baseDir, err)
	}
	for _, kind := range asset.Kinds {
		if err := os.MkdirAll(filepath.Join(abs, kind), 0o755); err != nil {
			return nil, fmt.Errorf("ディレクトリの作成に失敗しました (%s): %w", kind, err)
		}
	}
	return &LocalStore{baseDir: abs}, nil
}

// BaseDir は保存先のルートディレクトリを返します。
func (s *LocalStore) BaseDir() string {
	return s.baseDir
}

// Location はキーに対応する絶対パスを返します。
func (s *LocalStore) Location(key string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(key))
}

func (s *LocalStore) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("不正なキーです: %q", key)
	}
	return filepath.Join(s.baseDir, clean), nil
}

func (s *LocalStore) Write(_ context.Context, key string, data []byte, _ string) (string, error) {
	p, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("ディレクトリの作成に失敗しました: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("ファイルの書き込みに失敗しました (%s): %w", p, err)
	}
	return p, nil
}

func (s *LocalStore) Read(_ context.Context, key string) ([]byte, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("ファイルの読み込みに失敗しました (%s): %w", p, err)
	}
	return data, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("ファイルの削除に失敗しました (%s): %w", p, err)
	}
	return nil
}
