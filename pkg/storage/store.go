package storage

import (
	"context"
	"errors"
)

// ErrNotFound は指定したキーのオブジェクトが存在しないことを示します。
var ErrNotFound = errors.New("object not found")

// Store は生成物をキー単位で読み書きするバックエンドの抽象です。
// キーは "scene/<id>.png" のようなスラッシュ区切りの相対パスです。
type Store interface {
	// Write はデータを保存し、保存先の場所（ローカルなら絶対パス、S3 なら s3:// URL）を返します。
	Write(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Read はデータを読み込みます。存在しない場合は ErrNotFound を返します。
	Read(ctx context.Context, key string) ([]byte, error)
	// Delete はデータを削除します。存在しない場合もエラーにしません。
	Delete(ctx context.Context, key string) error
	// Location はキーに対応する保存先の場所を返します。
	Location(key string) string
}
