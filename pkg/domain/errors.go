package domain

import "errors"

// ErrorCode はエラーの種類を機械的に判別するためのコードです。
type ErrorCode string

const (
	CodeInvalidDialogueFormat   ErrorCode = "INVALID_DIALOGUE_FORMAT"
	CodeSceneNotFound           ErrorCode = "SCENE_NOT_FOUND"
	CodeInvalidDimensions       ErrorCode = "INVALID_DIMENSIONS"
	CodeInvalidCanvasDimensions ErrorCode = "INVALID_CANVAS_DIMENSIONS"
	CodeStorageError            ErrorCode = "STORAGE_ERROR"
	CodeGenerationFailed        ErrorCode = "GENERATION_FAILED"
	CodeCharacterNotFound       ErrorCode = "CHARACTER_NOT_FOUND"
	CodeNoFrames                ErrorCode = "NO_FRAMES"
	CodeEncoderFailed           ErrorCode = "ENCODER_FAILED"
)

// errors.Is で種類を判定するための番兵です。Code のみで比較されます。
var (
	ErrInvalidDialogueFormat   = &Error{Code: CodeInvalidDialogueFormat, Message: "invalid dialogue format"}
	ErrSceneNotFound           = &Error{Code: CodeSceneNotFound, Message: "scene not found"}
	ErrInvalidDimensions       = &Error{Code: CodeInvalidDimensions, Message: "invalid dimensions"}
	ErrInvalidCanvasDimensions = &Error{Code: CodeInvalidCanvasDimensions, Message: "invalid canvas dimensions"}
	ErrStorage                 = &Error{Code: CodeStorageError, Message: "storage error"}
	ErrGenerationFailed        = &Error{Code: CodeGenerationFailed, Message: "generation failed"}
	ErrCharacterNotFound       = &Error{Code: CodeCharacterNotFound, Message: "character not found"}
	ErrNoFrames                = &Error{Code: CodeNoFrames, Message: "no frames"}
	ErrEncoderFailed           = &Error{Code: CodeEncoderFailed, Message: "encoder failed"}
)

// Error はコード付きのドメインエラーです。
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is は Code が一致するかどうかで判定します。
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// NewError はコードとメッセージからエラーを生成します。
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError は原因となるエラーを包んだドメインエラーを生成します。
func WrapError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf はエラーチェーンから最初に見つかった ErrorCode を返します。
// ドメインエラーを含まない場合は空文字を返します。
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
