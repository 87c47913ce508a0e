// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// MessageはそのままAPIレスポンスの`error`フィールドとして返される。
type APIError struct {
	Code    string // エラーコード
	Message string // ユーザー向けエラーメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeNoFile              = "NO_FILE"
	ErrCodePDFParse            = "PDF_PARSE_ERROR"
	ErrCodeUnsupportedFileType = "UNSUPPORTED_FILE_TYPE"
	ErrCodeEmptyContent        = "EMPTY_CONTENT"
	ErrCodeMessageRequired     = "MESSAGE_REQUIRED"
	ErrCodeAnalysisFailed      = "ANALYSIS_FAILED"
	ErrCodeChatFailed          = "CHAT_FAILED"
	ErrCodeNotConfigured       = "NOT_CONFIGURED"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: "Unauthorized",
	}
}

// NewNoFileError はファイル未添付エラーを生成する。
func NewNoFileError() *APIError {
	return &APIError{
		Code:    ErrCodeNoFile,
		Message: "No file provided",
	}
}

// NewPDFParseError はPDF解析失敗エラーを生成する。
func NewPDFParseError() *APIError {
	return &APIError{
		Code:    ErrCodePDFParse,
		Message: "Failed to parse PDF file",
	}
}

// NewUnsupportedFileTypeError は非対応MIMEタイプエラーを生成する。
func NewUnsupportedFileTypeError() *APIError {
	return &APIError{
		Code:    ErrCodeUnsupportedFileType,
		Message: "Unsupported file type. Please upload a PDF or text file.",
	}
}

// NewEmptyContentError は抽出テキストが空の場合のエラーを生成する。
func NewEmptyContentError() *APIError {
	return &APIError{
		Code:    ErrCodeEmptyContent,
		Message: "No text content found in the file",
	}
}

// NewMessageRequiredError はチャットメッセージ未指定エラーを生成する。
func NewMessageRequiredError() *APIError {
	return &APIError{
		Code:    ErrCodeMessageRequired,
		Message: "Message is required",
	}
}

// NewAnalysisFailedError はモデル呼び出し失敗エラーを生成する。
func NewAnalysisFailedError() *APIError {
	return &APIError{
		Code:    ErrCodeAnalysisFailed,
		Message: "Failed to analyze resume. Please try again.",
	}
}

// NewChatFailedError はチャット応答の取得失敗エラーを生成する。
func NewChatFailedError() *APIError {
	return &APIError{
		Code:    ErrCodeChatFailed,
		Message: "Failed to get AI response. Please try again.",
	}
}

// NewNotConfiguredError は外部サービス未設定エラーを生成する。
func NewNotConfiguredError(service string) *APIError {
	return &APIError{
		Code:    ErrCodeNotConfigured,
		Message: fmt.Sprintf("%s not configured", service),
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidCredentials,
		Message: "Invalid credentials. Try demo@careerpath.ai / demo123",
	}
}

// NewNotFoundError はリソース未検出エラーを生成する。
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewInternalError は内部エラーを生成する。詳細はログのみに記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:    ErrCodeInternal,
		Message: "Internal server error",
	}
}
