package resume

import (
	"errors"
	"testing"

	"github.com/hitoshi/careerpath/internal/model"
)

func assertAPIErrorCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != wantCode {
		t.Errorf("code = %q, want %q", apiErr.Code, wantCode)
	}
}

func TestExtract_PlainText(t *testing.T) {
	text, err := Extract("text/plain", []byte("My resume content"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "My resume content" {
		t.Errorf("text = %q, want unchanged content", text)
	}
}

func TestExtract_PlainTextPreservesBytes(t *testing.T) {
	// text/plainは改行や空白を含めて一切加工しない
	raw := "line one\n\n  line two\t\n"
	text, err := Extract("text/plain", []byte(raw))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != raw {
		t.Errorf("text = %q, want %q", text, raw)
	}
}

func TestExtract_UnsupportedType(t *testing.T) {
	_, err := Extract("application/msword", []byte("whatever"))
	assertAPIErrorCode(t, err, model.ErrCodeUnsupportedFileType)
}

func TestExtract_EmptyPlainText(t *testing.T) {
	_, err := Extract("text/plain", []byte(""))
	assertAPIErrorCode(t, err, model.ErrCodeEmptyContent)
}

func TestExtract_WhitespaceOnlyPlainText(t *testing.T) {
	_, err := Extract("text/plain", []byte("  \n\t  "))
	assertAPIErrorCode(t, err, model.ErrCodeEmptyContent)
}

func TestExtract_InvalidPDF(t *testing.T) {
	_, err := Extract("application/pdf", []byte("this is not a pdf"))
	assertAPIErrorCode(t, err, model.ErrCodePDFParse)
}

func TestExtract_UnsupportedTypeCheckedBeforeContent(t *testing.T) {
	// 空でも未対応タイプのエラーが優先される
	_, err := Extract("image/png", []byte(""))
	assertAPIErrorCode(t, err, model.ErrCodeUnsupportedFileType)
}
