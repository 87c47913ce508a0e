// Package resume は履歴書ファイルのテキスト抽出とAI分析・保存を担う。
package resume

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/hitoshi/careerpath/internal/model"
)

// Extract は宣言されたMIMEタイプに従って履歴書ファイルからテキストを抽出する。
// コンテントスニッフィングは行わず、クライアントの申告どおりに処理する。
func Extract(declaredMIME string, data []byte) (string, error) {
	var text string
	switch declaredMIME {
	case "application/pdf":
		extracted, err := extractPDFText(data)
		if err != nil {
			return "", model.NewPDFParseError()
		}
		text = extracted
	case "text/plain":
		text = string(data)
	default:
		return "", model.NewUnsupportedFileTypeError()
	}

	if strings.TrimSpace(text) == "" {
		return "", model.NewEmptyContentError()
	}
	return text, nil
}

// extractPDFText はPDFの全ページからプレーンテキストを連結して返す。
func extractPDFText(data []byte) (string, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		textBuilder.WriteString(text)
	}
	return textBuilder.String(), nil
}
