// Package documents checks resume and job-description files before they are uploaded.
//
// The analysis service does the real parsing. Local extraction only reports how much text a
// file holds so obviously empty uploads can be flagged; an extraction failure is a warning.
package documents

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/jonathan/talentalign/internal/types"
)

// Kind is a supported upload format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindText Kind = "txt"
)

// Messages for unsupported uploads.
const (
	MsgResumeFormat = "Resume must be PDF or DOCX"
	MsgJDFormat     = "Job description file must be PDF, DOCX or TXT"
)

// Info describes an inspected file.
type Info struct {
	Path    string
	Name    string
	Kind    Kind
	Size    int64
	Chars   int
	Warning string
}

// KindOf returns the format implied by path's extension, case-insensitively.
func KindOf(path string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return KindPDF, true
	case ".docx":
		return KindDOCX, true
	case ".txt":
		return KindText, true
	default:
		return "", false
	}
}

// InspectResume checks a resume upload. Only PDF and DOCX are accepted.
func InspectResume(path string) (*Info, error) {
	kind, ok := KindOf(path)
	if !ok || kind == KindText {
		return nil, types.Invalid("resume_file", MsgResumeFormat)
	}
	return inspect(path, kind)
}

// InspectJD checks a job description upload. PDF, DOCX and plain text are accepted.
func InspectJD(path string) (*Info, error) {
	kind, ok := KindOf(path)
	if !ok {
		return nil, types.Invalid("jd_file", MsgJDFormat)
	}
	return inspect(path, kind)
}

func inspect(path string, kind Kind) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	info := &Info{Path: path, Name: filepath.Base(path), Kind: kind, Size: int64(len(data))}
	if len(data) == 0 {
		info.Warning = "file is empty"
		return info, nil
	}

	text, err := ExtractText(kind, data)
	if err != nil {
		info.Warning = fmt.Sprintf("could not read text locally: %v", err)
		return info, nil
	}
	info.Chars = utf8.RuneCountInString(strings.TrimSpace(text))
	if info.Chars == 0 {
		info.Warning = "no extractable text found"
	}
	return info, nil
}

// ExtractText returns the plain text of a document.
func ExtractText(kind Kind, data []byte) (string, error) {
	switch kind {
	case KindText:
		return string(data), nil
	case KindPDF:
		return extractPDFText(data)
	case KindDOCX:
		return extractDocxText(data)
	default:
		return "", fmt.Errorf("unsupported file type: %s", kind)
	}
}

func extractPDFText(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, _ := page.GetPlainText(nil)
		textBuilder.WriteString(pageText)
	}
	return textBuilder.String(), nil
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	content := paragraphEnd.ReplaceAllString(doc.Editable().GetContent(), "\n")
	return html.UnescapeString(xmlTag.ReplaceAllString(content, "")), nil
}
