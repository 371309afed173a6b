package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/suykerbuyk/aiscope/internal/config"
)

// Extensions lists every file extension PlainText understands.
var Extensions = []string{".txt", ".md", ".html", ".htm", ".pdf", ".docx"}

// Supported reports whether path has an extractable extension.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// ErrInvalidUTF8 is returned for documents whose text is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("text is not valid UTF-8")

// PlainText returns the text content of a document. Plain text and markdown
// are returned byte for byte so their content hash is stable.
func PlainText(path string, cfg config.ExtractConfig) (string, error) {
	text, err := plainText(path, cfg)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(text) {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrInvalidUTF8)
	}
	return text, nil
}

func plainText(path string, cfg config.ExtractConfig) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return string(data), nil
	case ".html", ".htm":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		text, err := htmlToText(data, cfg.Pandoc)
		if err != nil {
			return "", err
		}
		if cfg.CutFooter {
			text = CutFooter(text)
		}
		return strings.TrimSpace(text), nil
	case ".pdf":
		return pdfText(path)
	case ".docx":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return docxText(data)
	default:
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
}

func htmlToText(html []byte, pandoc string) (string, error) {
	if pandoc == "" {
		pandoc = "pandoc"
	}
	cmd := exec.Command(pandoc, "-f", "html", "-t", "plain", "--wrap=none")
	cmd.Stdin = bytes.NewReader(html)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("pandoc: %w: %s", err, msg)
		}
		return "", fmt.Errorf("pandoc: %w", err)
	}
	return string(out), nil
}

var ruleLine = regexp.MustCompile(`^[-─━]{4,}$`)

// CutFooter drops everything from the last horizontal rule onward, which in
// exported newsletters is the subscribe/footer block. A rule on the first
// line is not treated as a footer.
func CutFooter(text string) string {
	lines := strings.Split(text, "\n")
	cut := 0
	for i, l := range lines {
		if ruleLine.MatchString(strings.TrimSpace(l)) {
			cut = i
		}
	}
	if cut > 0 {
		lines = lines[:cut]
	}
	return strings.Join(lines, "\n")
}

func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no extractable text found in pdf")
	}
	return strings.TrimSpace(b.String()), nil
}

func docxText(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open docx zip: %w", err)
	}

	var xmlData []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		xmlData, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}
		break
	}
	if len(xmlData) == 0 {
		return "", fmt.Errorf("word/document.xml not found")
	}

	decoder := xml.NewDecoder(bytes.NewReader(xmlData))
	var b strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "p":
				if b.Len() > 0 {
					b.WriteString("\n")
				}
			case "tab":
				b.WriteString("\t")
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
