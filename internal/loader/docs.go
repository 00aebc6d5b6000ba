package loader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/xxxsen/meetagent/internal/model"
)

type docsConfig struct {
	Dir string `json:"dir"`
}

// docsLoader walks a directory and emits one document per .md or .txt file.
// Markdown is reduced to its plain text so formatting noise never reaches
// the index.
type docsLoader struct {
	dir string
}

func (l *docsLoader) Load(ctx context.Context, fn func(doc model.Document) error) error {
	now := time.Now().UnixMilli()
	return filepath.WalkDir(l.dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		var content string
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md":
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			content = markdownText(data)
		case ".txt":
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			content = strings.TrimSpace(string(data))
		default:
			return nil
		}
		if content == "" {
			return nil
		}
		rel, err := filepath.Rel(l.dir, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		return fn(model.Document{
			DocID:     rel,
			Source:    model.SourceFileImport,
			OriginID:  rel,
			Title:     entry.Name(),
			Timestamp: now,
			Text:      content,
		})
	})
}

// markdownText extracts the readable text of a markdown document.
func markdownText(source []byte) string {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	var sb strings.Builder
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Text:
			sb.Write(n.Segment.Value(source))
		case *ast.FencedCodeBlock:
			for i := 0; i < n.Lines().Len(); i++ {
				line := n.Lines().At(i)
				sb.Write(line.Value(source))
			}
		}
		if node.Type() == ast.TypeBlock && node.Kind() != ast.KindText {
			sb.WriteString("\n")
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func createDocsLoader(args interface{}) (Loader, error) {
	cfg := &docsConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("docs source dir is required")
	}
	return &docsLoader{dir: cfg.Dir}, nil
}

func init() {
	Register("docs-dir", createDocsLoader)
}
