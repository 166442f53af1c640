package report

import (
	"bytes"
	"fmt"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// htmlShell wraps the converted body into a small standalone document, so
// the file reads well when attached to a mail or opened from CI artifacts.
const htmlShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Visuate Report</title>
<style>
body { font-family: sans-serif; margin: 2em auto; max-width: 60em; color: #1f2937; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #d1d5db; padding: 0.3em 0.8em; text-align: left; }
th { background: #f3f4f6; }
h1, h2 { color: #111827; }
</style>
</head>
<body>
%s
</body>
</html>
`

// HTML converts a markdown report into a standalone HTML document. The GFM
// extension is required: the tables are pipe tables.
func HTML(markdown string) (string, error) {
	gm := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := gm.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("converting report to html: %w", err)
	}
	return fmt.Sprintf(htmlShell, body.String()), nil
}

// WriteHTML converts markdown and writes the document to path.
func WriteHTML(path, markdown string) error {
	doc, err := HTML(markdown)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(doc), 0o644)
}
