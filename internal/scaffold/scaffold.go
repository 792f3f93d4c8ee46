// Package scaffold renders a skeleton BungeeCord plugin project and packs it
// into a ZIP archive.
package scaffold

import (
	"archive/zip"
	"bytes"
	"embed"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DefaultAPIVersion is the bungeecord-api dependency written into pom.xml
// when none is configured.
const DefaultAPIVersion = "1.20-R0.1-SNAPSHOT"

// ContentType is the media type of the generated archive.
const ContentType = "application/zip"

var templates = template.Must(template.New("scaffold").Funcs(template.FuncMap{
	"xml":     xmlEscape,
	"yaml":    yamlScalar,
	"comment": javadocSafe,
}).ParseFS(templateFS, "templates/*.tmpl"))

// File is one rendered project file.
type File struct {
	Path string
	Body []byte
}

// Generator renders plugin projects.
type Generator struct {
	apiVersion string
	now        func() time.Time
}

// New returns a Generator that targets the given bungeecord-api version.
func New(apiVersion string) *Generator {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return &Generator{apiVersion: apiVersion, now: time.Now}
}

type templateData struct {
	Params
	APIVersion string
}

// SourceDir is the directory holding the plugin's Java sources.
func SourceDir(pkg string) string {
	return "src/main/java/" + strings.ReplaceAll(pkg, ".", "/")
}

// Filename is the suggested download name for the archive.
func Filename(p Params) string { return p.Name + ".zip" }

// Render validates p and renders the project files in archive order.
func (g *Generator) Render(p Params) ([]File, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	data := templateData{Params: p, APIVersion: g.apiVersion}
	src := SourceDir(p.Package)

	layout := []struct {
		tmpl, path string
	}{
		{"pom.xml.tmpl", "pom.xml"},
		{"plugin.yml.tmpl", "src/main/resources/plugin.yml"},
		{"main.java.tmpl", src + "/" + p.Name + ".java"},
	}
	if p.IncludeListener {
		layout = append(layout, struct{ tmpl, path string }{"listener.java.tmpl", src + "/" + p.Name + "Listener.java"})
	}

	files := make([]File, 0, len(layout))
	for _, l := range layout {
		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, l.tmpl, data); err != nil {
			return nil, fmt.Errorf("scaffold: render %s: %w", l.path, err)
		}
		files = append(files, File{Path: l.path, Body: buf.Bytes()})
	}
	return files, nil
}

// Archive renders p and returns the deflate-compressed ZIP bytes.
func (g *Generator) Archive(p Params) ([]byte, error) {
	files, err := g.Render(p)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := g.now()
	for _, f := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Path,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("scaffold: add %s: %w", f.Path, err)
		}
		if _, err := w.Write(f.Body); err != nil {
			return nil, fmt.Errorf("scaffold: write %s: %w", f.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("scaffold: finish archive: %w", err)
	}
	return buf.Bytes(), nil
}

func xmlEscape(s string) (string, error) {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// yamlScalar renders s as a single-line YAML scalar, quoting when needed.
func yamlScalar(s string) (string, error) {
	if strings.ContainsAny(s, "\r\n") {
		return strconv.Quote(s), nil
	}
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

func javadocSafe(s string) string {
	return strings.ReplaceAll(s, "*/", "*&#47;")
}
