// Command newscript writes a skeleton gameplay script into internal/scripts.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"unicode"

	"github.com/pkg/errors"
)

const scriptsDir = "internal/scripts"

var tmpl = template.Must(template.New("script").Parse(`package scripts

import "otter/internal/engine"

type {{.Name}} struct {
	engine.BaseComponent
	Speed float32
}

func New{{.Name}}() *{{.Name}} {
	return &{{.Name}}{Speed: 1}
}

func (s *{{.Name}}) Update(deltaTime float32) {
	g := s.GameObject()
	if g == nil {
		return
	}
}

func (s *{{.Name}}) TypeName() string { return "{{.Name}}" }

func (s *{{.Name}}) Serialize() map[string]any {
	return map[string]any{"speed": s.Speed}
}

func (s *{{.Name}}) Deserialize(props map[string]any) error {
	s.Speed = number(props, "speed", s.Speed)
	return nil
}
`))

func main() {
	dir := flag.String("dir", scriptsDir, "output directory")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: go run ./cmd/newscript [-dir path] <ScriptName>\n")
		fmt.Fprintf(os.Stderr, "Example: go run ./cmd/newscript EnemyChaser\n")
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	name := flag.Arg(0)
	outPath, err := create(*dir, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created %s\n", outPath)
	fmt.Printf("Register it in internal/scripts/register.go:\n\n")
	fmt.Printf("\tengine.Register(r, %q, New%s)\n\n", name, name)
	fmt.Printf("then attach it in a scene file:\n\n")
	fmt.Printf("\t\"components\": { %q: { \"speed\": 1.0 } }\n", name)
}

func create(dir, name string) (string, error) {
	content, err := render(name)
	if err != nil {
		return "", err
	}
	outPath := filepath.Join(dir, toSnakeCase(name)+".go")
	if _, err := os.Stat(outPath); err == nil {
		return "", errors.Errorf("%s already exists", outPath)
	}
	if err := os.WriteFile(outPath, content, 0o644); err != nil {
		return "", errors.Wrap(err, "write script")
	}
	return outPath, nil
}

func render(name string) ([]byte, error) {
	if name == "" || !unicode.IsUpper(rune(name[0])) {
		return nil, errors.New("script name must start with an uppercase letter")
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return nil, errors.Errorf("script name %q is not a Go identifier", name)
		}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Name string }{name}); err != nil {
		return nil, errors.Wrap(err, "render script")
	}
	return buf.Bytes(), nil
}

func toSnakeCase(s string) string {
	var result []rune
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			result = append(result, '_')
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}
