package ops

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"

	"fsc/config"
	"fsc/state"
)

// Values is a struct that holds variables we make available for output name
// template expansion
type Values struct {
	Context    string
	SourceFile string
	Date       string
}

// buildOutputPath returns the actual output file path. A destination that
// is an existing directory gets a file name derived from the configured
// template (or from the source name when the template is empty or fails to
// expand); anything else is taken as the output file path verbatim.
func buildOutputPath(src, dst, context string, env *state.LocalEnv, log *zap.Logger) string {
	if fi, err := os.Stat(dst); err != nil || !fi.IsDir() {
		return dst
	}

	name := ""
	if tmpl := env.Cfg.Document.OutputNameTemplate; tmpl != "" {
		expanded, err := expandOutputName(config.OutputNameTemplateFieldName, tmpl, src, context)
		if err != nil {
			// fallback to default name if template expansion failed
			log.Warn("Unable to prepare output filename", zap.Error(err))
		} else {
			name = expanded
		}
	}
	if name == "" {
		name = sourceFileName(src) + ".xml"
	}
	return filepath.Join(dst, config.CleanFileName(name))
}

func expandOutputName(name config.TemplateFieldName, field, src, context string) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", err
	}

	values := Values{
		Context:    context,
		SourceFile: sourceFileName(src),
		Date:       time.Now().Format("2006-01-02"),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func sourceFileName(src string) string {
	return strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
}
