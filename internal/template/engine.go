package template

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Engine renders step parameters against a workflow's variable bag using
// text/template and the sprig function library. Missing variables are errors.
type Engine struct {
	funcs template.FuncMap
}

// New creates a new template engine
func New() *Engine {
	return &Engine{funcs: sprig.TxtFuncMap()}
}

// Replace renders every string inside value. Maps and slices are walked
// recursively; other types are returned as-is.
func (e *Engine) Replace(value interface{}, vars map[string]interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return e.Render(v, vars)
	case map[string]interface{}:
		return e.replaceMap(v, vars)
	case []interface{}:
		return e.replaceSlice(v, vars)
	default:
		return value, nil
	}
}

// Render executes a single template string.
func (e *Engine) Render(text string, vars map[string]interface{}) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}
	tmpl, err := template.New("value").Funcs(e.funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("invalid template %q: %w", text, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render %q: %w", text, err)
	}
	return buf.String(), nil
}

// RenderStrings renders every value of m.
func (e *Engine) RenderStrings(m map[string]string, vars map[string]interface{}) (map[string]string, error) {
	if m == nil {
		return nil, nil
	}
	result := make(map[string]string, len(m))
	for key, value := range m {
		rendered, err := e.Render(value, vars)
		if err != nil {
			return nil, fmt.Errorf("error in key '%s': %w", key, err)
		}
		result[key] = rendered
	}
	return result, nil
}

func (e *Engine) replaceMap(m map[string]interface{}, vars map[string]interface{}) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(m))
	for key, value := range m {
		replaced, err := e.Replace(value, vars)
		if err != nil {
			return nil, fmt.Errorf("error in key '%s': %w", key, err)
		}
		result[key] = replaced
	}
	return result, nil
}

func (e *Engine) replaceSlice(s []interface{}, vars map[string]interface{}) ([]interface{}, error) {
	result := make([]interface{}, len(s))
	for i, value := range s {
		replaced, err := e.Replace(value, vars)
		if err != nil {
			return nil, fmt.Errorf("error at index %d: %w", i, err)
		}
		result[i] = replaced
	}
	return result, nil
}

// MergeVars merges variable bags. Later bags override earlier ones.
func MergeVars(bags ...map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for _, bag := range bags {
		for key, value := range bag {
			result[key] = value
		}
	}
	return result
}
