package scenario

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"wfbench/internal/workflow"
	"wfbench/pkg/logging"
)

// Definition is a workflow described in YAML.
//
//	name: browse-catalog
//	tags: [smoke]
//	timeout: 30s
//	vars:
//	  category: electronics
//	steps:
//	  - name: List products
//	    path: /products
//	    query: {category: "{{ .category }}"}
//	    extract: {productId: "0.id"}
//	  - name: View product
//	    path: /products/{{ .productId }}
//	    expect: {status: 200, jsonPath: {id: "{{ .productId }}"}}
type Definition struct {
	Name        string            `yaml:"name" validate:"required"`
	Description string            `yaml:"description,omitempty"`
	Tags        []string          `yaml:"tags,omitempty"`
	Timeout     time.Duration     `yaml:"timeout,omitempty" validate:"gte=0"`
	Vars        map[string]string `yaml:"vars,omitempty"`
	Steps       []StepDefinition  `yaml:"steps" validate:"required,min=1,dive"`

	// Source is the file the definition was read from.
	Source string `yaml:"-"`
}

// StepDefinition is one HTTP call of a YAML workflow. Method, path, query
// and body are templates rendered against the workflow's variables.
type StepDefinition struct {
	Name     string            `yaml:"name" validate:"required"`
	Method   string            `yaml:"method,omitempty" validate:"omitempty,oneof=GET POST PUT PATCH DELETE"`
	Path     string            `yaml:"path" validate:"required"`
	Query    map[string]string `yaml:"query,omitempty"`
	Body     interface{}       `yaml:"body,omitempty"`
	Optional bool              `yaml:"optional,omitempty"`
	// Extract maps variable names to gjson paths in the response body.
	Extract map[string]string `yaml:"extract,omitempty"`
	Expect  *Expectation      `yaml:"expect,omitempty"`
}

// Expectation is checked against a step's response. Without one, any 2xx
// response passes.
type Expectation struct {
	Status   int               `yaml:"status,omitempty" validate:"omitempty,gte=100,lte=599"`
	Contains string            `yaml:"contains,omitempty"`
	JSONPath map[string]string `yaml:"jsonPath,omitempty"`
}

var validate = validator.New()

// Validate checks required fields and value ranges.
func (d *Definition) Validate() error {
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid workflow definition: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// ParseDefinition decodes and validates one YAML document.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadDefinitions reads a YAML file, or every YAML file below a directory.
// Duplicate names are an error.
func LoadDefinitions(path string) ([]*Definition, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("scenario path does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat scenario path: %w", err)
	}

	var files []string
	if info.IsDir() {
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isYAMLFile(p) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory %s: %w", path, err)
		}
		sort.Strings(files)
	} else {
		files = []string{path}
	}

	var defs []*Definition
	seen := make(map[string]string)
	for _, file := range files {
		def, err := loadDefinitionFile(file)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[def.Name]; dup {
			return nil, fmt.Errorf("workflow %q defined in both %s and %s", def.Name, prev, file)
		}
		seen[def.Name] = file
		defs = append(defs, def)
	}

	logging.Debug("Scenario", "Loaded %d workflow definitions from %s", len(defs), path)
	return defs, nil
}

func loadDefinitionFile(path string) (*Definition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	def, err := ParseDefinition(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	def.Source = path
	return def, nil
}

func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Entry registers the definition.
func (d *Definition) Entry() Entry {
	return Entry{
		Name:        d.Name,
		Description: d.Description,
		Tags:        d.Tags,
		Source:      d.Source,
		Build: func(env Env) workflow.Runnable {
			return d.Runnable(env)
		},
	}
}

// Runnable builds a workflow that executes the steps in order. Each run
// starts from a fresh copy of Vars.
func (d *Definition) Runnable(env Env) workflow.Runnable {
	return workflow.Script(d.Name, func(ctx context.Context, w *workflow.Workflow) error {
		if d.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.Timeout)
			defer cancel()
		}

		r := newRequestRunner(env.Client)
		if err := r.seed(d.Vars); err != nil {
			return err
		}
		for _, step := range d.Steps {
			step := step
			action := func(ctx context.Context) (interface{}, error) {
				return r.run(ctx, step)
			}
			if step.Optional {
				w.ExecuteOptionalStep(ctx, step.Name, action)
			} else {
				w.ExecuteStep(ctx, step.Name, action)
			}
		}
		return nil
	}, workflow.WithClock(env.Clock), workflow.WithExpectedSteps(len(d.Steps)))
}
