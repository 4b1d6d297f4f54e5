package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"minipl/interpreter-go/pkg/runtime"
)

// Scenario is one end-to-end run described by a YAML file.
type Scenario struct {
	Path   string
	Name   string
	Source string
	// Entry is the absolute path of the program file when the scenario
	// names one instead of embedding the source.
	Entry  string
	Input  string
	Expect Expectation
}

// Expectation is what a scenario run must produce.
type Expectation struct {
	// Output is the exact port output; nil skips the comparison.
	Output   *string
	Status   Status
	Contains []string
}

// ValidationError aggregates scenario validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "scenario: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("scenario validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadScenario parses and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	if path == "" {
		return nil, fmt.Errorf("scenario: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("scenario: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw scenarioFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("scenario: %s is empty", absPath)
		}
		return nil, fmt.Errorf("scenario: parse %s: %w", absPath, err)
	}

	scenario := raw.toScenario(absPath)
	if err := scenario.validate(); err != nil {
		return nil, err
	}
	return scenario, nil
}

// LoadScenarios loads every .yml and .yaml file directly inside dir, in
// name order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scenario: read dir %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yml", ".yaml":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		scenario, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}

func (s *Scenario) validate() error {
	var errs ValidationError
	if s.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	switch {
	case s.Source == "" && s.Entry == "":
		errs.Issues = append(errs.Issues, "one of source or entry must be provided")
	case s.Source != "" && s.Entry != "":
		errs.Issues = append(errs.Issues, "source and entry are mutually exclusive")
	case s.Entry != "":
		contents, err := os.ReadFile(s.Entry)
		if err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("entry %s: %v", s.Entry, err))
		} else {
			s.Source = string(contents)
		}
	}
	if !s.Expect.Status.IsValid() {
		errs.Issues = append(errs.Issues, fmt.Sprintf("expect.status has unsupported value %q", s.Expect.Status))
	}
	for i, sub := range s.Expect.Contains {
		if sub == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("expect.contains[%d] must be a non-empty string", i))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// ScenarioResult is the outcome of running one scenario.
type ScenarioResult struct {
	Scenario *Scenario
	Result   Result
	Output   string
	Failures []string
}

// Passed reports whether every expectation held.
func (r ScenarioResult) Passed() bool {
	return len(r.Failures) == 0
}

// RunScenario runs the scenario's program against an in-memory port fed
// with its input and compares the outcome with its expectations.
func RunScenario(s *Scenario) ScenarioResult {
	port := runtime.NewBuffer(s.Input)
	res := Run(port, strings.NewReader(s.Source), Options{})
	out := ScenarioResult{Scenario: s, Result: res, Output: port.Output()}

	if res.Status != s.Expect.Status {
		out.Failures = append(out.Failures, fmt.Sprintf("status: got %s, want %s", res.Status, s.Expect.Status))
	}
	if s.Expect.Output != nil && out.Output != *s.Expect.Output {
		out.Failures = append(out.Failures, fmt.Sprintf("output: got %q, want %q", out.Output, *s.Expect.Output))
	}
	for _, sub := range s.Expect.Contains {
		if !strings.Contains(out.Output, sub) {
			out.Failures = append(out.Failures, fmt.Sprintf("output %q does not contain %q", out.Output, sub))
		}
	}
	return out
}

type scenarioFile struct {
	Name   string     `yaml:"name"`
	Source string     `yaml:"source"`
	Entry  string     `yaml:"entry"`
	Input  string     `yaml:"input"`
	Expect expectYAML `yaml:"expect"`
}

type expectYAML struct {
	Output   *string    `yaml:"output"`
	Status   string     `yaml:"status"`
	Contains stringList `yaml:"contains"`
}

func (sf scenarioFile) toScenario(path string) *Scenario {
	status := Status(strings.TrimSpace(sf.Expect.Status))
	if status == "" {
		status = StatusOK
	}
	scenario := &Scenario{
		Path:   path,
		Name:   strings.TrimSpace(sf.Name),
		Source: sf.Source,
		Input:  sf.Input,
		Expect: Expectation{
			Output:   sf.Expect.Output,
			Status:   status,
			Contains: sf.Expect.Contains.Clone(),
		},
	}
	if entry := strings.TrimSpace(sf.Entry); entry != "" {
		if !filepath.IsAbs(entry) {
			entry = filepath.Join(filepath.Dir(path), entry)
		}
		scenario.Entry = entry
	}
	return scenario
}

type stringList []string

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	return append([]string{}, l...)
}

// UnmarshalYAML accepts a single string or a sequence of strings.
func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = stringList{value.Value}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("scenario: expected string or sequence for list but found %s", value.ShortTag())
	}
}
