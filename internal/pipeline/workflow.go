package pipeline

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Workflow is the parsed form of a pipeline YAML file. Job order in the file
// is preserved in JobOrder so output stays stable across runs.
type Workflow struct {
	Name string          `yaml:"name"`
	On   Trigger         `yaml:"on"`
	Env  map[string]string `yaml:"env"`
	Jobs map[string]*Job `yaml:"jobs"`

	JobOrder []string `yaml:"-"`
}

// Trigger describes when a workflow runs. Only push/pull_request branch
// filters are modeled; the runner itself is trigger-agnostic.
type Trigger struct {
	Push        *BranchFilter `yaml:"push"`
	PullRequest *BranchFilter `yaml:"pull_request"`
}

type BranchFilter struct {
	Branches []string `yaml:"branches"`
}

// Job is a single named unit of work. Needs lists jobs that must finish
// successfully before this one starts.
type Job struct {
	Name   string            `yaml:"name"`
	RunsOn string            `yaml:"runs-on"`
	Needs  StringList        `yaml:"needs"`
	Env    map[string]string `yaml:"env"`
	Steps  []Step            `yaml:"steps"`
}

// Step is one command or action reference inside a job.
type Step struct {
	Name string            `yaml:"name"`
	Uses string            `yaml:"uses"`
	Run  string            `yaml:"run"`
	With map[string]string `yaml:"with"`
	Env  map[string]string `yaml:"env"`
}

// StringList accepts both YAML forms of needs:
//
//	needs: run-tests
//	needs: [run-tests, build-docker-image]
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = []string{s}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := node.Decode(&ss); err != nil {
			return err
		}
		*l = ss
		return nil
	default:
		return fmt.Errorf("needs must be a string or a list of strings")
	}
}

// ParseWorkflow reads a workflow definition from r and validates it.
func ParseWorkflow(r io.Reader) (*Workflow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read workflow: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse workflow: %w", err)
	}

	var wf Workflow
	if err := doc.Decode(&wf); err != nil {
		return nil, fmt.Errorf("parse workflow: %w", err)
	}

	wf.JobOrder = jobOrderFromDoc(&doc)
	if err := wf.Validate(); err != nil {
		return nil, err
	}
	return &wf, nil
}

// ParseWorkflowFile reads and validates a workflow from a file path.
func ParseWorkflowFile(path string) (*Workflow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workflow: %w", err)
	}
	defer f.Close()
	return ParseWorkflow(f)
}

// jobOrderFromDoc recovers the file order of the jobs mapping, which the
// map-based decode discards.
func jobOrderFromDoc(doc *yaml.Node) []string {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "jobs" {
			continue
		}
		jobs := root.Content[i+1]
		if jobs.Kind != yaml.MappingNode {
			return nil
		}
		order := make([]string, 0, len(jobs.Content)/2)
		for j := 0; j+1 < len(jobs.Content); j += 2 {
			order = append(order, jobs.Content[j].Value)
		}
		return order
	}
	return nil
}

// Validate checks structural rules that do not depend on the dependency
// graph: at least one job, every job has steps, every step has exactly one
// of run/uses, and every needs target exists.
func (w *Workflow) Validate() error {
	if len(w.Jobs) == 0 {
		return fmt.Errorf("workflow %q has no jobs", w.Name)
	}
	if len(w.JobOrder) != len(w.Jobs) {
		// Fallback for workflows constructed in code rather than parsed.
		w.JobOrder = make([]string, 0, len(w.Jobs))
		for id := range w.Jobs {
			w.JobOrder = append(w.JobOrder, id)
		}
		sort.Strings(w.JobOrder)
	}

	for _, id := range w.JobOrder {
		job, ok := w.Jobs[id]
		if !ok || job == nil {
			return fmt.Errorf("job %q is empty", id)
		}
		if len(job.Steps) == 0 {
			return fmt.Errorf("job %q has no steps", id)
		}
		for i, step := range job.Steps {
			if step.Run == "" && step.Uses == "" {
				return fmt.Errorf("job %q step %d: either run or uses is required", id, i+1)
			}
			if step.Run != "" && step.Uses != "" {
				return fmt.Errorf("job %q step %d: run and uses are mutually exclusive", id, i+1)
			}
		}
		for _, dep := range job.Needs {
			if _, ok := w.Jobs[dep]; !ok {
				return fmt.Errorf("job %q needs unknown job %q", id, dep)
			}
		}
	}
	return nil
}
