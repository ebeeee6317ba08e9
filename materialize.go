// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package projinit

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/CloudyKit/jet/v6"
	"github.com/Masterminds/sprig/v3"
	"github.com/choria-io/projinit/internal/validator"
)

// FileAction represents the change a file would undergo when a plan is applied
type FileAction string

const (
	FileActionAdd    FileAction = "add"
	FileActionUpdate FileAction = "update"
	FileActionEqual  FileAction = "equal"
	FileActionSkip   FileAction = "skip"
	FileActionFail   FileAction = "fail"
)

// PlannedFile is a file and the action that applying a plan would take on it
type PlannedFile struct {
	Path   string
	Action FileAction
	// Err is set for FileActionFail
	Err error
}

// FileFailure records a file that could not be created
type FileFailure struct {
	Path string
	Err  error
}

// ApplyReport summarizes what Apply did
type ApplyReport struct {
	DirectoriesCreated int
	FilesCreated       int
	// Skipped holds files that were not written because of an empty path or a false condition
	Skipped []string
	// Failed holds files that could not be written, these do not stop the run
	Failed []FileFailure
}

// Materializer creates the directories and files of a plan below a root directory
type Materializer struct {
	root    string
	log     Logger
	funcs   template.FuncMap
	environ map[string]string
}

// NewMaterializer creates a materializer writing relative paths below root
func NewMaterializer(root string) (*Materializer, error) {
	if root == "" {
		return nil, fmt.Errorf("root directory is required")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid root %s: %v", root, err)
	}

	return &Materializer{
		root:    abs,
		log:     nopLogger{},
		environ: environment(),
	}, nil
}

// Logger configures a logger to use, no logging is done without this
func (m *Materializer) Logger(log Logger) {
	m.log = loggerOrNop(log)
}

// Funcs adds functions available to Go template files
func (m *Materializer) Funcs(funcs template.FuncMap) {
	m.funcs = funcs
}

// Root is the absolute directory relative paths are written below
func (m *Materializer) Root() string {
	return m.root
}

func (m *Materializer) targetPath(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}

	return filepath.Join(m.root, p)
}

// Apply creates every directory and file in plan.
//
// A directory that cannot be created aborts the run and the error is returned
// with the partial report. Files are independent of each other, a file that
// cannot be written is logged and recorded in the report and the remaining
// files are still attempted.
func (m *Materializer) Apply(plan *Plan) (*ApplyReport, error) {
	report := &ApplyReport{}

	err := os.MkdirAll(m.root, 0755)
	if err != nil {
		return report, classifyError("creating directory", m.root, err)
	}

	m.log.Infof("Creating %d directories", len(plan.Directories))
	for _, dir := range plan.Directories {
		err = os.MkdirAll(m.targetPath(dir), 0755)
		if err != nil {
			m.log.Errorf("Could not create directory %s: %v", dir, err)
			return report, classifyError("creating directory", dir, err)
		}

		m.log.Debugf("Created directory: %s", dir)
		report.DirectoriesCreated++
	}

	m.log.Infof("Creating %d files", len(plan.Files))
	for _, f := range plan.Files {
		content, create, err := m.prepareFile(plan, f)
		switch {
		case err != nil:
			m.log.Errorf("Could not create file %s: %v", f.Path, err)
			report.Failed = append(report.Failed, FileFailure{Path: f.Path, Err: err})
			continue

		case !create:
			report.Skipped = append(report.Skipped, f.Path)
			continue
		}

		err = m.writeFile(f.Path, content)
		if err != nil {
			m.log.Errorf("Could not create file %s: %v", f.Path, err)
			report.Failed = append(report.Failed, FileFailure{Path: f.Path, Err: err})
			continue
		}

		m.log.Debugf("Created file: %s", f.Path)
		report.FilesCreated++
	}

	return report, nil
}

// Preview determines what Apply would do to every file in plan without changing anything.
//
// Like Apply a file that cannot be produced does not stop the preview, it is
// listed with FileActionFail and the error that Apply would record.
func (m *Materializer) Preview(plan *Plan) ([]PlannedFile, error) {
	type previewEntry struct {
		name    string
		content []byte
		written bool
		err     error
	}

	entries := map[string]*previewEntry{}
	var order []string

	for _, f := range plan.Files {
		name := previewName(f.Path)
		target := name
		if f.Path != "" {
			target = m.targetPath(f.Path)
		}

		entry, ok := entries[target]
		if !ok {
			entry = &previewEntry{name: name}
			entries[target] = entry
			order = append(order, target)
		}

		content, create, err := m.prepareFile(plan, f)
		switch {
		case err != nil:
			entry.err = err
		case create:
			entry.content = []byte(content)
			entry.written = true
		}
	}

	var result []PlannedFile
	for _, target := range order {
		entry := entries[target]

		switch {
		case entry.err != nil:
			result = append(result, PlannedFile{Path: entry.name, Action: FileActionFail, Err: entry.err})

		case entry.written:
			action, err := m.plannedAction(target, entry.content)
			if err != nil {
				return nil, err
			}
			result = append(result, PlannedFile{Path: entry.name, Action: action})

		default:
			result = append(result, PlannedFile{Path: entry.name, Action: FileActionSkip})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})

	return result, nil
}

func previewName(p string) string {
	if p == "" {
		return "(empty path)"
	}

	return filepath.ToSlash(filepath.Clean(p))
}

func (m *Materializer) plannedAction(target string, content []byte) (FileAction, error) {
	_, err := os.Stat(target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return FileActionAdd, nil
	case err != nil:
		return "", classifyError("reading", target, err)
	}

	existing, err := sha256File(target)
	if err != nil {
		return "", classifyError("reading", target, err)
	}

	if existing == fmt.Sprintf("%x", sha256.Sum256(content)) {
		return FileActionEqual, nil
	}

	return FileActionUpdate, nil
}

// prepareFile produces the final content for f, create is false when the file should be skipped
func (m *Materializer) prepareFile(plan *Plan, f FileSpec) (content string, create bool, err error) {
	if f.Path == "" {
		m.log.Warnf("Skipping file creation due to empty path")
		return "", false, nil
	}

	if f.When != "" {
		ok, err := validator.Validate(m.conditionEnv(plan), f.When)
		if err != nil {
			return "", false, fmt.Errorf("invalid condition %q: %w", f.When, err)
		}

		if !ok {
			m.log.Debugf("Skipping %s, condition %q is false", f.Path, f.When)
			return "", false, nil
		}
	}

	content = f.Content

	// the name is substituted after rendering so it is never evaluated as template code
	if f.Template {
		res, err := m.render(plan, f.Path, content)
		if err != nil {
			return "", false, err
		}
		content = res
	}

	return strings.ReplaceAll(content, ProjectNamePlaceholder, projectName(plan)), true, nil
}

func (m *Materializer) writeFile(p string, content string) error {
	target := m.targetPath(p)

	err := os.MkdirAll(filepath.Dir(target), 0755)
	if err != nil {
		return classifyError("creating directory", filepath.Dir(p), err)
	}

	err = os.WriteFile(target, []byte(content), 0644)
	if err != nil {
		return classifyError("writing", p, err)
	}

	return nil
}

func (m *Materializer) conditionEnv(plan *Plan) map[string]any {
	return map[string]any{
		"project_name": projectName(plan),
		"template":     plan.Template,
		"environment":  m.environ,
	}
}

func (m *Materializer) templateData(plan *Plan) map[string]any {
	return map[string]any{
		"ProjectName": projectName(plan),
		"Template":    plan.Template,
		"ENVIRONMENT": m.environ,
	}
}

func (m *Materializer) render(plan *Plan, name string, tmpl string) (string, error) {
	var (
		res []byte
		err error
	)

	switch plan.Engine {
	case EngineJet:
		res, err = m.renderJet(name, tmpl, m.templateData(plan))
	default:
		res, err = m.renderGoTemplate(name, tmpl, m.templateData(plan))
	}
	if err != nil {
		return "", err
	}

	return string(res), nil
}

func (m *Materializer) renderGoTemplate(name string, tmpl string, data any) ([]byte, error) {
	funcs := sprig.TxtFuncMap()
	for k, v := range m.funcs {
		funcs[k] = v
	}

	templ, err := template.New(filepath.Base(name)).Funcs(funcs).Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parsing template %v failed: %w", name, err)
	}

	buf := bytes.NewBuffer([]byte{})
	err = templ.Execute(buf, data)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (m *Materializer) renderJet(name string, tmpl string, data any) ([]byte, error) {
	name = filepath.Base(name)

	loader := jet.NewInMemLoader()
	loader.Set(name, tmpl)

	set := jet.NewSet(loader, jet.WithSafeWriter(nil))

	t, err := set.GetTemplate(name)
	if err != nil {
		return nil, fmt.Errorf("parsing template %v failed: %w", name, err)
	}

	buf := bytes.NewBuffer([]byte{})
	err = t.Execute(buf, nil, data)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func projectName(plan *Plan) string {
	if plan.ProjectName == "" {
		return DefaultProjectName
	}

	return plan.ProjectName
}

func environment() map[string]string {
	env := map[string]string{}
	for _, val := range os.Environ() {
		parts := strings.SplitN(val, "=", 2)
		if len(parts) != 2 {
			continue
		}
		env[parts[0]] = parts[1]
	}

	return env
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
