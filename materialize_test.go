// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package projinit

import (
	"os"
	"path/filepath"
	"strings"
	"text/template"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Materializer", func() {
	var (
		root string
		m    *Materializer
		log  *recordingLogger
	)

	BeforeEach(func() {
		root = filepath.Join(GinkgoT().TempDir(), "project")
		log = newRecordingLogger()

		var err error
		m, err = NewMaterializer(root)
		Expect(err).ToNot(HaveOccurred())
		m.Logger(log)
	})

	readFile := func(p string) string {
		c, err := os.ReadFile(filepath.Join(root, p))
		Expect(err).ToNot(HaveOccurred())
		return string(c)
	}

	Describe("NewMaterializer", func() {
		It("Should require a root", func() {
			_, err := NewMaterializer("")
			Expect(err).To(MatchError("root directory is required"))
		})

		It("Should resolve the root to an absolute path", func() {
			Expect(filepath.IsAbs(m.Root())).To(BeTrue())
		})
	})

	Describe("Apply", func() {
		It("Should create parent directories for files", func() {
			report, err := m.Apply(&Plan{Files: []FileSpec{{Path: "a/b/c.txt", Content: "x"}}})
			Expect(err).ToNot(HaveOccurred())
			Expect(report.FilesCreated).To(Equal(1))
			Expect(report.DirectoriesCreated).To(Equal(0))

			Expect(filepath.Join(root, "a")).To(BeADirectory())
			Expect(filepath.Join(root, "a", "b")).To(BeADirectory())
			Expect(readFile("a/b/c.txt")).To(Equal("x"))
		})

		It("Should create directories and files", func() {
			report, err := m.Apply(&Plan{
				Directories: []string{"src", "docs/api"},
				Files:       []FileSpec{{Path: "README.md", Content: "# readme"}},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(report.DirectoriesCreated).To(Equal(2))
			Expect(report.FilesCreated).To(Equal(1))
			Expect(filepath.Join(root, "src")).To(BeADirectory())
			Expect(filepath.Join(root, "docs", "api")).To(BeADirectory())
			Expect(readFile("README.md")).To(Equal("# readme"))
		})

		It("Should let configuration files replace template files", func() {
			cfg := &Configuration{Files: []FileSpec{{Path: "README.md", Content: "# Mine\n"}}}

			_, err := m.Apply(PlanFor(cfg, "web"))
			Expect(err).ToNot(HaveOccurred())
			Expect(readFile("README.md")).To(Equal("# Mine\n"))
			Expect(readFile("requirements.txt")).To(Equal("Flask==2.0.1\n"))
		})

		It("Should be idempotent for directories and overwrite files", func() {
			plan := &Plan{
				Directories: []string{"src"},
				Files:       []FileSpec{{Path: "src/a.txt", Content: "first"}, {Path: "src/a.txt", Content: "second"}},
			}

			_, err := m.Apply(plan)
			Expect(err).ToNot(HaveOccurred())
			Expect(readFile("src/a.txt")).To(Equal("second"))

			Expect(os.WriteFile(filepath.Join(root, "src", "a.txt"), []byte("changed"), 0644)).To(Succeed())

			report, err := m.Apply(plan)
			Expect(err).ToNot(HaveOccurred())
			Expect(report.DirectoriesCreated).To(Equal(1))
			Expect(report.FilesCreated).To(Equal(2))
			Expect(readFile("src/a.txt")).To(Equal("second"))
		})

		It("Should skip empty paths and keep going", func() {
			report, err := m.Apply(&Plan{Files: []FileSpec{
				{Path: "", Content: "lost"},
				{Path: "kept.txt", Content: "kept"},
			}})
			Expect(err).ToNot(HaveOccurred())
			Expect(report.Skipped).To(Equal([]string{""}))
			Expect(report.FilesCreated).To(Equal(1))
			Expect(readFile("kept.txt")).To(Equal("kept"))
			Expect(log.at("warn")).To(ContainElement("Skipping file creation due to empty path"))
		})

		It("Should substitute the project name", func() {
			_, err := m.Apply(&Plan{
				ProjectName: "widget",
				Files:       []FileSpec{{Path: "README.md", Content: "# ${project_name}\n\n${project_name} rocks"}},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(readFile("README.md")).To(Equal("# widget\n\nwidget rocks"))
		})

		It("Should fall back to a default project name", func() {
			_, err := m.Apply(&Plan{Files: []FileSpec{{Path: "README.md", Content: "# ${project_name}"}}})
			Expect(err).ToNot(HaveOccurred())
			Expect(readFile("README.md")).To(Equal("# My Project"))
		})

		It("Should write absolute paths as given", func() {
			abs := filepath.Join(GinkgoT().TempDir(), "elsewhere", "abs.txt")

			_, err := m.Apply(&Plan{Files: []FileSpec{{Path: abs, Content: "abs"}}})
			Expect(err).ToNot(HaveOccurred())

			c, err := os.ReadFile(abs)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(c)).To(Equal("abs"))
		})

		It("Should abort on the first directory failure", func() {
			Expect(os.MkdirAll(root, 0755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(root, "blocker"), nil, 0644)).To(Succeed())

			report, err := m.Apply(&Plan{
				Directories: []string{"first", "blocker/sub", "never"},
				Files:       []FileSpec{{Path: "README.md", Content: "x"}},
			})
			Expect(err).To(MatchError(ErrIOFailure))
			Expect(err.Error()).To(ContainSubstring("blocker/sub"))
			Expect(report.DirectoriesCreated).To(Equal(1))
			Expect(filepath.Join(root, "never")).ToNot(BeAnExistingFile())
			Expect(filepath.Join(root, "README.md")).ToNot(BeAnExistingFile())
		})

		It("Should report permission failures for directories", func() {
			if os.Geteuid() == 0 {
				Skip("permissions are not enforced for root")
			}

			Expect(os.MkdirAll(root, 0555)).To(Succeed())
			DeferCleanup(os.Chmod, root, os.FileMode(0755))

			_, err := m.Apply(&Plan{Directories: []string{"src"}})
			Expect(err).To(MatchError(ErrPermissionDenied))
		})

		It("Should continue past file failures", func() {
			Expect(os.MkdirAll(root, 0755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(root, "blocker"), nil, 0644)).To(Succeed())

			report, err := m.Apply(&Plan{Files: []FileSpec{
				{Path: "blocker/file.txt", Content: "x"},
				{Path: "ok.txt", Content: "ok"},
			}})
			Expect(err).ToNot(HaveOccurred())
			Expect(report.FilesCreated).To(Equal(1))
			Expect(report.Failed).To(HaveLen(1))
			Expect(report.Failed[0].Path).To(Equal("blocker/file.txt"))
			Expect(report.Failed[0].Err).To(MatchError(ErrIOFailure))
			Expect(readFile("ok.txt")).To(Equal("ok"))
			Expect(log.at("error")).To(HaveLen(1))
		})

		Context("With conditions", func() {
			files := []FileSpec{
				{Path: "web.txt", Content: "web", When: `template == "web"`},
				{Path: "named.txt", Content: "named", When: `project_name != "My Project"`},
			}

			It("Should create files whose condition is true", func() {
				report, err := m.Apply(&Plan{Template: "web", ProjectName: "x", Files: files})
				Expect(err).ToNot(HaveOccurred())
				Expect(report.FilesCreated).To(Equal(2))
				Expect(readFile("web.txt")).To(Equal("web"))
			})

			It("Should skip files whose condition is false", func() {
				report, err := m.Apply(&Plan{Template: "cli", Files: files})
				Expect(err).ToNot(HaveOccurred())
				Expect(report.FilesCreated).To(Equal(0))
				Expect(report.Skipped).To(Equal([]string{"web.txt", "named.txt"}))
				Expect(filepath.Join(root, "web.txt")).ToNot(BeAnExistingFile())
			})

			It("Should fail only the file with an invalid condition", func() {
				report, err := m.Apply(&Plan{Files: []FileSpec{
					{Path: "bad.txt", When: "template =="},
					{Path: "good.txt", Content: "good"},
				}})
				Expect(err).ToNot(HaveOccurred())
				Expect(report.Failed).To(HaveLen(1))
				Expect(report.Failed[0].Err).To(MatchError(ContainSubstring("invalid condition")))
				Expect(readFile("good.txt")).To(Equal("good"))
			})
		})

		Context("With templates", func() {
			It("Should render Go templates with sprig functions", func() {
				_, err := m.Apply(&Plan{
					ProjectName: "widget",
					Template:    "cli",
					Files: []FileSpec{
						{Path: "NAME", Content: `{{ .ProjectName | upper }} ({{ .Template }})`, Template: true},
						{Path: "RAW", Content: `{{ .ProjectName }}`},
					},
				})
				Expect(err).ToNot(HaveOccurred())
				Expect(readFile("NAME")).To(Equal("WIDGET (cli)"))
				Expect(readFile("RAW")).To(Equal("{{ .ProjectName }}"))
			})

			It("Should support custom functions", func() {
				m.Funcs(template.FuncMap{"shout": func(s string) string { return strings.ToUpper(s) + "!" }})

				_, err := m.Apply(&Plan{
					Files: []FileSpec{{Path: "NAME", Content: `{{ shout .ProjectName }}`, Template: true}},
				})
				Expect(err).ToNot(HaveOccurred())
				Expect(readFile("NAME")).To(Equal("MY PROJECT!"))
			})

			It("Should not evaluate the project name as a template", func() {
				_, err := m.Apply(&Plan{
					ProjectName: `{{ env "HOME" }}`,
					Files:       []FileSpec{{Path: "NAME", Content: `${project_name}|{{ .ProjectName }}`, Template: true}},
				})
				Expect(err).ToNot(HaveOccurred())
				Expect(readFile("NAME")).To(Equal(`{{ env "HOME" }}|{{ env "HOME" }}`))
			})

			It("Should render Jet templates", func() {
				_, err := m.Apply(&Plan{
					ProjectName: "widget",
					Engine:      EngineJet,
					Files:       []FileSpec{{Path: "NAME", Content: `Hello {{ .ProjectName }}`, Template: true}},
				})
				Expect(err).ToNot(HaveOccurred())
				Expect(readFile("NAME")).To(Equal("Hello widget"))
			})

			It("Should record template errors as file failures", func() {
				report, err := m.Apply(&Plan{Files: []FileSpec{
					{Path: "broken", Content: `{{ .ProjectName | nosuchfunc }}`, Template: true},
				}})
				Expect(err).ToNot(HaveOccurred())
				Expect(report.Failed).To(HaveLen(1))
				Expect(filepath.Join(root, "broken")).ToNot(BeAnExistingFile())
			})
		})
	})

	Describe("Preview", func() {
		plan := &Plan{
			Directories: []string{"src"},
			Files: []FileSpec{
				{Path: "b.txt", Content: "b"},
				{Path: "a.txt", Content: "a"},
				{Path: "", Content: "nothing"},
				{Path: "web.txt", When: `template == "web"`},
			},
		}

		It("Should not change the filesystem", func() {
			planned, err := m.Preview(plan)
			Expect(err).ToNot(HaveOccurred())
			Expect(planned).To(Equal([]PlannedFile{
				{Path: "(empty path)", Action: FileActionSkip},
				{Path: "a.txt", Action: FileActionAdd},
				{Path: "b.txt", Action: FileActionAdd},
				{Path: "web.txt", Action: FileActionSkip},
			}))
			Expect(root).ToNot(BeADirectory())
		})

		It("Should detect equal and updated files", func() {
			_, err := m.Apply(plan)
			Expect(err).ToNot(HaveOccurred())
			Expect(os.WriteFile(filepath.Join(root, "b.txt"), []byte("changed"), 0644)).To(Succeed())

			planned, err := m.Preview(plan)
			Expect(err).ToNot(HaveOccurred())
			Expect(planned).To(ContainElements(
				PlannedFile{Path: "a.txt", Action: FileActionEqual},
				PlannedFile{Path: "b.txt", Action: FileActionUpdate},
			))
		})

		It("Should list files that would fail and keep going", func() {
			planned, err := m.Preview(&Plan{Files: []FileSpec{
				{Path: "bad.txt", When: "template =="},
				{Path: "broken.txt", Content: `{{ nosuchfunc }}`, Template: true},
				{Path: "good.txt", Content: "good"},
			}})
			Expect(err).ToNot(HaveOccurred())
			Expect(planned).To(HaveLen(3))
			Expect(planned[0].Path).To(Equal("bad.txt"))
			Expect(planned[0].Action).To(Equal(FileActionFail))
			Expect(planned[0].Err).To(MatchError(ContainSubstring("invalid condition")))
			Expect(planned[1].Path).To(Equal("broken.txt"))
			Expect(planned[1].Action).To(Equal(FileActionFail))
			Expect(planned[2]).To(Equal(PlannedFile{Path: "good.txt", Action: FileActionAdd}))
		})

		It("Should treat equivalent paths as one file", func() {
			planned, err := m.Preview(&Plan{Files: []FileSpec{
				{Path: "./a.txt", When: `template == "web"`},
				{Path: "a.txt", Content: "a"},
				{Path: "docs/../b.txt", When: `template == "web"`},
			}})
			Expect(err).ToNot(HaveOccurred())
			Expect(planned).To(Equal([]PlannedFile{
				{Path: "a.txt", Action: FileActionAdd},
				{Path: "b.txt", Action: FileActionSkip},
			}))
		})

		It("Should use the last content for repeated paths", func() {
			_, err := m.Apply(&Plan{Files: []FileSpec{{Path: "x.txt", Content: "two"}}})
			Expect(err).ToNot(HaveOccurred())

			planned, err := m.Preview(&Plan{Files: []FileSpec{
				{Path: "x.txt", Content: "one"},
				{Path: "x.txt", Content: "two"},
			}})
			Expect(err).ToNot(HaveOccurred())
			Expect(planned).To(Equal([]PlannedFile{{Path: "x.txt", Action: FileActionEqual}}))
		})
	})
})
