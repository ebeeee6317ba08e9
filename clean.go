// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package projinit

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
)

// CleanPolicy determines what a Cleaner removes
type CleanPolicy struct {
	// Directories are base names of directories to remove along with their contents
	Directories []string
	// Suffixes are file name endings of files to remove
	Suffixes []string
	// Keep are slash separated glob patterns relative to the root that are never removed
	Keep []string
}

var (
	cleanDirectories           = []string{"build", "dist", "__pycache__"}
	cleanSuffixes              = []string{".pyc", ".pyo", ".pyd", ".so"}
	aggressiveCleanDirectories = []string{".pytest_cache", ".mypy_cache", ".tox", ".ruff_cache"}
	aggressiveCleanSuffixes    = []string{".coverage"}
)

// CleanPolicyFor is the default policy, aggressive also removes tool caches and coverage data
func CleanPolicyFor(aggressive bool) CleanPolicy {
	policy := CleanPolicy{
		Directories: slices.Clone(cleanDirectories),
		Suffixes:    slices.Clone(cleanSuffixes),
	}

	if aggressive {
		policy.Directories = append(policy.Directories, aggressiveCleanDirectories...)
		policy.Suffixes = append(policy.Suffixes, aggressiveCleanSuffixes...)
	}

	return policy
}

// CleanReport lists what Clean removed, or would have removed in dry run mode
type CleanReport struct {
	Removed []string
	DryRun  bool
}

// Cleaner removes build artifacts below a root directory
type Cleaner struct {
	root   string
	policy CleanPolicy
	dryRun bool
	log    Logger
}

// NewCleaner creates a cleaner for root using policy
func NewCleaner(root string, policy CleanPolicy) (*Cleaner, error) {
	if root == "" {
		return nil, fmt.Errorf("root directory is required")
	}

	for _, p := range policy.Keep {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid keep pattern %q", p)
		}
	}

	// WalkDir does not follow a symlinked root, missing roots are reported by Clean
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		resolved = root
	}

	return &Cleaner{
		root:   filepath.Clean(resolved),
		policy: policy,
		log:    nopLogger{},
	}, nil
}

// Logger configures a logger to use, no logging is done without this
func (c *Cleaner) Logger(log Logger) {
	c.log = loggerOrNop(log)
}

// DryRun reports matches without removing anything
func (c *Cleaner) DryRun(dryRun bool) {
	c.dryRun = dryRun
}

// Clean walks the root top-down removing matching directories and files.
//
// The first removal that fails stops the walk, the report then holds the
// paths removed before the failure.
func (c *Cleaner) Clean() (*CleanReport, error) {
	report := &CleanReport{DryRun: c.dryRun}

	c.log.Infof("Cleaning project in directory: %s", c.root)

	st, err := os.Stat(c.root)
	if err != nil {
		return report, classifyError("reading", c.root, err)
	}
	if !st.IsDir() {
		return report, fmt.Errorf("%w: %s is not a directory", ErrIOFailure, c.root)
	}

	err = filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return classifyError("reading", path, err)
		}

		if path == c.root {
			return nil
		}

		keep, err := c.kept(path)
		if err != nil {
			return err
		}

		switch {
		case keep && d.IsDir():
			c.log.Debugf("Keeping %s", path)
			return filepath.SkipDir

		case keep:
			return nil

		case d.IsDir():
			if !lo.Contains(c.policy.Directories, d.Name()) {
				return nil
			}

			err = c.remove(path, os.RemoveAll)
			if err != nil {
				return err
			}
			report.Removed = append(report.Removed, path)

			return filepath.SkipDir

		case c.matchesSuffix(d.Name()):
			err = c.remove(path, os.Remove)
			if err != nil {
				return err
			}
			report.Removed = append(report.Removed, path)
		}

		return nil
	})
	if err != nil {
		c.log.Errorf("Cleaning failed: %v", err)
		return report, err
	}

	if len(report.Removed) == 0 {
		c.log.Infof("No files or directories needed cleaning")
	}

	return report, nil
}

func (c *Cleaner) remove(path string, rm func(string) error) error {
	if c.dryRun {
		c.log.Infof("Would remove %s", path)
		return nil
	}

	c.log.Debugf("Removing %s", path)

	err := rm(path)
	if err != nil {
		return classifyError("removing", path, err)
	}

	return nil
}

func (c *Cleaner) matchesSuffix(name string) bool {
	return lo.ContainsBy(c.policy.Suffixes, func(s string) bool {
		return strings.HasSuffix(name, s)
	})
}

func (c *Cleaner) kept(path string) (bool, error) {
	if len(c.policy.Keep) == 0 {
		return false, nil
	}

	rel, err := filepath.Rel(c.root, path)
	if err != nil {
		return false, err
	}
	rel = filepath.ToSlash(rel)

	for _, p := range c.policy.Keep {
		if doublestar.MatchUnvalidated(p, rel) {
			return true, nil
		}
	}

	return false, nil
}
