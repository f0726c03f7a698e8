package hcl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths and merges all discovered
// blocks into one model. It is agnostic to which file declares what.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	model := &config.Model{}
	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		m, diags := translateFile(ctx, hclFile.Body)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		model.Merge(m)
	}

	if err := checkUnique(model); err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "blackboards", len(model.Blackboards), "trees", len(model.Trees), "fsms", len(model.Machines))
	return model, nil
}

// LoadSource parses a single in-memory file. It is mostly useful in tests.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*config.Model, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	m, diags := translateFile(ctx, hclFile.Body)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	if err := checkUnique(m); err != nil {
		return nil, err
	}
	return m, nil
}

func checkUnique(m *config.Model) error {
	seen := map[string]config.Source{}
	check := func(kind, name string, src config.Source) error {
		key := kind + " " + name
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%s %q declared twice: %s and %s", kind, name, prev.Range, src.Range)
		}
		seen[key] = src
		return nil
	}
	for _, b := range m.Blackboards {
		if err := check("blackboard", b.Name, b.Source); err != nil {
			return err
		}
	}
	// Trees and state machines share one namespace; subtree references
	// resolve by name.
	for _, t := range m.Trees {
		if err := check("graph", t.Name, t.Source); err != nil {
			return err
		}
	}
	for _, f := range m.Machines {
		if err := check("graph", f.Name, f.Source); err != nil {
			return err
		}
	}
	return nil
}

// findAllHCLFiles resolves paths into a sorted, de-duplicated list of .hcl
// files. A path may be a file, a directory searched recursively, or a
// doublestar glob pattern. Paths that match nothing are skipped.
func findAllHCLFiles(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var allFiles []string
	add := func(p string) {
		p = filepath.Clean(p)
		if filepath.Ext(p) != ".hcl" {
			return
		}
		if _, wasSeen := seen[p]; !wasSeen {
			seen[p] = struct{}{}
			allFiles = append(allFiles, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		switch {
		case err == nil && info.IsDir():
			matches, err := doublestar.Glob(os.DirFS(path), "**/*.hcl", doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("error searching directory %s: %w", path, err)
			}
			for _, m := range matches {
				add(filepath.Join(path, filepath.FromSlash(m)))
			}
		case err == nil:
			add(path)
		case errors.Is(err, fs.ErrNotExist):
			matches, gerr := doublestar.FilepathGlob(path, doublestar.WithFilesOnly())
			if gerr != nil {
				return nil, fmt.Errorf("invalid path pattern %s: %w", path, gerr)
			}
			for _, m := range matches {
				add(m)
			}
		default:
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
	}
	slices.Sort(allFiles)
	return allFiles, nil
}
