// Package gridfile loads sweep definitions from HCL files: the base run
// configuration plus the axes to vary. A path may point at one file or at
// a directory tree of .hcl files that are loaded in lexical order.
package gridfile

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/fecworks/fecsweep/internal/config"
	"github.com/fecworks/fecsweep/internal/ctxlog"
	"github.com/fecworks/fecsweep/internal/fsutil"
	"github.com/fecworks/fecsweep/internal/sweep"
)

// Definition is one named sweep ready to run.
type Definition struct {
	Name string
	Base config.RunConfiguration
	Spec sweep.Spec
}

// Load reads every sweep definition under path. Sweep names must be
// unique across all loaded files.
func Load(ctx context.Context, path string) ([]Definition, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading sweep path: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("finding sweep files in %s: %w", path, err)
		}
		if len(files) == 0 {
			logger.Warn("no .hcl sweep files found", "path", path)
			return nil, nil
		}
	}

	parser := hclparse.NewParser()
	var defs []Definition
	seen := make(map[string]string)
	for _, file := range files {
		fileDefs, err := loadFile(file, parser)
		if err != nil {
			return nil, err
		}
		for _, def := range fileDefs {
			if prev, dup := seen[def.Name]; dup {
				return nil, fmt.Errorf("sweep %q defined in both %s and %s", def.Name, prev, file)
			}
			seen[def.Name] = file
			defs = append(defs, def)
		}
		logger.Debug("loaded sweep file", "file", file, "sweeps", len(fileDefs))
	}

	return defs, nil
}

func loadFile(filePath string, parser *hclparse.Parser) ([]Definition, error) {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, diags)
	}

	var parsed fileSchema
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", filePath, diags)
	}

	defs := make([]Definition, 0, len(parsed.Sweeps))
	for _, s := range parsed.Sweeps {
		def, err := translateSweep(s, filePath)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}
