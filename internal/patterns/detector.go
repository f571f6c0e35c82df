// Package patterns flags higher-level structural signals (entry points,
// build/config manifests) over an assembled scan result. Detection is pure
// aggregation: the detector never touches the filesystem itself.
package patterns

import (
	"path"
	"strings"

	"github.com/petrarca/repo-scanner/internal/types"
	"golang.org/x/mod/modfile"
)

// manifestNames maps well-known manifest file names to their kind.
var manifestNames = map[string]types.ManifestKind{
	"go.mod":             types.ManifestGoMod,
	"package.json":       types.ManifestNPM,
	"pyproject.toml":     types.ManifestPython,
	"setup.py":           types.ManifestPython,
	"requirements.txt":   types.ManifestPython,
	"Pipfile":            types.ManifestPython,
	"Cargo.toml":         types.ManifestCargo,
	"pom.xml":            types.ManifestMaven,
	"build.gradle":       types.ManifestGradle,
	"build.gradle.kts":   types.ManifestGradle,
	"Gemfile":            types.ManifestRubyGems,
	"composer.json":      types.ManifestComposer,
	"Dockerfile":         types.ManifestDocker,
	"docker-compose.yml": types.ManifestDocker,
	"Makefile":           types.ManifestMakefile,
	"makefile":           types.ManifestMakefile,
	"CMakeLists.txt":     types.ManifestCMake,
}

var licenseNames = map[string]bool{
	"LICENSE":   true,
	"LICENCE":   true,
	"COPYING":   true,
	"NOTICE":    true,
	"UNLICENSE": true,
}

// isLicenseFile matches LICENSE-style names ignoring case and a trailing
// .md/.txt extension.
func isLicenseFile(name string) bool {
	upper := strings.ToUpper(name)
	upper = strings.TrimSuffix(upper, ".MD")
	upper = strings.TrimSuffix(upper, ".TXT")
	return licenseNames[upper]
}

// Detector aggregates structural signals from traversed files.
type Detector struct{}

// New creates a detector.
func New() *Detector {
	return &Detector{}
}

// Detect scans an assembled file list and returns the pattern summary.
func (d *Detector) Detect(files []types.TraversedFile) types.PatternSummary {
	summary := types.PatternSummary{
		EntryPoints: []string{},
		Manifests:   []types.Manifest{},
	}

	for _, f := range files {
		if !f.IsFile {
			continue
		}

		if f.CodeMetadata != nil && f.CodeMetadata.HasMainGuard {
			summary.EntryPoints = append(summary.EntryPoints, f.RelativePath)
		}

		name := path.Base(f.RelativePath)
		if kind, ok := manifestNames[name]; ok {
			summary.Manifests = append(summary.Manifests, types.Manifest{
				RelativePath: f.RelativePath,
				Kind:         kind,
			})
		} else if kind, ok := manifestByPattern(name, f.RelativePath); ok {
			summary.Manifests = append(summary.Manifests, types.Manifest{
				RelativePath: f.RelativePath,
				Kind:         kind,
			})
		}

		if isLicenseFile(name) {
			summary.LicenseFiles = append(summary.LicenseFiles, f.RelativePath)
		}
	}

	return summary
}

// manifestByPattern covers manifest families that are not fixed names.
func manifestByPattern(name, relPath string) (types.ManifestKind, bool) {
	switch {
	case strings.HasSuffix(name, ".csproj") || strings.HasSuffix(name, ".sln"):
		return types.ManifestDotNet, true
	case strings.HasSuffix(name, ".tf"):
		return types.ManifestTerraform, true
	case strings.HasPrefix(relPath, ".github/workflows/") &&
		(strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml")):
		return types.ManifestCI, true
	case name == ".gitlab-ci.yml" || name == "Jenkinsfile":
		return types.ManifestCI, true
	}
	return "", false
}

// GoModulePath extracts the module path from go.mod content using the
// official modfile parser. Callers supply the content; an unparseable file
// yields an empty path, never an error.
func GoModulePath(content []byte) string {
	return modfile.ModulePath(content)
}

// EnrichGoManifests fills the Module field of go.mod manifests using a
// content lookup supplied by the caller, keeping Detect itself free of I/O.
func EnrichGoManifests(summary *types.PatternSummary, readFile func(relPath string) ([]byte, error)) {
	for i, m := range summary.Manifests {
		if m.Kind != types.ManifestGoMod {
			continue
		}
		content, err := readFile(m.RelativePath)
		if err != nil {
			continue
		}
		summary.Manifests[i].Module = GoModulePath(content)
	}
}
