// Package classify maps paths to file types and categories using an
// extension table with a bounded go-enry content sniff as fallback.
package classify

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/petrarca/repo-scanner/internal/types"
)

// SniffSize is the maximum content prefix the classifier will look at.
// Callers must never hand it more than this.
const SniffSize = 512

type classification struct {
	fileType string
	category types.FileCategory
}

// extensionTable is the primary classification signal. A confident match
// here is never downgraded by the content sniff.
var extensionTable = map[string]classification{
	// Source languages
	".py":    {"python", types.CategorySource},
	".pyw":   {"python", types.CategorySource},
	".js":    {"javascript", types.CategorySource},
	".mjs":   {"javascript", types.CategorySource},
	".cjs":   {"javascript", types.CategorySource},
	".jsx":   {"javascript", types.CategorySource},
	".ts":    {"typescript", types.CategorySource},
	".tsx":   {"typescript", types.CategorySource},
	".go":    {"go", types.CategorySource},
	".java":  {"java", types.CategorySource},
	".rb":    {"ruby", types.CategorySource},
	".rs":    {"rust", types.CategorySource},
	".c":     {"c", types.CategorySource},
	".h":     {"c", types.CategorySource},
	".cpp":   {"cpp", types.CategorySource},
	".cc":    {"cpp", types.CategorySource},
	".cxx":   {"cpp", types.CategorySource},
	".hpp":   {"cpp", types.CategorySource},
	".cs":    {"csharp", types.CategorySource},
	".php":   {"php", types.CategorySource},
	".sh":    {"shell", types.CategorySource},
	".bash":  {"shell", types.CategorySource},
	".zsh":   {"shell", types.CategorySource},
	".kt":    {"kotlin", types.CategorySource},
	".kts":   {"kotlin", types.CategorySource},
	".swift": {"swift", types.CategorySource},
	".scala": {"scala", types.CategorySource},
	".m":     {"matlab", types.CategorySource},
	".r":     {"r", types.CategorySource},
	".pl":    {"perl", types.CategorySource},
	".lua":   {"lua", types.CategorySource},
	".dart":  {"dart", types.CategorySource},
	".sql":   {"sql", types.CategorySource},

	// Config formats
	".yaml":       {"yaml", types.CategoryConfig},
	".yml":        {"yaml", types.CategoryConfig},
	".toml":       {"toml", types.CategoryConfig},
	".ini":        {"ini", types.CategoryConfig},
	".cfg":        {"ini", types.CategoryConfig},
	".conf":       {"conf", types.CategoryConfig},
	".env":        {"dotenv", types.CategoryConfig},
	".properties": {"properties", types.CategoryConfig},
	".tf":         {"terraform", types.CategoryConfig},

	// Data formats
	".json":    {"json", types.CategoryData},
	".jsonl":   {"json", types.CategoryData},
	".xml":     {"xml", types.CategoryData},
	".csv":     {"csv", types.CategoryData},
	".tsv":     {"csv", types.CategoryData},
	".parquet": {"parquet", types.CategoryData},

	// Documentation
	".md":   {"markdown", types.CategoryDoc},
	".rst":  {"rst", types.CategoryDoc},
	".txt":  {"text", types.CategoryDoc},
	".adoc": {"asciidoc", types.CategoryDoc},

	// Binary-ish
	".so":    {"binary", types.CategoryBinary},
	".dll":   {"binary", types.CategoryBinary},
	".dylib": {"binary", types.CategoryBinary},
	".exe":   {"binary", types.CategoryBinary},
	".a":     {"binary", types.CategoryBinary},
	".o":     {"binary", types.CategoryBinary},
	".bin":   {"binary", types.CategoryBinary},
	".png":   {"image", types.CategoryBinary},
	".jpg":   {"image", types.CategoryBinary},
	".jpeg":  {"image", types.CategoryBinary},
	".gif":   {"image", types.CategoryBinary},
	".ico":   {"image", types.CategoryBinary},
	".pdf":   {"pdf", types.CategoryBinary},
	".zip":   {"archive", types.CategoryBinary},
	".gz":    {"archive", types.CategoryBinary},
	".tar":   {"archive", types.CategoryBinary},
	".jar":   {"archive", types.CategoryBinary},
	".whl":   {"archive", types.CategoryBinary},
}

// filenameTable classifies well-known extensionless files by exact name.
var filenameTable = map[string]classification{
	"go.mod":         {"gomod", types.CategoryConfig},
	"go.sum":         {"gosum", types.CategoryConfig},
	"Dockerfile":     {"dockerfile", types.CategoryConfig},
	"Makefile":       {"makefile", types.CategoryConfig},
	"makefile":       {"makefile", types.CategoryConfig},
	"CMakeLists.txt": {"cmake", types.CategoryConfig},
	"Gemfile":        {"rubygems", types.CategoryConfig},
	"Rakefile":       {"ruby", types.CategorySource},
	".gitignore":     {"gitignore", types.CategoryConfig},
	".gitattributes": {"gitconfig", types.CategoryConfig},
	".editorconfig":  {"editorconfig", types.CategoryConfig},
}

// shebangTable maps interpreter names to file types for the content sniff.
var shebangTable = map[string]string{
	"python": "python",
	"node":   "javascript",
	"ruby":   "ruby",
	"sh":     "shell",
	"bash":   "shell",
	"zsh":    "shell",
	"perl":   "perl",
}

// Classifier assigns a file type and category to paths.
type Classifier struct{}

// New creates a classifier.
func New() *Classifier {
	return &Classifier{}
}

// Classify maps a file name to a (fileType, category) pair. sniff is an
// optional content prefix (at most SniffSize bytes); it can upgrade an
// unknown classification to source but never overrides a confident
// extension or filename match.
func (c *Classifier) Classify(name string, sniff []byte) (string, types.FileCategory) {
	if cls, ok := filenameTable[filepath.Base(name)]; ok {
		return cls.fileType, cls.category
	}

	ext := strings.ToLower(filepath.Ext(name))
	if cls, ok := extensionTable[ext]; ok {
		return cls.fileType, cls.category
	}

	if len(sniff) == 0 {
		return "", types.CategoryUnknown
	}
	return c.sniffContent(name, sniff)
}

// sniffContent is the best-effort upgrade path for unknown extensions.
func (c *Classifier) sniffContent(name string, sniff []byte) (string, types.FileCategory) {
	if len(sniff) > SniffSize {
		sniff = sniff[:SniffSize]
	}

	if enry.IsBinary(sniff) {
		return "binary", types.CategoryBinary
	}

	if ft := shebangType(sniff); ft != "" {
		return ft, types.CategorySource
	}

	// go-enry knows special filenames (Jenkinsfile, Vagrantfile, ...) and
	// can classify by content
	if lang := enry.GetLanguage(filepath.Base(name), sniff); lang != "" && lang != "Text" {
		if enry.GetLanguageType(lang) == enry.Programming {
			return strings.ToLower(lang), types.CategorySource
		}
	}

	return "", types.CategoryUnknown
}

// shebangType parses a "#!" first line and maps the interpreter to a type.
func shebangType(sniff []byte) string {
	if !bytes.HasPrefix(sniff, []byte("#!")) {
		return ""
	}
	line := sniff
	if idx := bytes.IndexByte(sniff, '\n'); idx >= 0 {
		line = sniff[:idx]
	}

	fields := strings.Fields(string(line[2:]))
	if len(fields) == 0 {
		return ""
	}
	interp := filepath.Base(fields[0])
	if interp == "env" && len(fields) > 1 {
		interp = filepath.Base(fields[1])
	}
	// Strip version suffixes like python3.11
	interp = strings.TrimRight(interp, "0123456789.")
	return shebangTable[interp]
}
