package extract

import "regexp"

// ruleSet holds the pattern rules for one file type. All patterns are
// applied line by line against the leading portion of each line, which
// keeps the scan linear in file size and tolerant of malformed code.
type ruleSet struct {
	// imports capture the raw import/include target in group 1
	imports []*regexp.Regexp
	// functions capture a declared function name in group 1
	functions []*regexp.Regexp
	// classes capture a declared class/type name in group 1
	classes []*regexp.Regexp
	// mainGuard matches an entry-point idiom anywhere in a line
	mainGuard *regexp.Regexp
}

var ruleSets = map[string]*ruleSet{
	"python": {
		imports: []*regexp.Regexp{
			regexp.MustCompile(`^\s*import\s+([\w.]+)`),
			regexp.MustCompile(`^\s*from\s+([\w.]+)\s+import\b`),
		},
		functions: []*regexp.Regexp{
			regexp.MustCompile(`^def\s+(\w+)\s*\(`),
			regexp.MustCompile(`^async\s+def\s+(\w+)\s*\(`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`^class\s+(\w+)\s*[(:]`),
		},
		mainGuard: regexp.MustCompile(`if\s+__name__\s*==\s*["']__main__["']`),
	},
	"javascript": {
		imports: []*regexp.Regexp{
			regexp.MustCompile(`^\s*import\s+.*?from\s+['"]([^'"]+)['"]`),
			regexp.MustCompile(`^\s*import\s+['"]([^'"]+)['"]`),
			regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`),
		},
		functions: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s*\*?\s*(\w+)\s*\(`),
			regexp.MustCompile(`^\s*(?:export\s+)?const\s+(\w+)\s*=\s*(?:async\s+)?\(.*?\)\s*=>`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?class\s+(\w+)`),
		},
		mainGuard: regexp.MustCompile(`require\.main\s*===?\s*module`),
	},
	"go": {
		imports: []*regexp.Regexp{
			regexp.MustCompile(`^\s*import\s+(?:\w+\s+)?"([^"]+)"`),
			regexp.MustCompile(`^\s*(?:\w+\s+)?"([^"]+)"\s*$`), // inside import blocks
		},
		functions: []*regexp.Regexp{
			regexp.MustCompile(`^func\s+(?:\([^)]*\)\s+)?(\w+)\s*[(\[]`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`^type\s+(\w+)\s+(?:struct|interface)\b`),
		},
		mainGuard: regexp.MustCompile(`^func\s+main\s*\(\s*\)`),
	},
	"java": {
		imports: []*regexp.Regexp{
			regexp.MustCompile(`^\s*import\s+(?:static\s+)?([\w.*]+)\s*;`),
		},
		functions: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:public|protected|private)\s+(?:static\s+)?(?:final\s+)?[\w<>\[\],\s]+?\s(\w+)\s*\(`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:public\s+|final\s+|abstract\s+)*(?:class|interface|enum|record)\s+(\w+)`),
		},
		mainGuard: regexp.MustCompile(`public\s+static\s+void\s+main\s*\(`),
	},
	"ruby": {
		imports: []*regexp.Regexp{
			regexp.MustCompile(`^\s*require(?:_relative)?\s+['"]([^'"]+)['"]`),
		},
		functions: []*regexp.Regexp{
			regexp.MustCompile(`^\s*def\s+(?:self\.)?(\w+[?!=]?)`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:class|module)\s+(\w+)`),
		},
		mainGuard: regexp.MustCompile(`__FILE__\s*==\s*\$(?:0|PROGRAM_NAME)`),
	},
	"rust": {
		imports: []*regexp.Regexp{
			regexp.MustCompile(`^\s*use\s+([\w:]+)`),
			regexp.MustCompile(`^\s*extern\s+crate\s+(\w+)`),
		},
		functions: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:async\s+)?(?:unsafe\s+)?fn\s+(\w+)`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:struct|enum|trait)\s+(\w+)`),
		},
		mainGuard: regexp.MustCompile(`^\s*(?:pub\s+)?fn\s+main\s*\(`),
	},
	"c": {
		imports: []*regexp.Regexp{
			regexp.MustCompile(`^\s*#\s*include\s+[<"]([^>"]+)[>"]`),
		},
		functions: []*regexp.Regexp{
			regexp.MustCompile(`^[\w*]+[\w\s*]*?\b(\w+)\s*\([^;]*$`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:typedef\s+)?struct\s+(\w+)`),
		},
		mainGuard: regexp.MustCompile(`\bint\s+main\s*\(`),
	},
	"csharp": {
		imports: []*regexp.Regexp{
			regexp.MustCompile(`^\s*using\s+([\w.]+)\s*;`),
		},
		functions: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:public|protected|private|internal)\s+(?:static\s+)?(?:async\s+)?[\w<>\[\],\s]+?\s(\w+)\s*\(`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:public\s+|internal\s+|sealed\s+|abstract\s+|partial\s+)*(?:class|interface|struct|record)\s+(\w+)`),
		},
		mainGuard: regexp.MustCompile(`static\s+(?:async\s+)?(?:void|int|Task)\s+Main\s*\(`),
	},
	"php": {
		imports: []*regexp.Regexp{
			regexp.MustCompile(`^\s*use\s+([\w\\]+)`),
			regexp.MustCompile(`^\s*(?:require|include)(?:_once)?\s*\(?\s*['"]([^'"]+)['"]`),
		},
		functions: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:public\s+|protected\s+|private\s+|static\s+)*function\s+(\w+)\s*\(`),
		},
		classes: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:abstract\s+|final\s+)?(?:class|interface|trait)\s+(\w+)`),
		},
	},
	"shell": {
		imports: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:source|\.)\s+(\S+)`),
		},
		functions: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:function\s+)?(\w+)\s*\(\)\s*\{`),
		},
	},
}

// typeAliases folds file types that share pattern rules.
var typeAliases = map[string]string{
	"typescript": "javascript",
	"cpp":        "c",
	"kotlin":     "java",
}

// rulesFor returns the rule set for a file type, nil when unsupported.
func rulesFor(fileType string) *ruleSet {
	if alias, ok := typeAliases[fileType]; ok {
		fileType = alias
	}
	return ruleSets[fileType]
}
