package app

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dshills/hltext/internal/host"
	"github.com/go-enry/go-enry/v2"
)

// tsxLang finds a Vue block declaring lang="tsx".
var tsxLang = regexp.MustCompile(`lang=['"]tsx['"]`)

// LanguageKey returns the alias set used to resolve rules for doc. Some
// editor language IDs are widened so that rules declared under the
// framework name also apply.
func LanguageKey(doc host.Document) string {
	switch doc.LanguageID {
	case "vue":
		if tsxLang.MatchString(doc.Text) {
			return "vuetsx|vue"
		}
		return "vue"
	case "javascriptreact", "typescriptreact":
		return "react|javascriptreact|typescriptreact"
	case "plaintext":
		return "txt|plaintext"
	case "markdown":
		return "md|markdown"
	}
	return doc.LanguageID
}

// enryLanguageIDs maps linguist language names to editor language IDs
// where lower-casing the name is not enough.
var enryLanguageIDs = map[string]string{
	"TSX":                "typescriptreact",
	"Text":               "plaintext",
	"Vue":                "vue",
	"Markdown":           "markdown",
	"Shell":              "shellscript",
	"Batchfile":          "bat",
	"C++":                "cpp",
	"C#":                 "csharp",
	"Objective-C":        "objective-c",
	"Git Config":         "properties",
	"Ignore List":        "ignore",
	"JSON with Comments": "jsonc",
}

// extensionLanguageIDs covers extensions linguist files under a broader
// language than editors do.
var extensionLanguageIDs = map[string]string{
	".jsx": "javascriptreact",
	".tsx": "typescriptreact",
	".txt": "plaintext",
	".log": "Log",
}

// DetectLanguageID guesses the editor language ID of a file from its name
// and content.
func DetectLanguageID(path string, content []byte) string {
	if id, ok := extensionLanguageIDs[strings.ToLower(filepath.Ext(path))]; ok {
		return id
	}

	lang := enry.GetLanguage(filepath.Base(path), content)
	if lang == "" {
		return "plaintext"
	}
	if id, ok := enryLanguageIDs[lang]; ok {
		return id
	}
	return strings.ToLower(strings.ReplaceAll(lang, " ", ""))
}
