package summarize

import (
	"regexp"
	"strings"
)

// conventionalPattern matches a Conventional Commits first line:
// type(scope)?: subject.
var conventionalPattern = regexp.MustCompile(
	`^(feat|fix|docs|style|refactor|test|chore|perf|ci|build|revert)(\(.+\))?!?:\s*.+`)

// IsConventional reports whether the message's first line already
// follows the conventional format.
func IsConventional(message string) bool {
	return conventionalPattern.MatchString(firstLine(message))
}

// EnsureConventional returns message unchanged when it already
// conforms; otherwise it classifies the dominant change from keyword
// evidence (English plus the configured language's equivalents) and
// prepends "type: ". Idempotent by construction.
func EnsureConventional(message, language string) string {
	if IsConventional(message) {
		return message
	}
	return classifyType(message, language) + ": " + message
}

// typeKeywords maps commit types to evidence words. Scanning is
// case-insensitive substring, so these work mid-word where sensible.
var typeKeywords = map[string][]string{
	"fix":      {"fix", "bug", "error", "crash", "issue", "fault", "patch", "resolve"},
	"feat":     {"add", "new", "implement", "support", "introduce", "feature", "enable"},
	"docs":     {"doc", "readme", "comment", "changelog", "documentation"},
	"refactor": {"refactor", "restructure", "rework", "simplify", "clean up", "cleanup", "rename", "move"},
	"test":     {"test", "coverage", "spec"},
	"style":    {"format", "style", "lint", "whitespace", "indent"},
	"perf":     {"performance", "optimize", "speed", "faster", "cache"},
	"chore":    {"chore", "dependency", "dependencies", "bump", "upgrade", "version"},
	"build":    {"build", "makefile", "compile"},
	"ci":       {"ci", "pipeline", "workflow", "github actions"},
}

// languageKeywords adds per-language evidence, merged with the English
// table when the configured output language matches.
var languageKeywords = map[string]map[string][]string{
	"zh": {
		"fix":      {"修复", "修正", "解决", "错误", "崩溃", "问题"},
		"feat":     {"新增", "添加", "实现", "支持", "功能"},
		"docs":     {"文档", "注释", "说明"},
		"refactor": {"重构", "重命名", "简化", "整理"},
		"test":     {"测试", "用例"},
		"style":    {"格式", "样式"},
		"perf":     {"性能", "优化", "缓存"},
		"chore":    {"依赖", "升级", "版本"},
	},
	"es": {
		"fix":      {"corrige", "arregla", "soluciona", "error"},
		"feat":     {"añade", "agrega", "implementa", "soporta"},
		"docs":     {"documentación", "documentacion"},
		"refactor": {"refactoriza", "renombra", "simplifica"},
		"test":     {"prueba", "pruebas"},
	},
	"ja": {
		"fix":      {"修正", "バグ", "不具合"},
		"feat":     {"追加", "実装", "対応"},
		"docs":     {"ドキュメント", "コメント"},
		"refactor": {"リファクタリング", "整理"},
		"test":     {"テスト"},
	},
}

// classifyType picks the commit type with the most keyword hits.
// "feat" and "fix" win ties in that order; with no evidence at all the
// change is filed as chore.
func classifyType(message, language string) string {
	lower := strings.ToLower(message)

	scores := make(map[string]int)
	for typ, words := range typeKeywords {
		for _, w := range words {
			scores[typ] += strings.Count(lower, w)
		}
	}
	if extra, ok := languageKeywords[normalizeLanguage(language)]; ok {
		for typ, words := range extra {
			for _, w := range words {
				scores[typ] += strings.Count(lower, w)
			}
		}
	}

	// Stable precedence keeps classification deterministic.
	order := []string{"fix", "feat", "refactor", "docs", "test", "perf", "style", "build", "ci", "chore"}
	best, bestScore := "chore", 0
	for _, typ := range order {
		if scores[typ] > bestScore {
			best, bestScore = typ, scores[typ]
		}
	}
	return best
}

func normalizeLanguage(language string) string {
	l := strings.ToLower(strings.TrimSpace(language))
	switch {
	case strings.HasPrefix(l, "zh") || l == "chinese" || l == "中文" || l == "简体中文":
		return "zh"
	case strings.HasPrefix(l, "es") || l == "spanish":
		return "es"
	case strings.HasPrefix(l, "ja") || l == "japanese" || l == "日本語":
		return "ja"
	default:
		return l
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
