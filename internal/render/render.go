// Package render turns the markdown dialect returned by the completion
// endpoint into display markup.
//
// Rendering is a fixed sequence of regular-expression substitutions, not a
// parser. Later rules see the output of earlier ones (a bold span inside a
// header is rewritten after the header wrapper exists, and numbered steps match
// the <strong> label rule 3 produced), so the order of the rules table is part
// of the contract. Source text is not escaped.
package render

import (
	"regexp"
	"strings"
)

type rule struct {
	name    string
	pattern *regexp.Regexp
	replace string
}

// rules are applied top to bottom.
var rules = []rule{
	{
		name:    "heading",
		pattern: regexp.MustCompile(`(?m)^# (.*)$`),
		replace: `<h1 class="text-2xl font-bold text-gray-900 mb-4 flex items-center gap-2">${1}</h1>`,
	},
	{
		name:    "subheading",
		pattern: regexp.MustCompile(`(?m)^## (.*)$`),
		replace: `<h2 class="text-xl font-semibold text-gray-800 mb-3 mt-6 flex items-center gap-2">${1}</h2>`,
	},
	{
		name:    "bold",
		pattern: regexp.MustCompile(`\*\*(.*?)\*\*`),
		replace: `<strong class="font-semibold text-gray-900">${1}</strong>`,
	},
	{
		name:    "shell-block",
		pattern: regexp.MustCompile("(?s)```bash\n(.*?)\n```"),
		replace: `<div class="bg-gray-900 text-green-400 p-4 rounded-lg font-mono text-sm my-4"><pre>${1}</pre></div>`,
	},
	{
		name:    "code-block",
		pattern: regexp.MustCompile("(?s)```(.*?)```"),
		replace: `<div class="bg-gray-100 p-4 rounded-lg font-mono text-sm my-4"><pre>${1}</pre></div>`,
	},
	{
		name:    "inline-code",
		pattern: regexp.MustCompile("`([^`]+)`"),
		replace: `<code class="bg-gray-100 px-2 py-1 rounded text-sm font-mono">${1}</code>`,
	},
	{
		name:    "bullet",
		pattern: regexp.MustCompile(`(?m)^• (.*)$`),
		replace: `<li class="flex items-start gap-2 mb-2"><span class="text-blue-500 mt-1">•</span><span class="text-gray-700">${1}</span></li>`,
	},
	{
		// N. **Label** ...: rest, with the label already wrapped by "bold".
		name:    "numbered-step",
		pattern: regexp.MustCompile(`(?m)^(\d+)\. <strong class="font-semibold text-gray-900">(.*?)</strong>.*?: (.*)$`),
		replace: `<div class="flex items-start gap-3 mb-3"><span class="bg-gradient-to-r from-blue-500 to-purple-500 text-white rounded-full w-6 h-6 flex items-center justify-center text-sm font-semibold mt-0.5">${1}</span><div><strong class="text-gray-900">${2}</strong>: <span class="text-gray-700">${3}</span></div></div>`,
	},
	{
		name:    "rule",
		pattern: regexp.MustCompile(`(?m)^---$`),
		replace: `<hr class="border-gray-200 my-4">`,
	},
	{
		name:    "italic",
		pattern: regexp.MustCompile(`\*(.*?)\*`),
		replace: `<em class="text-gray-500 text-sm">${1}</em>`,
	},
	{
		name:    "line-break",
		pattern: regexp.MustCompile(`\n`),
		replace: `<br>`,
	},
}

// Render converts text to markup. It never fails: anything no rule matches
// passes through unchanged.
func Render(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, r := range rules {
		text = r.pattern.ReplaceAllString(text, r.replace)
	}
	return text
}

// Rules returns the rule names in application order.
func Rules() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}
