package ai

import (
	"bytes"
	"strings"
	"text/template"
)

// Template Variables Available:
//   - {{.Request}}: the user's natural-language request
//   - {{.OS}}: display name of the target operating system
//   - {{.Shell}}: the shell the command must run in
var (
	systemTemplate = template.Must(template.New("system").Parse(
		`You are a cautious command-line expert for {{.OS}}.
Translate the user's request into exactly one {{.Shell}} command.
Put the command alone on the first line. You may add one short sentence of explanation on the next line.
Do not use markdown unless you wrap the command in a single fenced block.
Never suggest destructive commands such as recursive deletes, disk formatting or chmod 777.
If no safe command exists, reply with NONE.`))

	userTemplate = template.Must(template.New("user").Parse(
		`Request: {{.Request}}`))

	completionTemplate = template.Must(template.New("completion").Parse(
		`Convert this to a {{.OS}} terminal command.
Only output the command, nothing else.
Request: {{.Request}}
Command:`))
)

type templateData struct {
	Request string
	OS      string
	Shell   string
}

func buildTemplateData(request, osHint string) templateData {
	data := templateData{Request: strings.TrimSpace(request), OS: "Linux", Shell: "bash"}
	switch strings.ToLower(osHint) {
	case "windows":
		data.OS, data.Shell = "Windows", "PowerShell"
	case "darwin":
		data.OS, data.Shell = "macOS", "zsh"
	}
	return data
}

func executeTemplate(tmpl *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// renderChatPrompt returns the system and user messages for chat-style backends.
func renderChatPrompt(request, osHint string) (string, string, error) {
	data := buildTemplateData(request, osHint)
	system, err := executeTemplate(systemTemplate, data)
	if err != nil {
		return "", "", err
	}
	user, err := executeTemplate(userTemplate, data)
	if err != nil {
		return "", "", err
	}
	return system, user, nil
}

// renderCompletionPrompt returns the single raw prompt used by local models.
func renderCompletionPrompt(request, osHint string) (string, error) {
	return executeTemplate(completionTemplate, buildTemplateData(request, osHint))
}
