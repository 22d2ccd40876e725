// Package parser turns free-text model output into a single shell command.
//
// Every command that reaches execution passes through Parse or CleanCommand.
// Extraction is fail-closed: ambiguous or unsafe text yields no command at all.
// The destructive-command denylist is best-effort and is not a security boundary.
package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxLineLength is the exclusive upper bound for a raw candidate line.
	MaxLineLength = 250
	// MaxCleanLength is the exclusive upper bound for a cleaned command.
	MaxCleanLength = 200

	fence = "```"
)

// Stage identifies which extraction step accepted a command.
type Stage int

const (
	StageNone Stage = iota
	StageFencedBlock
	StageLineScan
	StageHeuristic
)

func (s Stage) String() string {
	switch s {
	case StageFencedBlock:
		return "fenced_block"
	case StageLineScan:
		return "line_scan"
	case StageHeuristic:
		return "heuristic"
	default:
		return "none"
	}
}

// Reason explains why a line or a whole response was rejected.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonEmpty         Reason = "empty"
	ReasonNoneToken     Reason = "none_token"
	ReasonFenceMarker   Reason = "fence_marker"
	ReasonTooLong       Reason = "too_long"
	ReasonBannedLeading Reason = "banned_leading_character"
	ReasonTrailingSep   Reason = "trailing_separator"
	ReasonDestructive   Reason = "destructive_command"
	ReasonNoCandidate   Reason = "no_valid_candidate"
)

// Outcome is the internal sum type of an extraction: Accepted or Rejected.
type Outcome interface {
	isOutcome()
}

// Accepted carries an extracted command.
type Accepted struct {
	Command     string
	Explanation string
	Stage       Stage
}

// Rejected carries the reason nothing was extracted.
type Rejected struct {
	Reason Reason
}

func (Accepted) isOutcome() {}
func (Rejected) isOutcome() {}

var (
	// An info string only counts as a language tag when a newline follows it.
	fencedBlockPattern = regexp.MustCompile("(?s)```(?:([A-Za-z0-9_+-]+)[ \\t]*\\n)?[ \\t]*\\n?(.+?)\\n?```")

	shellFenceTags = map[string]bool{
		"bash": true, "sh": true, "shell": true, "zsh": true, "fish": true, "console": true,
		"cmd": true, "bat": true, "powershell": true, "pwsh": true, "ps1": true,
	}

	bannedLeading     = regexp.MustCompile(`^[` + "`" + `{}\[\]\\]`)
	trailingSeparator = regexp.MustCompile(`[;&|]\s*$`)

	destructivePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\brm\s+-(?:rf|fr)`),
		regexp.MustCompile(`\bchmod\s+(?:-R\s+)?777\b`),
		regexp.MustCompile(`\bdd\s+if=`),
		regexp.MustCompile(`\bmkfs\.`),
		regexp.MustCompile(`:\(\)\s*\{\s*:\s*\|\s*:\s*&\s*\}\s*;\s*:`),
		regexp.MustCompile(`>\s*/dev/(?:sd[a-z]|nvme\d|hd[a-z]|disk\d)`),
	}

	windowsSizePattern = regexp.MustCompile(`(?i)(powershell.*where.*size|get-childitem.*where)`)
	unixSizePattern    = regexp.MustCompile(`(find\s+.*-size\s+[-+]\d+[KMGkmg])`)
)

// Parse extracts (command, explanation) from raw backend text.
// Both values are empty when nothing acceptable is found.
func Parse(text, osHint string) (string, string) {
	if accepted, ok := Extract(text, osHint).(Accepted); ok {
		return accepted.Command, accepted.Explanation
	}
	return "", ""
}

// Extract runs the three extraction stages in order and reports how the text was handled.
func Extract(text, osHint string) Outcome {
	text = strings.TrimSpace(text)
	if text == "" {
		return Rejected{Reason: ReasonEmpty}
	}

	if match := fencedBlockPattern.FindStringSubmatch(text); match != nil && isShellTag(match[1]) {
		lines := nonEmptyLines(match[2])
		if len(lines) > 0 && IsValid(lines[0]) {
			if command, ok := CleanCommand(lines[0]); ok {
				return Accepted{
					Command:     command,
					Explanation: strings.Join(lines[1:], " "),
					Stage:       StageFencedBlock,
				}
			}
		}
	}

	lines := nonEmptyLines(text)
	for i, line := range lines {
		if !IsValid(line) {
			continue
		}
		command, ok := CleanCommand(line)
		if !ok {
			continue
		}
		return Accepted{
			Command:     command,
			Explanation: strings.Join(lines[i+1:], " "),
			Stage:       StageLineScan,
		}
	}

	if command := heuristicMatch(text, osHint); command != "" && IsValid(command) {
		return Accepted{Command: command, Stage: StageHeuristic}
	}

	return Rejected{Reason: ReasonNoCandidate}
}

// IsValid reports whether a single line is shaped like a safe, executable command.
func IsValid(line string) bool {
	return Check(line) == ReasonNone
}

// Check returns the first validity rule the line violates, or ReasonNone.
func Check(line string) Reason {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return ReasonEmpty
	case strings.EqualFold(line, "none"):
		return ReasonNoneToken
	case strings.HasPrefix(line, fence) || strings.HasSuffix(line, fence):
		return ReasonFenceMarker
	case utf8.RuneCountInString(line) >= MaxLineLength:
		return ReasonTooLong
	case bannedLeading.MatchString(line):
		return ReasonBannedLeading
	case trailingSeparator.MatchString(line):
		return ReasonTrailingSep
	}
	for _, pattern := range destructivePatterns {
		if pattern.MatchString(line) {
			return ReasonDestructive
		}
	}
	return ReasonNone
}

// CleanCommand normalizes an accepted line and re-validates it.
// It returns false when the cleaned text is empty, too long or no longer valid.
func CleanCommand(raw string) (string, bool) {
	command := strings.TrimSpace(raw)
	if command == "" || strings.EqualFold(command, "none") {
		return "", false
	}

	command = unwrap(stripComment(command))

	for _, prefix := range []string{"command:", "cmd:", "$ ", "`"} {
		if len(command) >= len(prefix) && strings.EqualFold(command[:len(prefix)], prefix) {
			command = strings.TrimSpace(command[len(prefix):])
		}
	}
	if strings.Count(command, "`")%2 == 1 {
		command = strings.TrimSpace(strings.TrimSuffix(command, "`"))
	}
	command = unwrap(command)

	if command == "" || utf8.RuneCountInString(command) >= MaxCleanLength {
		return "", false
	}
	if !IsValid(command) {
		return "", false
	}
	return command, true
}

// stripComment drops a trailing "# ..." or "// ..." comment. Markers only count
// at the start of the line or after whitespace, so URLs and "#" inside words survive.
func stripComment(command string) string {
	cut := len(command)
	for _, marker := range []string{"#", "//"} {
		for idx := 0; idx < len(command); {
			pos := strings.Index(command[idx:], marker)
			if pos < 0 {
				break
			}
			pos += idx
			if pos == 0 || command[pos-1] == ' ' || command[pos-1] == '\t' {
				if pos < cut {
					cut = pos
				}
				break
			}
			idx = pos + len(marker)
		}
	}
	return strings.TrimSpace(command[:cut])
}

// unwrap removes one pair of matching quotes or backticks enclosing the whole text.
func unwrap(command string) string {
	for _, q := range []string{`"`, "'", "`"} {
		if len(command) >= 2 && strings.HasPrefix(command, q) && strings.HasSuffix(command, q) {
			return strings.TrimSpace(command[1 : len(command)-1])
		}
	}
	return command
}

func heuristicMatch(text, osHint string) string {
	pattern := unixSizePattern
	if strings.EqualFold(osHint, "windows") {
		pattern = windowsSizePattern
	}
	return strings.TrimSpace(pattern.FindString(text))
}

// isShellTag accepts an untagged fence or one labeled with a shell dialect.
func isShellTag(tag string) bool {
	return tag == "" || shellFenceTags[strings.ToLower(tag)]
}

func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
