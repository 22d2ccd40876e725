package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Reason
	}{
		{name: "plain command", line: "ls -la", want: ReasonNone},
		{name: "pipeline", line: "ps aux | grep nginx", want: ReasonNone},
		{name: "url with slashes", line: "curl -s https://example.com/api", want: ReasonNone},
		{name: "empty", line: "   ", want: ReasonEmpty},
		{name: "none token", line: "NONE", want: ReasonNoneToken},
		{name: "opening fence", line: "```bash", want: ReasonFenceMarker},
		{name: "closing fence", line: "ls```", want: ReasonFenceMarker},
		{name: "too long", line: strings.Repeat("a", MaxLineLength), want: ReasonTooLong},
		{name: "just under limit", line: strings.Repeat("a", MaxLineLength-1), want: ReasonNone},
		{name: "json object", line: `{"command": "ls"}`, want: ReasonBannedLeading},
		{name: "bracket", line: "[1] ls", want: ReasonBannedLeading},
		{name: "backslash", line: `\ls`, want: ReasonBannedLeading},
		{name: "backtick", line: "`ls`", want: ReasonBannedLeading},
		{name: "trailing semicolon", line: "cd /tmp;", want: ReasonTrailingSep},
		{name: "trailing and", line: "make &&", want: ReasonTrailingSep},
		{name: "trailing pipe", line: "cat file |", want: ReasonTrailingSep},
		{name: "rm -rf", line: "rm -rf /", want: ReasonDestructive},
		{name: "rm -fr with sudo", line: "sudo rm -fr /var/log", want: ReasonDestructive},
		{name: "rm -rfv", line: "rm -rfv build", want: ReasonDestructive},
		{name: "chmod 777", line: "chmod 777 script.sh", want: ReasonDestructive},
		{name: "dd", line: "dd if=/dev/zero of=disk.img bs=1M", want: ReasonDestructive},
		{name: "mkfs", line: "mkfs.ext4 /dev/sdb1", want: ReasonDestructive},
		{name: "fork bomb", line: ":(){ :|:& };:", want: ReasonDestructive},
		{name: "raw device redirect", line: "echo x > /dev/sda", want: ReasonDestructive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.line))
			assert.Equal(t, tt.want == ReasonNone, IsValid(tt.line))
		})
	}
}

func TestIsValidCountsCharacters(t *testing.T) {
	// 249 runes but far more than 250 bytes.
	line := "echo " + strings.Repeat("é", MaxLineLength-6)
	assert.True(t, IsValid(line))
}

func TestCleanCommand(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{name: "already clean", raw: "ls -la", want: "ls -la", wantOK: true},
		{name: "command prefix", raw: "Command: ls -la", want: "ls -la", wantOK: true},
		{name: "cmd prefix", raw: "CMD: dir /s", want: "dir /s", wantOK: true},
		{name: "dollar prompt", raw: "$ git status", want: "git status", wantOK: true},
		{name: "backticks", raw: "`df -h`", want: "df -h", wantOK: true},
		{name: "surrounding quotes", raw: `"du -sh ."`, want: "du -sh .", wantOK: true},
		{name: "hash comment", raw: "ls -la # list all files", want: "ls -la", wantOK: true},
		{name: "slash comment", raw: "ls -la // list all files", want: "ls -la", wantOK: true},
		{name: "hash inside word kept", raw: "echo issue#12", want: "echo issue#12", wantOK: true},
		{name: "inner quotes kept", raw: "find . -name '*.go'", want: "find . -name '*.go'", wantOK: true},
		{name: "quoted hash kept", raw: "grep '#include' main.c", want: "grep '#include' main.c", wantOK: true},
		{name: "command substitution kept", raw: "echo `date`", want: "echo `date`", wantOK: true},
		{name: "prefix then quotes", raw: "Command: 'uname -a'", want: "uname -a", wantOK: true},
		{name: "url kept", raw: "curl https://example.com", want: "curl https://example.com", wantOK: true},
		{name: "only comment", raw: "# nothing to run", wantOK: false},
		{name: "empty", raw: "  ", wantOK: false},
		{name: "none", raw: "None", wantOK: false},
		{name: "destructive after cleaning", raw: "$ rm -rf /", wantOK: false},
		{name: "cleaned too long", raw: strings.Repeat("a", MaxCleanLength+10), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanCommand(tt.raw)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractFencedBlock(t *testing.T) {
	outcome := Extract("Here you go:\n```bash\nls -la\n```", "linux")

	accepted, ok := outcome.(Accepted)
	require.True(t, ok, "expected Accepted, got %#v", outcome)
	assert.Equal(t, "ls -la", accepted.Command)
	assert.Empty(t, accepted.Explanation)
	assert.Equal(t, StageFencedBlock, accepted.Stage)
}

func TestExtractFencedBlockWithExplanation(t *testing.T) {
	command, explanation := Parse("```shell\ndu -sh *\nshows the size of each entry\n```", "darwin")
	assert.Equal(t, "du -sh *", command)
	assert.Equal(t, "shows the size of each entry", explanation)
}

func TestExtractUntaggedInlineFence(t *testing.T) {
	command, _ := Parse("```pwd```", "linux")
	assert.Equal(t, "pwd", command)
}

func TestExtractSkipsNonShellFence(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "python", text: "```python\nprint('hi')\n```", want: "print('hi')"},
		{name: "json", text: "```json\n{\"command\": \"ls\"}\n```", want: ""},
		{name: "json then plain line", text: "```json\n{}\n```\nls -la", want: "ls -la"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Extract(tt.text, "linux")
			if tt.want == "" {
				assert.Equal(t, Rejected{Reason: ReasonNoCandidate}, outcome)
				return
			}
			accepted, ok := outcome.(Accepted)
			require.True(t, ok, "expected Accepted, got %#v", outcome)
			assert.Equal(t, tt.want, accepted.Command)
			assert.Equal(t, StageLineScan, accepted.Stage)
		})
	}
}

func TestExtractShellFenceTagsAreCaseInsensitive(t *testing.T) {
	accepted, ok := Extract("```PowerShell\nGet-Process\n```", "windows").(Accepted)
	require.True(t, ok)
	assert.Equal(t, "Get-Process", accepted.Command)
	assert.Equal(t, StageFencedBlock, accepted.Stage)
}

func TestExtractLineScan(t *testing.T) {
	outcome := Extract("Command: ls -la\nThis lists files", "linux")

	accepted, ok := outcome.(Accepted)
	require.True(t, ok)
	assert.Equal(t, "ls -la", accepted.Command)
	assert.Equal(t, "This lists files", accepted.Explanation)
	assert.Equal(t, StageLineScan, accepted.Stage)
}

func TestExtractLineScanSkipsInvalidLines(t *testing.T) {
	text := "{\"note\": \"json\"}\n[step 1]\nfind . -name '*.go'\nsearches recursively\nfor go files"
	command, explanation := Parse(text, "linux")
	assert.Equal(t, "find . -name '*.go'", command)
	assert.Equal(t, "searches recursively for go files", explanation)
}

func TestExtractLineScanSkipsCandidatesThatFailCleaning(t *testing.T) {
	text := "$ " + strings.Repeat("a", MaxCleanLength+10) + "\nuptime"
	command, explanation := Parse(text, "linux")
	assert.Equal(t, "uptime", command)
	assert.Empty(t, explanation)
}

func TestExtractRejectsDestructiveFence(t *testing.T) {
	outcome := Extract("```bash\nrm -rf /\n```", "linux")
	assert.Equal(t, Rejected{Reason: ReasonNoCandidate}, outcome)

	command, explanation := Parse("```bash\nrm -rf /\n```", "linux")
	assert.Empty(t, command)
	assert.Empty(t, explanation)
}

func TestExtractLineScanMovesPastDestructiveLine(t *testing.T) {
	accepted, ok := Extract("rm -rf /\nremoves everything", "linux").(Accepted)
	require.True(t, ok)
	assert.Equal(t, "removes everything", accepted.Command)
	assert.Empty(t, accepted.Explanation)
	assert.Equal(t, StageLineScan, accepted.Stage)
}

func TestExtractRejectsOverlongLines(t *testing.T) {
	command, explanation := Parse(strings.Repeat("x", 260), "linux")
	assert.Empty(t, command)
	assert.Empty(t, explanation)
}

func TestExtractRejectsOverlongCleanedCommand(t *testing.T) {
	command, _ := Parse("$ "+strings.Repeat("a", 210), "linux")
	assert.Empty(t, command)
}

func TestExtractUnixHeuristic(t *testing.T) {
	outcome := Extract("[tip] find /var -size +100M |", "linux")

	accepted, ok := outcome.(Accepted)
	require.True(t, ok, "expected Accepted, got %#v", outcome)
	assert.Equal(t, "find /var -size +100M", accepted.Command)
	assert.Empty(t, accepted.Explanation)
	assert.Equal(t, StageHeuristic, accepted.Stage)
}

func TestExtractWindowsHeuristic(t *testing.T) {
	text := "`Get-ChildItem C:\\ -Recurse | Where-Object { $_.Length -gt 1GB }`"

	accepted, ok := Extract(text, "windows").(Accepted)
	require.True(t, ok)
	assert.Equal(t, StageHeuristic, accepted.Stage)
	assert.Equal(t, "Get-ChildItem C:\\ -Recurse | Where", accepted.Command)

	_, ok = Extract(text, "linux").(Accepted)
	assert.False(t, ok, "windows heuristic must not apply to other systems")
}

func TestExtractEmpty(t *testing.T) {
	assert.Equal(t, Rejected{Reason: ReasonEmpty}, Extract(" \n\t", "linux"))
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "fenced_block", StageFencedBlock.String())
	assert.Equal(t, "line_scan", StageLineScan.String())
	assert.Equal(t, "heuristic", StageHeuristic.String())
	assert.Equal(t, "none", StageNone.String())
}
