package audio

import (
	"os/exec"
	"runtime"
	"strings"
)

// FilePlaceholder marks where the tone path goes in a player command. A
// command without it gets the path appended as its last argument.
const FilePlaceholder = "{file}"

const windowsScript = `Add-Type -AssemblyName presentationCore; ` +
	`$p = New-Object System.Windows.Media.MediaPlayer; ` +
	`$p.Open([uri]'{file}'); $p.Play(); ` +
	`while (-not $p.NaturalDuration.HasTimeSpan) { Start-Sleep -Milliseconds 100 }; ` +
	`Start-Sleep -Milliseconds $p.NaturalDuration.TimeSpan.TotalMilliseconds`

// candidates are the players tried on each OS, in order of preference. Each
// of them plays the file once and exits.
var candidates = map[string][][]string{
	"darwin": {
		{"afplay"},
		{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	},
	"linux": {
		{"mpg123", "-q"},
		{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
		{"mpv", "--no-video", "--really-quiet"},
		{"paplay"},
	},
	"windows": {
		{"powershell", "-NoProfile", "-NonInteractive", "-Command", windowsScript},
	},
}

// DetectCommand returns the first player available on this machine, or nil
// if there is none.
func DetectCommand() []string {
	return detectCommand(runtime.GOOS, exec.LookPath)
}

func detectCommand(goos string, lookPath func(string) (string, error)) []string {
	list, ok := candidates[goos]
	if !ok {
		// Other unixes tend to ship the linux players.
		list = candidates["linux"]
	}
	for _, cmd := range list {
		if _, err := lookPath(cmd[0]); err == nil {
			return cmd
		}
	}
	return nil
}

// expand returns the argv that plays path with cmd.
func expand(cmd []string, path string) []string {
	argv := make([]string, 0, len(cmd)+1)
	found := false
	for _, arg := range cmd {
		if strings.Contains(arg, FilePlaceholder) {
			arg = strings.ReplaceAll(arg, FilePlaceholder, path)
			found = true
		}
		argv = append(argv, arg)
	}
	if !found {
		argv = append(argv, path)
	}
	return argv
}
