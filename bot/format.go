package bot

import (
	"html"
	"regexp"
	"strings"

	"ServerDesk/entity"
)

var (
	preBlock = regexp.MustCompile("(?s)```(.*?)```")
	bold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// reserved characters of Telegram MarkdownV2
const reservedChars = "\\`_*{}#+-.!|()[]~>="

type command struct {
	kind      entity.CommandKind
	profileID string
}

// parseCommand splits "/name[@bot] [profile] ..." into a command. Commands
// addressed to another bot are ignored.
func parseCommand(text, botName string) (command, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return command{}, false
	}
	name := strings.TrimPrefix(fields[0], "/")
	if base, target, found := strings.Cut(name, "@"); found {
		if botName != "" && !strings.EqualFold(target, botName) {
			return command{}, false
		}
		name = base
	}
	if name == "" {
		return command{}, false
	}

	cmd := command{kind: entity.ParseCommandKind(name)}
	if len(fields) > 1 {
		cmd.profileID = fields[1]
	}
	return cmd, true
}

// toHTML renders a reply line for Telegram's HTML parse mode.
func toHTML(line string) string {
	escaped := html.EscapeString(line)
	escaped = preBlock.ReplaceAllString(escaped, "<pre>$1</pre>")
	return bold.ReplaceAllString(escaped, "<b>$1</b>")
}

func sanitize(input string) string {
	var sb strings.Builder
	sb.Grow(len(input))
	for _, char := range input {
		if strings.ContainsRune(reservedChars, char) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(char)
	}
	return sb.String()
}
