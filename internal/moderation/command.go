package moderation

import (
	"strconv"
	"strings"
)

// CommandKind tags the result of ParseCommand.
type CommandKind int

const (
	// CommandNone means the text is not a command at all.
	CommandNone CommandKind = iota
	CommandStart
	CommandBan
	CommandUnban
	// CommandUnknown is a slash command the bot does not recognize.
	CommandUnknown
)

// Command is the structured form of an inbound slash command. For CommandBan
// and CommandUnban with syntactically invalid arguments, Kind is still set
// and Err carries ErrMalformedArgument so the handler can answer with a usage
// hint without re-parsing.
type Command struct {
	Kind   CommandKind
	UserID int64
	Days   int
	Err    error
}

// ParseCommand classifies inbound text. Non-command text yields CommandNone
// and flows on to the relay pipeline. Command names tolerate the @botname
// suffix Telegram appends in some clients.
func ParseCommand(text string) Command {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Command{Kind: CommandNone}
	}

	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}

	switch name {
	case "start":
		return Command{Kind: CommandStart}
	case "ban":
		return parseBan(fields[1:])
	case "unban":
		return parseUnban(fields[1:])
	default:
		return Command{Kind: CommandUnknown}
	}
}

func parseBan(args []string) Command {
	cmd := Command{Kind: CommandBan}
	if len(args) < 1 {
		cmd.Err = ErrMalformedArgument
		return cmd
	}

	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		cmd.Err = ErrMalformedArgument
		return cmd
	}
	cmd.UserID = userID

	if len(args) > 1 {
		days, err := strconv.Atoi(args[1])
		if err != nil {
			cmd.Err = ErrMalformedArgument
			return cmd
		}
		cmd.Days = days
	}
	return cmd
}

func parseUnban(args []string) Command {
	cmd := Command{Kind: CommandUnban}
	if len(args) < 1 {
		cmd.Err = ErrMalformedArgument
		return cmd
	}

	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		cmd.Err = ErrMalformedArgument
		return cmd
	}
	cmd.UserID = userID
	return cmd
}
