package domain

// CommandType classifies what the user wants the clock to do.
type CommandType int

const (
	CommandUnknown CommandType = iota
	CommandAnnounce
	CommandArm
	CommandDisarm
	CommandToggleAlarm
	CommandAdjustTime  // Payload carries no text; Adjustments is set
	CommandAdjustAlarm // same, applied to the alarm setting
	CommandSetTime     // Payload is "H:MM"
	CommandSetAlarm    // Payload is "H:MM"
	CommandSilence
	CommandStatus
	CommandHelp
	CommandQuit
)

// String returns a human-readable command type.
func (c CommandType) String() string {
	switch c {
	case CommandAnnounce:
		return "announce"
	case CommandArm:
		return "arm"
	case CommandDisarm:
		return "disarm"
	case CommandToggleAlarm:
		return "toggle_alarm"
	case CommandAdjustTime:
		return "adjust_time"
	case CommandAdjustAlarm:
		return "adjust_alarm"
	case CommandSetTime:
		return "set_time"
	case CommandSetAlarm:
		return "set_alarm"
	case CommandSilence:
		return "silence"
	case CommandStatus:
		return "status"
	case CommandHelp:
		return "help"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command represents a parsed user action.
type Command struct {
	Type        CommandType
	Payload     string
	Adjustments []Adjustment
}
