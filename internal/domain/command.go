package domain

// CommandKind classifies what an utterance asked for.
type CommandKind int

const (
	// CommandNone means nothing matched; the caller should hand the
	// utterance to free-form dialogue.
	CommandNone CommandKind = iota
	CommandStartTimer
	CommandStopTimer
	CommandCheckTimer
	CommandReadFull
	CommandReadIngredients
	CommandReadStep
	CommandNextStep
	CommandPreviousStep
)

// String returns a snake_case name for the kind.
func (k CommandKind) String() string {
	switch k {
	case CommandStartTimer:
		return "start_timer"
	case CommandStopTimer:
		return "stop_timer"
	case CommandCheckTimer:
		return "check_timer"
	case CommandReadFull:
		return "read_full"
	case CommandReadIngredients:
		return "read_ingredients"
	case CommandReadStep:
		return "read_step"
	case CommandNextStep:
		return "next_step"
	case CommandPreviousStep:
		return "previous_step"
	default:
		return "none"
	}
}

// IsTimer reports whether the kind is a timer action.
func (k CommandKind) IsTimer() bool {
	return k == CommandStartTimer || k == CommandStopTimer || k == CommandCheckTimer
}

// IsNavigation reports whether the kind moves or reads the step cursor.
func (k CommandKind) IsNavigation() bool {
	return k >= CommandReadFull && k <= CommandPreviousStep
}

// Command is the classifier's output. Which fields carry meaning depends on Kind:
//
//	StartTimer: Name (cosmetic) plus at most one of Minutes, StepNumber, ItemName.
//	            None of them set means "use the default duration".
//	StopTimer:  Name, empty means the active timer.
//	CheckTimer: Name, empty means all timers.
//	ReadStep:   StepIndex (0-based) when HasStep, else the current step.
type Command struct {
	Kind       CommandKind
	Name       string
	Minutes    int
	StepNumber int // 1-based, as spoken
	ItemName   string
	StepIndex  int // 0-based
	HasStep    bool
}

// Matched reports whether the command is anything other than CommandNone.
func (c Command) Matched() bool {
	return c.Kind != CommandNone
}
