package domain

type ItemStatus string

const (
	ItemPending  ItemStatus = "pending"
	ItemComplete ItemStatus = "complete"
)

// ValidItemStatuses is the canonical set of accepted status strings.
var ValidItemStatuses = map[string]bool{
	"pending": true, "complete": true,
}

// Hierarchy levels. A Mission is always a root and a Step is always a leaf.
const (
	LevelMission = 1
	LevelTask    = 2
	LevelSubtask = 3
	LevelAction  = 4
	LevelStep    = 5

	MaxLevel = LevelStep
)

// AgendaMinParentLevel is the lowest parent level whose children may carry
// an agenda time slot.
const AgendaMinParentLevel = LevelSubtask

var levelNames = map[int]string{
	LevelMission: "Mission",
	LevelTask:    "Task",
	LevelSubtask: "Subtask",
	LevelAction:  "Action",
	LevelStep:    "Step",
}

// LevelName returns the display name for a hierarchy level, or "" when the
// level is out of range.
func LevelName(level int) string {
	return levelNames[level]
}

// ValidLevel reports whether level is within 1..MaxLevel.
func ValidLevel(level int) bool {
	return level >= LevelMission && level <= MaxLevel
}
