package store

import "time"

// Slot names, one per record kind. Each holds the full serialized list for
// that kind; records are never joined across slots.
const (
	SlotTasks    = "tasks"
	SlotGoals    = "goals"
	SlotNotes    = "notes"
	SlotEntries  = "time-entries"
	SlotSessions = "pomodoro-sessions"
	SlotUser     = "user"
)

// DataSlots are the slots cleared by Reset. The identity slot survives.
var DataSlots = []string{SlotTasks, SlotGoals, SlotNotes, SlotEntries, SlotSessions}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// SessionType is the phase a pomodoro session recorded.
type SessionType string

const (
	SessionWork       SessionType = "work"
	SessionShortBreak SessionType = "short-break"
	SessionLongBreak  SessionType = "long-break"
)

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Tags        []string   `json:"tags"`
	Subtasks    []Subtask  `json:"subtasks"`
}

type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Goal struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Category     string     `json:"category"`
	TargetValue  float64    `json:"targetValue"`
	CurrentValue float64    `json:"currentValue"`
	Unit         string     `json:"unit"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Completed    bool       `json:"completed"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	IsPinned  bool      `json:"isPinned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TimeEntry is append-only by convention: entries are created and deleted but
// never edited.
type TimeEntry struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Duration    int        `json:"duration"` // minutes
	Category    string     `json:"category"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type PomodoroSession struct {
	ID        string      `json:"id"`
	Type      SessionType `json:"type"`
	Duration  int         `json:"duration"` // minutes
	Completed bool        `json:"completed"`
	StartTime time.Time   `json:"startTime"`
	EndTime   *time.Time  `json:"endTime,omitempty"`
}

// User is the locally persisted identity. Singleton per data dir; there is no
// credential check anywhere in this program.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// --- record plumbing ---

func (t *Task) id() string      { return t.ID }
func (t *Task) setID(id string) { t.ID = id }

func (t *Task) touch(now time.Time, created bool) {
	if created {
		t.CreatedAt = now
		if t.Priority == "" {
			t.Priority = PriorityMedium
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
		if t.Subtasks == nil {
			t.Subtasks = []Subtask{}
		}
	}
	if now.After(t.UpdatedAt) {
		t.UpdatedAt = now
	}
}

func (t *Task) validate() error {
	if isBlank(t.Title) {
		return &ValidationError{Field: "title", Reason: "task title is required"}
	}
	return nil
}

func (g *Goal) id() string      { return g.ID }
func (g *Goal) setID(id string) { g.ID = id }

func (g *Goal) touch(now time.Time, created bool) {
	if created {
		g.CreatedAt = now
	}
	if now.After(g.UpdatedAt) {
		g.UpdatedAt = now
	}
	// Derived-or-settable: reaching the target always marks the goal
	// completed, while an explicit Completed=true below target is kept.
	if g.CurrentValue >= g.TargetValue {
		g.Completed = true
	}
}

func (g *Goal) validate() error {
	switch {
	case isBlank(g.Title):
		return &ValidationError{Field: "title", Reason: "goal title is required"}
	case isBlank(g.Category):
		return &ValidationError{Field: "category", Reason: "goal category is required"}
	case isBlank(g.Unit):
		return &ValidationError{Field: "unit", Reason: "goal unit is required"}
	case g.TargetValue <= 0:
		return &ValidationError{Field: "targetValue", Reason: "goal target must be positive"}
	case g.CurrentValue < 0:
		return &ValidationError{Field: "currentValue", Reason: "goal progress cannot be negative"}
	}
	return nil
}

func (n *Note) id() string      { return n.ID }
func (n *Note) setID(id string) { n.ID = id }

func (n *Note) touch(now time.Time, created bool) {
	if created {
		n.CreatedAt = now
		if n.Tags == nil {
			n.Tags = []string{}
		}
	}
	if now.After(n.UpdatedAt) {
		n.UpdatedAt = now
	}
}

func (n *Note) validate() error {
	if isBlank(n.Title) {
		return &ValidationError{Field: "title", Reason: "note title is required"}
	}
	if isBlank(n.Content) {
		return &ValidationError{Field: "content", Reason: "note content is required"}
	}
	return nil
}

func (e *TimeEntry) id() string      { return e.ID }
func (e *TimeEntry) setID(id string) { e.ID = id }

func (e *TimeEntry) touch(now time.Time, created bool) {
	if created {
		e.CreatedAt = now
		if e.StartTime.IsZero() {
			e.StartTime = now
		}
	}
}

func (e *TimeEntry) validate() error {
	if e.Duration < 0 {
		return &ValidationError{Field: "duration", Reason: "entry duration cannot be negative"}
	}
	return nil
}

func (p *PomodoroSession) id() string      { return p.ID }
func (p *PomodoroSession) setID(id string) { p.ID = id }

func (p *PomodoroSession) touch(now time.Time, created bool) {
	if created && p.StartTime.IsZero() {
		p.StartTime = now
	}
}

func (p *PomodoroSession) validate() error {
	switch p.Type {
	case SessionWork, SessionShortBreak, SessionLongBreak:
	default:
		return &ValidationError{Field: "type", Reason: "unknown session type"}
	}
	if p.Duration <= 0 {
		return &ValidationError{Field: "duration", Reason: "session duration must be positive"}
	}
	return nil
}
