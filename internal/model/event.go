package model

// Event is a time-boxed activity with its own tasks and prizes. The code is
// chosen by the administrator at creation and never changes.
type Event struct {
	Code        string   `json:"event_code"`
	Name        string   `json:"event_name"`
	Description string   `json:"event_description"`
	StartDate   string   `json:"event_start_date"`
	EndDate     string   `json:"event_end_date"`
	Tasks       []*Task  `json:"tasks"`
	Prizes      []*Prize `json:"prizes"`
	GamerList   []int64  `json:"gamer_list"`
	MaxPoints   int      `json:"max_points"`
}

// Task is a unit of work within an event. Ids are 1-based and unique within
// the owning event only.
type Task struct {
	ID            int     `json:"task_id"`
	Name          string  `json:"task_name"`
	Description   string  `json:"task_description"`
	Points        int     `json:"task_points"`
	AssignedUsers []int64 `json:"assigned_users"`
	CheckedUsers  []int64 `json:"checked_users"`
}

// Prize is a redeemable reward scoped to an event.
type Prize struct {
	ID             int    `json:"prize_id"`
	Name           string `json:"prize_name"`
	PointsRequired int    `json:"points_required"`
}

// Clone returns a deep copy that is safe to read or marshal after the store
// lock is released.
func (e *Event) Clone() *Event {
	c := *e
	c.Tasks = make([]*Task, len(e.Tasks))
	for i, t := range e.Tasks {
		c.Tasks[i] = t.Clone()
	}
	c.Prizes = make([]*Prize, len(e.Prizes))
	for i, p := range e.Prizes {
		cp := *p
		c.Prizes[i] = &cp
	}
	c.GamerList = append([]int64{}, e.GamerList...)
	return &c
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.AssignedUsers = append([]int64{}, t.AssignedUsers...)
	c.CheckedUsers = append([]int64{}, t.CheckedUsers...)
	return &c
}

// Task returns the task with the given id, or nil.
func (e *Event) Task(id int) *Task {
	for _, t := range e.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Prize returns the prize with the given id, or nil.
func (e *Event) Prize(id int) *Prize {
	for _, p := range e.Prizes {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// HasGamer reports whether the gamer already joined the event.
func (e *Event) HasGamer(id int64) bool {
	for _, g := range e.GamerList {
		if g == id {
			return true
		}
	}
	return false
}

// RecomputeMaxPoints re-derives the obtainable-points aggregate. Must be
// called after every task mutation.
func (e *Event) RecomputeMaxPoints() {
	total := 0
	for _, t := range e.Tasks {
		total += t.Points
	}
	e.MaxPoints = total
}

// NextTaskID returns one past the highest live task id, so a new task never
// collides with an existing one. Ids are not derived from the slice length,
// which would break after mid-list deletions.
func (e *Event) NextTaskID() int {
	max := 0
	for _, t := range e.Tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

// NextPrizeID is the prize counterpart of NextTaskID.
func (e *Event) NextPrizeID() int {
	max := 0
	for _, p := range e.Prizes {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

// HasChecked reports whether the gamer already has an approved submission
// for this task. Membership is terminal.
func (t *Task) HasChecked(id int64) bool {
	for _, u := range t.CheckedUsers {
		if u == id {
			return true
		}
	}
	return false
}

// HasAssigned reports whether the gamer selected this task.
func (t *Task) HasAssigned(id int64) bool {
	for _, u := range t.AssignedUsers {
		if u == id {
			return true
		}
	}
	return false
}
