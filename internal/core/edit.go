package core

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EditSession buffers in-progress edits to the rows that were visible
// when editing began. Cell edits, insertions, and deletions mutate the
// buffer only; the underlying dataset is untouched until Commit.
type EditSession struct {
	rows    []Project       // buffered copies, in seeded order, drafts appended
	index   map[string]int  // id -> position in rows
	seeded  map[string]bool // ids present when editing began
	drafts  map[string]bool // ids created in this session (buffer-local)
	version uint64          // dataset version observed at Begin
}

// BeginEdit seeds an edit session with copies of the currently visible
// rows and records the dataset version they came from.
func BeginEdit(visible []Project, version uint64) *EditSession {
	e := &EditSession{
		rows:    make([]Project, len(visible)),
		index:   make(map[string]int, len(visible)),
		seeded:  make(map[string]bool, len(visible)),
		drafts:  make(map[string]bool),
		version: version,
	}
	copy(e.rows, visible)
	for i, p := range visible {
		e.index[p.ID] = i
		e.seeded[p.ID] = true
	}
	return e
}

// Version returns the dataset version observed when editing began.
func (e *EditSession) Version() uint64 {
	return e.version
}

// Rows returns the buffered rows in display order.
func (e *EditSession) Rows() []Project {
	return e.rows
}

// IsDraft reports whether the row was inserted during this session.
func (e *EditSession) IsDraft(id string) bool {
	return e.drafts[id]
}

// View builds the rendered table for the buffer under the given
// selection, marking draft rows.
func (e *EditSession) View(sel Selection, total int) View {
	v := BuildView(e.rows, sel, total)
	for i := range v.Rows {
		v.Rows[i].Draft = e.drafts[v.Rows[i].ID]
	}
	return v
}

// SetCell stages one cell edit in the buffer. The value is validated
// against the column's widget: dates must be YYYY-MM-DD, Budget an
// integer, Progress an integer in [0,100], and the two enum columns one
// of their enumerated values. Project_ID is never editable; Project_Name
// only on rows created in this session.
func (e *EditSession) SetCell(id, column, value string) error {
	i, ok := e.index[id]
	if !ok {
		return fmt.Errorf("row not found: %s", id)
	}
	spec, ok := FieldByName(column)
	if !ok {
		return fmt.Errorf("column not found: %s", column)
	}
	if !spec.Editable && !(column == "Project_Name" && e.drafts[id]) {
		return fmt.Errorf("immutable field: %s", column)
	}

	p := &e.rows[i]
	switch column {
	case "Project_Name":
		p.Name = value
	case "Principal_Investigator":
		p.Investigator = value
	case "Department":
		p.Department = value
	case "Start_Date":
		t, err := time.Parse(DateFormat, value)
		if err != nil {
			return fmt.Errorf("invalid date %q for %s", value, column)
		}
		p.StartDate = t
	case "End_Date":
		t, err := time.Parse(DateFormat, value)
		if err != nil {
			return fmt.Errorf("invalid date %q for %s", value, column)
		}
		p.EndDate = t
	case "Budget":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q for %s", value, column)
		}
		p.Budget = n
	case "Progress":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid number %q for %s", value, column)
		}
		if n < 0 || n > 100 {
			return fmt.Errorf("progress out of range: %d", n)
		}
		p.Progress = n
	case "Status":
		if !ValidStatus(value) {
			return fmt.Errorf("invalid choice %q for %s", value, column)
		}
		p.Status = Status(value)
	case "Current_Phase":
		if !ValidPhase(value) {
			return fmt.Errorf("invalid choice %q for %s", value, column)
		}
		p.Phase = Phase(value)
	case "Review_Comments":
		p.ReviewComments = value
	case "Action_Items":
		p.ActionItems = value
	default:
		return fmt.Errorf("column not found: %s", column)
	}
	return nil
}

// InsertRow appends a new draft row to the buffer. The row carries a
// buffer-local identifier until Commit assigns a real one. Dates default
// to today, status and phase to their first enumerated value.
func (e *EditSession) InsertRow() Project {
	today := time.Now().Truncate(24 * time.Hour)
	p := Project{
		ID:        uuid.NewString(),
		StartDate: today,
		EndDate:   today,
		Status:    Statuses[0],
		Phase:     Phases[0],
	}
	e.index[p.ID] = len(e.rows)
	e.drafts[p.ID] = true
	e.rows = append(e.rows, p)
	return p
}

// DeleteRow removes a row from the buffer. A seeded row absent from the
// buffer at commit time is deleted from the dataset.
func (e *EditSession) DeleteRow(id string) error {
	i, ok := e.index[id]
	if !ok {
		return fmt.Errorf("row not found: %s", id)
	}
	e.rows = append(e.rows[:i], e.rows[i+1:]...)
	delete(e.index, id)
	delete(e.drafts, id)
	for j := i; j < len(e.rows); j++ {
		e.index[e.rows[j].ID] = j
	}
	return nil
}

// Commit merges the buffer into ds and returns the merged dataset.
// Rows present in the buffer overwrite their dataset counterparts;
// seeded rows missing from the buffer are removed; draft rows are
// appended with freshly allocated PRJ-NNN identifiers. Rows that were
// never visible to this session are left untouched.
func (e *EditSession) Commit(ds *Dataset) *Dataset {
	out := &Dataset{Projects: make([]Project, 0, len(ds.Projects))}
	for _, p := range ds.Projects {
		i, ok := e.index[p.ID]
		switch {
		case ok:
			out.Projects = append(out.Projects, e.rows[i])
		case e.seeded[p.ID]:
			// deleted while editing
		default:
			out.Projects = append(out.Projects, p)
		}
	}
	for _, p := range e.rows {
		if !e.drafts[p.ID] {
			continue
		}
		p.ID = out.NextID()
		out.Projects = append(out.Projects, p)
	}
	return out
}
