package core

// SelectAll is the sentinel for the department and status filters that
// matches every row.
const SelectAll = "all"

// Selection is a user's transient per-view filter state: chosen
// department, chosen status, and the set of hidden columns. It lives
// for the interactive session only and is never persisted.
type Selection struct {
	Department string
	Status     string
	Hidden     map[string]bool
}

// NewSelection returns a selection that shows every row and column.
func NewSelection() Selection {
	return Selection{
		Department: SelectAll,
		Status:     SelectAll,
		Hidden:     make(map[string]bool),
	}
}

// Matches reports whether a project passes the row predicate.
func (s Selection) Matches(p Project) bool {
	if s.Department != SelectAll && p.Department != s.Department {
		return false
	}
	if s.Status != SelectAll && string(p.Status) != s.Status {
		return false
	}
	return true
}

// VisibleRows returns the rows of ds that pass the selection's row
// predicate, in the dataset's original order. A full linear scan; no
// sorting, no pagination.
func VisibleRows(ds *Dataset, sel Selection) []Project {
	var out []Project
	for _, p := range ds.Projects {
		if sel.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Stats is the footer summary: total dataset rows and rows visible
// under the current selection.
type Stats struct {
	Total   int
	Visible int
}

// Row is one rendered table row: the project identifier plus cell
// values aligned with the view's visible columns.
type Row struct {
	ID    string
	Cells []string
	Draft bool // row exists only in the edit buffer
}

// View is the filtered, projected table ready to render.
type View struct {
	Columns []FieldSpec
	Rows    []Row
	Stats   Stats
}

// BuildView projects rows onto the non-hidden columns, preserving the
// dataset's field order, and attaches the stats footer. Hiding a column
// never affects which rows are included.
func BuildView(rows []Project, sel Selection, total int) View {
	var cols []FieldSpec
	for _, f := range Fields {
		if !sel.Hidden[f.Name] {
			cols = append(cols, f)
		}
	}

	out := make([]Row, len(rows))
	for i, p := range rows {
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = p.Field(c.Name)
		}
		out[i] = Row{ID: p.ID, Cells: cells}
	}

	return View{
		Columns: cols,
		Rows:    out,
		Stats:   Stats{Total: total, Visible: len(rows)},
	}
}
