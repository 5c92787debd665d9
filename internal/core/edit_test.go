package core

import (
	"strings"
	"testing"
)

func TestSetCell(t *testing.T) {
	tests := []struct {
		name    string
		column  string
		value   string
		wantErr string // substring of the error, "" for success
	}{
		{"text field", "Principal_Investigator", "한소희", ""},
		{"department", "Department", "약학과", ""},
		{"valid date", "Start_Date", "2025-08-01", ""},
		{"malformed date", "End_Date", "08/01/2025", "invalid date"},
		{"valid budget", "Budget", "350000000", ""},
		{"budget not a number", "Budget", "3.5억", "invalid number"},
		{"valid progress", "Progress", "100", ""},
		{"progress not a number", "Progress", "many", "invalid number"},
		{"progress above range", "Progress", "101", "progress out of range"},
		{"progress below range", "Progress", "-1", "progress out of range"},
		{"valid status", "Status", "완료", ""},
		{"unknown status", "Status", "거의완료", "invalid choice"},
		{"valid phase", "Current_Phase", "검증", ""},
		{"unknown phase", "Current_Phase", "마무리", "invalid choice"},
		{"project id frozen", "Project_ID", "PRJ-999", "immutable field"},
		{"project name frozen", "Project_Name", "New Name", "immutable field"},
		{"unknown column", "Nonexistent", "x", "column not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := sampleDataset()
			e := BeginEdit(ds.Projects, 1)

			err := e.SetCell("PRJ-001", tt.column, tt.value)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("SetCell() error = %v, want nil", err)
				}
				if got := e.Rows()[0].Field(tt.column); got != tt.value {
					t.Errorf("buffer cell = %q, want %q", got, tt.value)
				}
				return
			}
			if err == nil {
				t.Fatalf("SetCell() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("SetCell() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestSetCell_UnknownRow(t *testing.T) {
	e := BeginEdit(sampleDataset().Projects, 1)
	err := e.SetCell("PRJ-404", "Department", "화학과")
	if err == nil || !strings.Contains(err.Error(), "row not found") {
		t.Errorf("SetCell() error = %v, want row not found", err)
	}
}

func TestSetCell_RejectedEditLeavesBufferUntouched(t *testing.T) {
	ds := sampleDataset()
	e := BeginEdit(ds.Projects, 1)

	if err := e.SetCell("PRJ-001", "Progress", "200"); err == nil {
		t.Fatal("SetCell() = nil, want range error")
	}
	if got := e.Rows()[0].Progress; got != ds.Projects[0].Progress {
		t.Errorf("Progress = %d after rejected edit, want %d", got, ds.Projects[0].Progress)
	}
}

func TestSetCell_BufferDoesNotTouchDataset(t *testing.T) {
	ds := sampleDataset()
	e := BeginEdit(VisibleRows(ds, NewSelection()), 1)

	if err := e.SetCell("PRJ-001", "Department", "의학과"); err != nil {
		t.Fatalf("SetCell() error = %v", err)
	}
	if ds.Projects[0].Department != "물리학과" {
		t.Errorf("dataset mutated by a buffered edit: Department = %q", ds.Projects[0].Department)
	}
}

func TestInsertRow(t *testing.T) {
	e := BeginEdit(sampleDataset().Projects, 1)

	p := e.InsertRow()
	if p.ID == "" {
		t.Fatal("InsertRow() returned empty ID")
	}
	if !e.IsDraft(p.ID) {
		t.Error("inserted row not marked as draft")
	}
	if p.Status != Statuses[0] || p.Phase != Phases[0] {
		t.Errorf("draft defaults = %s/%s, want %s/%s", p.Status, p.Phase, Statuses[0], Phases[0])
	}

	// Project_Name opens up on draft rows only.
	if err := e.SetCell(p.ID, "Project_Name", "Research Project X"); err != nil {
		t.Errorf("SetCell(Project_Name) on draft = %v, want nil", err)
	}
	if err := e.SetCell(p.ID, "Project_ID", "PRJ-777"); err == nil {
		t.Error("SetCell(Project_ID) on draft = nil, want immutable error")
	}
}

func TestDeleteRow(t *testing.T) {
	e := BeginEdit(sampleDataset().Projects, 1)

	if err := e.DeleteRow("PRJ-002"); err != nil {
		t.Fatalf("DeleteRow() error = %v", err)
	}
	if len(e.Rows()) != 2 {
		t.Fatalf("buffer has %d rows, want 2", len(e.Rows()))
	}

	// Later rows stay addressable after the reindex.
	if err := e.SetCell("PRJ-003", "Progress", "55"); err != nil {
		t.Fatalf("SetCell() after delete = %v", err)
	}
	if got := e.Rows()[1].Progress; got != 55 {
		t.Errorf("PRJ-003 Progress = %d, want 55", got)
	}

	if err := e.DeleteRow("PRJ-002"); err == nil {
		t.Error("DeleteRow() on removed row = nil, want error")
	}
}

func TestCommit_ScopedToVisibleRows(t *testing.T) {
	ds := sampleDataset()

	// Edit only the 물리학과 slice; PRJ-003 is out of scope.
	sel := NewSelection()
	sel.Department = "물리학과"
	e := BeginEdit(VisibleRows(ds, sel), 1)

	if err := e.SetCell("PRJ-001", "Progress", "75"); err != nil {
		t.Fatalf("SetCell() error = %v", err)
	}
	if err := e.DeleteRow("PRJ-002"); err != nil {
		t.Fatalf("DeleteRow() error = %v", err)
	}

	merged := e.Commit(ds)

	idx := merged.IndexByID()
	if _, ok := idx["PRJ-002"]; ok {
		t.Error("deleted row survived the commit")
	}
	if merged.Projects[idx["PRJ-001"]].Progress != 75 {
		t.Errorf("edited row Progress = %d, want 75", merged.Projects[idx["PRJ-001"]].Progress)
	}

	// The out-of-scope row passes through byte for byte.
	if got, want := merged.Projects[idx["PRJ-003"]], ds.Projects[2]; got != want {
		t.Errorf("out-of-scope row changed: got %+v, want %+v", got, want)
	}

	// The input dataset is not mutated.
	if len(ds.Projects) != 3 {
		t.Errorf("source dataset mutated: %d rows", len(ds.Projects))
	}
}

func TestCommit_AssignsDraftIdentifiers(t *testing.T) {
	ds := sampleDataset()
	e := BeginEdit(VisibleRows(ds, NewSelection()), 1)

	p := e.InsertRow()
	if err := e.SetCell(p.ID, "Project_Name", "Research Project 4"); err != nil {
		t.Fatalf("SetCell() error = %v", err)
	}

	merged := e.Commit(ds)
	if len(merged.Projects) != 4 {
		t.Fatalf("merged has %d rows, want 4", len(merged.Projects))
	}

	last := merged.Projects[3]
	if last.ID != "PRJ-004" {
		t.Errorf("draft ID = %q, want PRJ-004", last.ID)
	}
	if last.Name != "Research Project 4" {
		t.Errorf("draft Name = %q", last.Name)
	}
}

func TestEditSessionView_MarksDrafts(t *testing.T) {
	e := BeginEdit(sampleDataset().Projects, 1)
	p := e.InsertRow()

	view := e.View(NewSelection(), 3)
	if len(view.Rows) != 4 {
		t.Fatalf("view has %d rows, want 4", len(view.Rows))
	}
	for _, row := range view.Rows {
		want := row.ID == p.ID
		if row.Draft != want {
			t.Errorf("row %s Draft = %v, want %v", row.ID, row.Draft, want)
		}
	}
}

func TestVersionTracking(t *testing.T) {
	e := BeginEdit(nil, 42)
	if got := e.Version(); got != 42 {
		t.Errorf("Version() = %d, want 42", got)
	}
}
