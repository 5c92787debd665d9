package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labdesk/labdesk/internal/core"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(core.DateFormat, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func testDataset(t *testing.T) *core.Dataset {
	return &core.Dataset{Projects: []core.Project{
		{
			ID: "PRJ-001", Name: "Research Project 1", Investigator: "김지원",
			Department: "물리학과", StartDate: day(t, "2025-01-10"), EndDate: day(t, "2026-01-10"),
			Budget: 120000000, Progress: 40, ResearchArea: "양자컴퓨팅",
			Status: core.StatusActive, Phase: core.PhaseExperiment,
			ReviewComments: "예산 집행률 확인 필요", ActionItems: "",
		},
		{
			ID: "PRJ-002", Name: "Research Project 2", Investigator: "이성민",
			Department: "화학과", StartDate: day(t, "2024-06-01"), EndDate: day(t, "2025-06-01"),
			Budget: 80000000, Progress: 100, ResearchArea: "나노기술",
			Status: core.StatusDone, Phase: core.PhaseWriting,
		},
	}}
}

func tempStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "research_projects.csv"))
}

func TestRoundTrip(t *testing.T) {
	st := tempStore(t)
	ctx := context.Background()
	want := testDataset(t)

	if err := st.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Read through a fresh store so nothing comes from the cache.
	got, _, err := New(st.Path()).Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if len(got.Projects) != len(want.Projects) {
		t.Fatalf("loaded %d projects, want %d", len(got.Projects), len(want.Projects))
	}
	for i := range want.Projects {
		w, g := want.Projects[i], got.Projects[i]
		if !g.StartDate.Equal(w.StartDate) || !g.EndDate.Equal(w.EndDate) {
			t.Errorf("project %s dates = %v/%v, want %v/%v", w.ID, g.StartDate, g.EndDate, w.StartDate, w.EndDate)
		}
		// Dates carry a location after parsing; compare field by field.
		g.StartDate, g.EndDate = w.StartDate, w.EndDate
		if g != w {
			t.Errorf("project %d = %+v, want %+v", i, g, w)
		}
	}
}

func TestWrittenFileStartsWithBOM(t *testing.T) {
	st := tempStore(t)
	if err := st.Save(context.Background(), testDataset(t)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw, err := os.ReadFile(st.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(raw, utf8BOM) {
		t.Error("written file does not start with a UTF-8 BOM")
	}
}

func TestReadWithoutBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.csv")
	content := "Project_ID,Project_Name,Principal_Investigator,Department,Start_Date,End_Date,Budget,Progress,Research_Area,Status,Current_Phase,Review_Comments,Action_Items\n" +
		"PRJ-001,Research Project 1,김지원,물리학과,2025-01-10,2026-01-10,120000000,40,양자컴퓨팅,진행중,실험,,\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, _, err := New(path).Current(context.Background())
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if len(ds.Projects) != 1 || ds.Projects[0].ID != "PRJ-001" {
		t.Errorf("loaded %+v", ds.Projects)
	}
}

func TestCurrentMissingFile(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing.csv"))
	_, _, err := st.Current(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Current() error = %v, want ErrNotFound", err)
	}
}

func TestCurrentMalformedFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			"missing column",
			"Project_ID,Project_Name\nPRJ-001,Research Project 1\n",
		},
		{
			"bad date",
			"Project_ID,Project_Name,Principal_Investigator,Department,Start_Date,End_Date,Budget,Progress,Research_Area,Status,Current_Phase,Review_Comments,Action_Items\n" +
				"PRJ-001,P,a,b,01/10/2025,2026-01-10,1000,40,x,진행중,실험,,\n",
		},
		{
			"bad budget",
			"Project_ID,Project_Name,Principal_Investigator,Department,Start_Date,End_Date,Budget,Progress,Research_Area,Status,Current_Phase,Review_Comments,Action_Items\n" +
				"PRJ-001,P,a,b,2025-01-10,2026-01-10,abc,40,x,진행중,실험,,\n",
		},
		{
			"ragged record",
			"Project_ID,Project_Name,Principal_Investigator,Department,Start_Date,End_Date,Budget,Progress,Research_Area,Status,Current_Phase,Review_Comments,Action_Items\n" +
				"PRJ-001,P\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.csv")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, err := New(path).Current(context.Background())
			if !errors.Is(err, ErrParse) {
				t.Errorf("Current() error = %v, want ErrParse", err)
			}
		})
	}
}

func TestColumnsMatchedByName(t *testing.T) {
	// A file with reordered columns still loads correctly.
	path := filepath.Join(t.TempDir(), "reordered.csv")
	content := "Project_Name,Project_ID,Department,Principal_Investigator,End_Date,Start_Date,Progress,Budget,Status,Research_Area,Current_Phase,Action_Items,Review_Comments\n" +
		"Research Project 1,PRJ-001,물리학과,김지원,2026-01-10,2025-01-10,40,120000000,진행중,양자컴퓨팅,실험,,\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, _, err := New(path).Current(context.Background())
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	p := ds.Projects[0]
	if p.ID != "PRJ-001" || p.Name != "Research Project 1" || p.Budget != 120000000 || p.Progress != 40 {
		t.Errorf("loaded %+v", p)
	}
}

func TestSaveVersion(t *testing.T) {
	st := tempStore(t)
	ctx := context.Background()

	if err := st.Save(ctx, testDataset(t)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	ds, version, err := st.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}

	ds.Projects[0].Progress = 90
	if err := st.SaveVersion(ctx, ds, version); err != nil {
		t.Fatalf("SaveVersion() error = %v", err)
	}

	// The save invalidated the cache: the next read reloads from disk
	// under a new version and reflects the write.
	got, newVersion, err := st.Current(ctx)
	if err != nil {
		t.Fatalf("Current() after save error = %v", err)
	}
	if newVersion == version {
		t.Error("version did not advance after save")
	}
	if got.Projects[0].Progress != 90 {
		t.Errorf("reloaded Progress = %d, want 90", got.Projects[0].Progress)
	}

	// A writer still holding the old version is rejected and the file
	// stays as the winner left it.
	ds.Projects[0].Progress = 10
	if err := st.SaveVersion(ctx, ds, version); !errors.Is(err, ErrStaleVersion) {
		t.Fatalf("SaveVersion(stale) error = %v, want ErrStaleVersion", err)
	}
	got, _, err = st.Current(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Projects[0].Progress != 90 {
		t.Errorf("stale save reached the file: Progress = %d", got.Projects[0].Progress)
	}
}

func TestCurrentReturnsCopies(t *testing.T) {
	st := tempStore(t)
	ctx := context.Background()
	if err := st.Save(ctx, testDataset(t)); err != nil {
		t.Fatal(err)
	}

	a, _, err := st.Current(ctx)
	if err != nil {
		t.Fatal(err)
	}
	a.Projects[0].Department = "변조됨"

	b, _, err := st.Current(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if b.Projects[0].Department == "변조됨" {
		t.Error("mutation of a returned dataset leaked into the cache")
	}
}

func TestSaveCanceledContext(t *testing.T) {
	st := tempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := st.Save(ctx, testDataset(t)); err == nil {
		t.Error("Save() with canceled context = nil, want error")
	}
	if _, err := os.Stat(st.Path()); !os.IsNotExist(err) {
		t.Error("canceled save still wrote the file")
	}
}
