// Package core provides the dataset model, filtering, and editing logic
// for the research project dashboard. This package has no UI dependencies
// and can be used by any frontend.
package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the on-disk and on-screen format for project dates.
const DateFormat = "2006-01-02"

// Status is the lifecycle state of a project.
type Status string

const (
	StatusActive    Status = "진행중"
	StatusDone      Status = "완료"
	StatusStopped   Status = "중단"
	StatusInReview  Status = "검토중"
	StatusPreparing Status = "준비중"
)

// Statuses lists every valid Status in display order.
var Statuses = []Status{StatusActive, StatusDone, StatusStopped, StatusInReview, StatusPreparing}

// Phase is the current research phase of a project.
type Phase string

const (
	PhasePlanning   Phase = "계획"
	PhaseExperiment Phase = "실험"
	PhaseCollecting Phase = "데이터수집"
	PhaseAnalysis   Phase = "분석"
	PhaseValidation Phase = "검증"
	PhaseWriting    Phase = "논문작성"
	PhasePatent     Phase = "특허출원"
)

// Phases lists every valid Phase in display order.
var Phases = []Phase{
	PhasePlanning, PhaseExperiment, PhaseCollecting, PhaseAnalysis,
	PhaseValidation, PhaseWriting, PhasePatent,
}

// ValidStatus reports whether s is one of the enumerated status values.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if string(v) == s {
			return true
		}
	}
	return false
}

// ValidPhase reports whether s is one of the enumerated phase values.
func ValidPhase(s string) bool {
	for _, v := range Phases {
		if string(v) == s {
			return true
		}
	}
	return false
}

// Project is one row of the dataset.
// ID and Name are immutable once the row exists.
type Project struct {
	ID             string
	Name           string
	Investigator   string
	Department     string
	StartDate      time.Time // day precision
	EndDate        time.Time // day precision
	Budget         int64     // KRW, plain integer
	Progress       int       // 0-100
	ResearchArea   string
	Status         Status
	Phase          Phase
	ReviewComments string
	ActionItems    string
}

// Widget identifies the editing control used for a field.
type Widget int

const (
	WidgetText Widget = iota
	WidgetDate
	WidgetNumber
	WidgetProgress
	WidgetSelect
)

// FieldSpec describes one column of the dataset: its CSV header name,
// localized display label, editing widget, and enum domain for selects.
type FieldSpec struct {
	Name     string // CSV header name
	Label    string // display label
	Widget   Widget
	Editable bool     // false freezes the field on pre-existing rows
	Options  []string // valid values for WidgetSelect
}

// Fields defines every column in dataset order. The order here is the
// file's column order and must not change.
var Fields = []FieldSpec{
	{Name: "Project_ID", Label: "프로젝트 ID", Widget: WidgetText, Editable: false},
	{Name: "Project_Name", Label: "프로젝트명", Widget: WidgetText, Editable: false},
	{Name: "Principal_Investigator", Label: "책임자", Widget: WidgetText, Editable: true},
	{Name: "Department", Label: "부서", Widget: WidgetText, Editable: true},
	{Name: "Start_Date", Label: "시작일", Widget: WidgetDate, Editable: true},
	{Name: "End_Date", Label: "종료일", Widget: WidgetDate, Editable: true},
	{Name: "Budget", Label: "예산", Widget: WidgetNumber, Editable: true},
	{Name: "Progress", Label: "진행률", Widget: WidgetProgress, Editable: true},
	{Name: "Research_Area", Label: "연구분야", Widget: WidgetText, Editable: true},
	{Name: "Status", Label: "상태", Widget: WidgetSelect, Editable: true, Options: statusOptions()},
	{Name: "Current_Phase", Label: "현재단계", Widget: WidgetSelect, Editable: true, Options: phaseOptions()},
	{Name: "Review_Comments", Label: "검토 의견", Widget: WidgetText, Editable: true},
	{Name: "Action_Items", Label: "조치 사항", Widget: WidgetText, Editable: true},
}

// Columns lists the CSV header names in dataset order.
var Columns = columnNames()

func columnNames() []string {
	cols := make([]string, len(Fields))
	for i, f := range Fields {
		cols[i] = f.Name
	}
	return cols
}

func statusOptions() []string {
	opts := make([]string, len(Statuses))
	for i, s := range Statuses {
		opts[i] = string(s)
	}
	return opts
}

func phaseOptions() []string {
	opts := make([]string, len(Phases))
	for i, p := range Phases {
		opts[i] = string(p)
	}
	return opts
}

// FieldByName returns the FieldSpec for a CSV header name.
func FieldByName(name string) (FieldSpec, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Field returns the display/serialized string value of the named column.
// Dates format as YYYY-MM-DD; Budget and Progress as plain integers.
func (p Project) Field(name string) string {
	switch name {
	case "Project_ID":
		return p.ID
	case "Project_Name":
		return p.Name
	case "Principal_Investigator":
		return p.Investigator
	case "Department":
		return p.Department
	case "Start_Date":
		return p.StartDate.Format(DateFormat)
	case "End_Date":
		return p.EndDate.Format(DateFormat)
	case "Budget":
		return strconv.FormatInt(p.Budget, 10)
	case "Progress":
		return strconv.Itoa(p.Progress)
	case "Research_Area":
		return p.ResearchArea
	case "Status":
		return string(p.Status)
	case "Current_Phase":
		return string(p.Phase)
	case "Review_Comments":
		return p.ReviewComments
	case "Action_Items":
		return p.ActionItems
	}
	return ""
}

// Dataset is the ordered, fully in-memory collection of projects,
// one per identifier.
type Dataset struct {
	Projects []Project
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{Projects: make([]Project, len(d.Projects))}
	copy(out.Projects, d.Projects)
	return out
}

// IndexByID maps project identifiers to their position in the dataset.
func (d *Dataset) IndexByID() map[string]int {
	idx := make(map[string]int, len(d.Projects))
	for i, p := range d.Projects {
		idx[p.ID] = i
	}
	return idx
}

// NextID returns the next unused PRJ-NNN identifier after the highest
// one present in the dataset.
func (d *Dataset) NextID() string {
	max := 0
	for _, p := range d.Projects {
		n, ok := parseProjectID(p.ID)
		if ok && n > max {
			max = n
		}
	}
	return fmt.Sprintf("PRJ-%03d", max+1)
}

func parseProjectID(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, "PRJ-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Departments returns the sorted unique department names in the dataset,
// used to populate the department filter.
func Departments(d *Dataset) []string {
	seen := make(map[string]bool)
	for _, p := range d.Projects {
		seen[p.Department] = true
	}
	out := make([]string, 0, len(seen))
	for dep := range seen {
		out = append(out, dep)
	}
	sort.Strings(out)
	return out
}
