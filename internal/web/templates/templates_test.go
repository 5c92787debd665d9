package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/labdesk/labdesk/internal/core"
)

func render(t *testing.T, p DashboardParams, partial bool) string {
	t.Helper()
	var sb strings.Builder
	var err error
	if partial {
		err = TablePartial(p).Render(context.Background(), &sb)
	} else {
		err = Dashboard(p).Render(context.Background(), &sb)
	}
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return sb.String()
}

func sampleParams() DashboardParams {
	sel := core.NewSelection()
	return DashboardParams{
		View: core.View{
			Columns: core.Fields,
			Rows: []core.Row{
				{ID: "PRJ-001", Cells: []string{
					"PRJ-001", "Research Project 1", "김지원", "물리학과",
					"2025-01-10", "2026-01-10", "120000000", "40",
					"양자컴퓨팅", "진행중", "실험", "", "",
				}},
			},
			Stats: core.Stats{Total: 3, Visible: 1},
		},
		Selection:   sel,
		Departments: []string{"물리학과", "화학과"},
	}
}

func TestDashboardRendersChrome(t *testing.T) {
	html := render(t, sampleParams(), false)

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="ko">`,
		"연구 프로젝트 관리 시스템",
		`id="filter-dept"`,
		`id="filter-status"`,
		`id="column-picker"`,
		`id="table-region"`,
		"전체 프로젝트: 3개",
		"필터링된 프로젝트: 1개",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestReadOnlyGridWidgets(t *testing.T) {
	html := render(t, sampleParams(), true)

	if !strings.Contains(html, "120000000원") {
		t.Error("number cell missing currency suffix")
	}
	if !strings.Contains(html, `style="width:40%"`) {
		t.Error("progress cell missing bar width")
	}
	if strings.Contains(html, "<input") {
		t.Error("read-only grid rendered editing widgets")
	}
}

func TestEditableGridWidgets(t *testing.T) {
	p := sampleParams()
	p.Editing = true
	html := render(t, p, true)

	for _, want := range []string{
		`data-row="PRJ-001" data-col="Principal_Investigator"`,
		`type="date" value="2025-01-10"`,
		`min="0" max="100" value="40"`,
		`<select class="cell"`,
		`data-col="Project_ID" disabled`,
		`data-col="Project_Name" disabled`,
		"delete-row",
		"변경사항 저장",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("editable grid missing %q", want)
		}
	}
}

func TestEditableGridDraftNameEnabled(t *testing.T) {
	p := sampleParams()
	p.Editing = true
	p.View.Rows[0].Draft = true
	html := render(t, p, true)

	if strings.Contains(html, `data-col="Project_Name" disabled`) {
		t.Error("Project_Name disabled on a draft row")
	}
	if !strings.Contains(html, `data-col="Project_ID" disabled`) {
		t.Error("Project_ID not disabled on a draft row")
	}
}

func TestErrorAlertEscapes(t *testing.T) {
	var sb strings.Builder
	if err := ErrorAlert(`<script>`, "다시 시도하세요", "ERR000").Render(context.Background(), &sb); err != nil {
		t.Fatal(err)
	}
	html := sb.String()
	if strings.Contains(html, "<script>") {
		t.Error("alert did not escape message")
	}
	if !strings.Contains(html, "ERR000") {
		t.Error("alert missing support code")
	}
}
