package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/labdesk/labdesk/internal/core"
)

// DashboardParams carries everything the dashboard needs to render:
// the projected view, the session's selection, the department filter
// options, and whether the session is editing.
type DashboardParams struct {
	View        core.View
	Selection   core.Selection
	Departments []string
	Editing     bool
}

// Dashboard renders the full dashboard page: sidebar controls plus the
// table region that partial updates replace.
func Dashboard(p DashboardParams) templ.Component {
	return Page("연구 프로젝트 관리 시스템", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := sidebar(w, p); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<section id="table-region" class="content">`); err != nil {
			return err
		}
		if err := TablePartial(p).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	}))
}

// sidebar writes the filter controls and the column-visibility selector.
func sidebar(w io.Writer, p DashboardParams) error {
	if _, err := io.WriteString(w, `<aside class="sidebar">
<h2>필터</h2>
<label for="filter-dept">부서</label>
<select id="filter-dept" name="department">
`); err != nil {
		return err
	}
	if err := option(w, core.SelectAll, "전체", p.Selection.Department == core.SelectAll); err != nil {
		return err
	}
	for _, dep := range p.Departments {
		if err := option(w, dep, dep, p.Selection.Department == dep); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, `</select>
<label for="filter-status">상태</label>
<select id="filter-status" name="status">
`); err != nil {
		return err
	}
	if err := option(w, core.SelectAll, "전체", p.Selection.Status == core.SelectAll); err != nil {
		return err
	}
	for _, s := range core.Statuses {
		if err := option(w, string(s), string(s), p.Selection.Status == string(s)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, `</select>
<h2>컬럼 설정</h2>
<fieldset id="column-picker"><legend>숨길 컬럼 선택</legend>
`); err != nil {
		return err
	}
	for _, f := range core.Fields {
		checked := ""
		if p.Selection.Hidden[f.Name] {
			checked = " checked"
		}
		if _, err := fmt.Fprintf(w,
			`<label><input type="checkbox" name="hide" value="%s"%s> %s</label>`+"\n",
			templ.EscapeString(f.Name), checked, templ.EscapeString(f.Label)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</fieldset>
</aside>
`)
	return err
}

func option(w io.Writer, value, label string, selected bool) error {
	sel := ""
	if selected {
		sel = " selected"
	}
	_, err := fmt.Fprintf(w, `<option value="%s"%s>%s</option>`+"\n",
		templ.EscapeString(value), sel, templ.EscapeString(label))
	return err
}
