package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/labdesk/labdesk/internal/core"
)

// TablePartial renders the table region: toolbar, grid (read-only or
// editable), and the stats footer. Partial updates replace this block.
func TablePartial(p DashboardParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := toolbar(w, p.Editing); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<div id="alert"></div>`+"\n"); err != nil {
			return err
		}
		var err error
		if p.Editing {
			err = editableGrid(w, p.View)
		} else {
			err = readOnlyGrid(w, p.View)
		}
		if err != nil {
			return err
		}
		return StatsFooter(p.View.Stats).Render(ctx, w)
	})
}

// StatsFooter renders the total/visible row counts.
func StatsFooter(s core.Stats) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<footer class="stats">📊 전체 프로젝트: %d개 · 필터링된 프로젝트: %d개</footer>`+"\n",
			s.Total, s.Visible)
		return err
	})
}

func toolbar(w io.Writer, editing bool) error {
	checked := ""
	if editing {
		checked = " checked"
	}
	if _, err := fmt.Fprintf(w, `<div class="toolbar">
<label class="toggle"><input type="checkbox" id="edit-toggle"%s> 편집 모드</label>
<a class="btn" href="/api/export">CSV 내보내기</a>
`, checked); err != nil {
		return err
	}
	if editing {
		if _, err := io.WriteString(w, `<button id="add-row" class="btn">행 추가</button>
<button id="save" class="btn btn-primary">변경사항 저장</button>
</div>
<div class="alert alert-warn">⚠️ 변경사항을 저장하지 않으면 수정한 내용이 사라집니다.</div>
`); err != nil {
			return err
		}
		return nil
	}
	_, err := io.WriteString(w, "</div>\n")
	return err
}

func tableHead(w io.Writer, v core.View, editing bool) error {
	if _, err := io.WriteString(w, "<table class=\"grid\">\n<thead><tr>"); err != nil {
		return err
	}
	for _, c := range v.Columns {
		if _, err := fmt.Fprintf(w, "<th>%s</th>", templ.EscapeString(c.Label)); err != nil {
			return err
		}
	}
	if editing {
		if _, err := io.WriteString(w, "<th></th>"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</tr></thead>\n<tbody>\n")
	return err
}

func readOnlyGrid(w io.Writer, v core.View) error {
	if err := tableHead(w, v, false); err != nil {
		return err
	}
	for _, row := range v.Rows {
		if _, err := io.WriteString(w, "<tr>"); err != nil {
			return err
		}
		for i, c := range v.Columns {
			if err := readOnlyCell(w, c, row.Cells[i]); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</tr>\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</tbody>\n</table>\n")
	return err
}

func readOnlyCell(w io.Writer, c core.FieldSpec, value string) error {
	switch c.Widget {
	case core.WidgetProgress:
		_, err := fmt.Fprintf(w,
			`<td class="cell-progress"><div class="progress"><div class="progress-fill" style="width:%s%%"></div></div><span>%s%%</span></td>`,
			templ.EscapeString(value), templ.EscapeString(value))
		return err
	case core.WidgetNumber:
		_, err := fmt.Fprintf(w, `<td class="cell-num">%s원</td>`, templ.EscapeString(value))
		return err
	default:
		_, err := fmt.Fprintf(w, "<td>%s</td>", templ.EscapeString(value))
		return err
	}
}

func editableGrid(w io.Writer, v core.View) error {
	if err := tableHead(w, v, true); err != nil {
		return err
	}
	for _, row := range v.Rows {
		if _, err := fmt.Fprintf(w, `<tr data-row="%s">`, templ.EscapeString(row.ID)); err != nil {
			return err
		}
		for i, c := range v.Columns {
			if err := editableCell(w, c, row, row.Cells[i]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w,
			`<td><button class="btn btn-danger delete-row" data-row="%s">삭제</button></td></tr>`+"\n",
			templ.EscapeString(row.ID)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</tbody>\n</table>\n")
	return err
}

// editableCell renders the editing widget for one cell. Project_ID is
// always disabled; Project_Name is disabled except on draft rows.
func editableCell(w io.Writer, c core.FieldSpec, row core.Row, value string) error {
	disabled := ""
	if !c.Editable && !(c.Name == "Project_Name" && row.Draft) {
		disabled = " disabled"
	}
	attrs := fmt.Sprintf(` data-row="%s" data-col="%s"%s`,
		templ.EscapeString(row.ID), templ.EscapeString(c.Name), disabled)

	switch c.Widget {
	case core.WidgetSelect:
		if _, err := fmt.Fprintf(w, `<td><select class="cell"%s>`, attrs); err != nil {
			return err
		}
		for _, opt := range c.Options {
			if err := option(w, opt, opt, opt == value); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</select></td>")
		return err
	case core.WidgetDate:
		_, err := fmt.Fprintf(w, `<td><input class="cell" type="date" value="%s"%s></td>`,
			templ.EscapeString(value), attrs)
		return err
	case core.WidgetNumber:
		_, err := fmt.Fprintf(w, `<td><input class="cell" type="number" step="1" value="%s"%s></td>`,
			templ.EscapeString(value), attrs)
		return err
	case core.WidgetProgress:
		_, err := fmt.Fprintf(w, `<td><input class="cell" type="number" min="0" max="100" value="%s"%s></td>`,
			templ.EscapeString(value), attrs)
		return err
	default:
		_, err := fmt.Fprintf(w, `<td><input class="cell" type="text" value="%s"%s></td>`,
			templ.EscapeString(value), attrs)
		return err
	}
}
