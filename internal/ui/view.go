package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stargazer/internal/apod"
)

// View implements tea.Model.
func (m Model) View() string {
	sections := m.topSections()
	if m.shown != nil && m.notice == nil && !m.loading {
		sections = append(sections, m.styles.Body.Render(m.viewport.View()))
	}
	sections = append(sections, m.renderFooter())
	return strings.Join(sections, "\n")
}

// chrome renders everything except the scrolling explanation.
func (m Model) chrome() string {
	return strings.Join(append(m.topSections(), m.renderFooter()), "\n")
}

func (m Model) topSections() []string {
	sections := []string{
		m.renderHeader(),
		m.renderDateLine(),
	}
	if body := m.renderPicture(); body != "" {
		sections = append(sections, body)
	}
	if m.notice != nil {
		sections = append(sections, m.renderNotice())
	}
	return sections
}

func (m Model) renderHeader() string {
	status := m.styles.Status.Render("Astronomy Picture of the Day")
	if m.loading {
		status = m.styles.Busy.Render(m.spinner.View() + " Fetching " + apod.FormatDate(m.requested) + "...")
	}
	content := m.styles.Logo.Render("stargazer") + m.styles.Status.Render("  ") + status
	style := m.styles.Header
	if m.width > 0 {
		style = style.Width(m.width)
	}
	return style.Render(content)
}

func (m Model) renderDateLine() string {
	label := m.styles.Label.Render("Date ")
	return " " + label + m.input.View()
}

// renderPicture shows the metadata of the last displayable outcome. The area
// is empty while a fetch is in flight.
func (m Model) renderPicture() string {
	if m.shown == nil || m.loading {
		return ""
	}
	p := m.shown.Presentation
	lines := []string{"", m.styles.Title.Render(p.Title)}
	if p.Credit != "" {
		lines = append(lines, m.styles.Credit.Render(p.Credit))
	}
	lines = append(lines, m.styles.Date.Render(p.Date))
	if p.ImagePath != "" {
		lines = append(lines, m.styles.Label.Render("Image ")+m.styles.Path.Render(p.ImagePath))
	}
	lines = append(lines, "")
	return indent(strings.Join(lines, "\n"))
}

func (m Model) renderNotice() string {
	n := m.notice
	hdr := m.styles.NoticeHdr
	if n.err {
		hdr = m.styles.ErrorHdr
	}
	width := 60
	if m.width > 0 && m.width-4 < width {
		width = m.width - 4
	}
	body := hdr.Render(n.title) + "\n" + lipgloss.NewStyle().Width(width-4).Render(n.body) + "\n" +
		m.styles.Label.Render("esc to dismiss")
	return "\n" + indent(m.styles.Notice.Width(width).Render(body))
}

func (m Model) renderFooter() string {
	return m.styles.Footer.Render(m.help.View(m.keys))
}

func indent(s string) string {
	return " " + strings.ReplaceAll(s, "\n", "\n ")
}
