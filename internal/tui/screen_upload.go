package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spendpilot/spendpilot/internal/model"
	"github.com/spendpilot/spendpilot/internal/tui/components"
	"github.com/spendpilot/spendpilot/internal/tui/theme"
	"github.com/spendpilot/spendpilot/internal/upload"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const maxListedFiles = 8

func newPathInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "~/Downloads/statement.pdf"
	ti.CharLimit = 1024
	ti.Width = 48
	ti.Prompt = "› "
	return ti
}

func (a App) updateUploadKey(key string) (tea.Model, tea.Cmd) {
	if key == "q" {
		return a.quit()
	}

	switch a.session.State {
	case model.StateLoading:
		if key == "esc" {
			return a, machineCmd(func() { a.machine.Cancel() })
		}
		return a, nil

	case model.StateSuccess:
		return a, nil

	case model.StateError:
		switch key {
		case "r", "enter":
			return a, a.retryCmd()
		case "n", "esc":
			return a, tea.Batch(machineCmd(a.machine.Reset), scanFilesCmd(a.scanDir))
		}
		return a, nil
	}

	switch key {
	case "j", "down":
		if a.cursor < len(a.files)-1 {
			a.cursor++
		}
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
	case "enter":
		if a.cursor < len(a.files) {
			a.notice = ""
			return a, a.submitPathCmd(a.files[a.cursor].Path)
		}
	case "/", "p":
		a.typing = true
		a.notice = ""
		cmd := a.path.Focus()
		return a, cmd
	case "d":
		return a, loadDashboardCmd(a.results, true)
	case "s":
		return a, scanFilesCmd(a.scanDir)
	}
	return a, nil
}

func (a App) updatePathInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		path := expandHome(strings.TrimSpace(a.path.Value()))
		a.typing = false
		a.path.Blur()
		if path == "" {
			return a, nil
		}
		return a, a.submitPathCmd(path)
	case "esc":
		a.typing = false
		a.path.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.path, cmd = a.path.Update(msg)
	return a, cmd
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func (a App) viewUpload() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ SpendPilot"))
	b.WriteString(subtitleStyle.Render(" · Statement Analysis"))
	b.WriteString("\n\n")

	switch a.session.State {
	case model.StateLoading:
		b.WriteString(a.viewLoadingBody())
	case model.StateSuccess:
		b.WriteString(a.viewSuccessBody())
	case model.StateError:
		b.WriteString(a.viewErrorBody())
	default:
		b.WriteString(a.viewPickerBody())
	}

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewPickerBody() string {
	t := theme.Active
	limits := a.machine.Limits()

	headStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	metaStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	noticeStyle := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Highlight).Background(t.Surface).Bold(true)

	var b strings.Builder
	b.WriteString(headStyle.Render("Upload your bank statement"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s files up to %d MB",
		upload.DescribeAccepted(limits.Accepted), limits.MaxMB())))
	b.WriteString("\n\n")

	if len(a.files) == 0 {
		b.WriteString(metaStyle.Render("No statements found in " + a.scanDir))
		b.WriteString("\n")
	} else {
		start := 0
		if a.cursor >= maxListedFiles {
			start = a.cursor - maxListedFiles + 1
		}
		end := min(start+maxListedFiles, len(a.files))
		for i := start; i < end; i++ {
			f := a.files[i]
			name := fmt.Sprintf("%-32s", truncStr(f.Name, 32))
			meta := fmt.Sprintf("  %8s  %s", humanize.Bytes(uint64(max(f.Size, 0))), humanize.Time(f.ModTime))
			if i == a.cursor {
				b.WriteString(selStyle.Render("▸ " + name))
			} else {
				b.WriteString(rowStyle.Render("  " + name))
			}
			b.WriteString(metaStyle.Render(meta))
			b.WriteString("\n")
		}
		if len(a.files) > maxListedFiles {
			b.WriteString(metaStyle.Render(fmt.Sprintf("  %d statements", len(a.files))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if a.typing {
		b.WriteString(a.path.View())
	} else {
		b.WriteString(metaStyle.Render("or press / to type a path"))
	}
	b.WriteString("\n")

	if a.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(a.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(keyStyle.Render("[Enter]") + mutedStyle.Render(" analyze  "))
	b.WriteString(keyStyle.Render("[d]") + mutedStyle.Render(" dashboard  "))
	b.WriteString(keyStyle.Render("[s]") + mutedStyle.Render(" rescan  "))
	b.WriteString(keyStyle.Render("[q]") + mutedStyle.Render(" quit"))
	return b.String()
}

func (a App) viewLoadingBody() string {
	t := theme.Active
	s := a.session

	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(mutedStyle.Render(" Analyzing "))
	b.WriteString(nameStyle.Render(truncStr(s.FileName, 40)))
	b.WriteString("\n\n")
	b.WriteString(components.UploadProgress(a.bar, s.Progress))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(s.Message))
	b.WriteString("\n\n")
	if !s.StartedAt.IsZero() {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Elapsed %s · ", time.Since(s.StartedAt).Truncate(time.Second))))
	}
	b.WriteString(dimStyle.Render("Large statements can take several minutes"))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("[Esc] cancel"))
	return b.String()
}

func (a App) viewSuccessBody() string {
	t := theme.Active
	okStyle := lipgloss.NewStyle().Foreground(t.Success).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(okStyle.Render("✓ " + a.session.Message))
	b.WriteString("\n\n")
	b.WriteString(components.UploadProgress(a.bar, 100))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(a.spinner.View() + " Opening your dashboard…"))
	return b.String()
}

func (a App) viewErrorBody() string {
	t := theme.Active
	s := a.session

	errStyle := lipgloss.NewStyle().Foreground(t.Debit).Background(t.Surface).Bold(true)
	msgStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(56)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Highlight).Background(t.Surface).Bold(true)

	var b strings.Builder
	b.WriteString(errStyle.Render("✗ Upload failed"))
	if s.FileName != "" {
		b.WriteString(mutedStyle.Render(" · " + truncStr(s.FileName, 40)))
	}
	b.WriteString("\n\n")
	b.WriteString(msgStyle.Render(s.Error))
	b.WriteString("\n\n")
	if s.File != nil {
		b.WriteString(keyStyle.Render("[r]") + mutedStyle.Render(" try again  "))
	} else {
		b.WriteString(keyStyle.Render("[r]") + mutedStyle.Render(" start over  "))
	}
	b.WriteString(keyStyle.Render("[n]") + mutedStyle.Render(" choose another file  "))
	b.WriteString(keyStyle.Render("[q]") + mutedStyle.Render(" quit"))
	return b.String()
}
