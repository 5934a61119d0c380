package view

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/europemission/martha/internal/backup"
)

type backupState int

const (
	backupStateMenu backupState = iota
	backupStateExportPath
	backupStateRestorePath
	backupStateRestoreConfirm
)

// BackupModel exports the database to a JSON file and restores from one.
type BackupModel struct {
	CommonModel
	svc *backup.Service

	state backupState
	form  *huh.Form

	restorePath string
	status      string
}

func NewBackupModel(svc *backup.Service) BackupModel {
	return BackupModel{svc: svc, state: backupStateMenu}
}

func (m BackupModel) Title() string { return "Backup & Restore" }

func (m BackupModel) ShortHelp() string {
	switch m.state {
	case backupStateMenu:
		return "Esc: back | e: export | r: restore"
	case backupStateRestoreConfirm:
		return "y: replace everything | n: cancel"
	}

	return "Esc: cancel | Enter: confirm"
}

type backupDoneMsg struct {
	path string
	err  error
}

type restoreDoneMsg struct {
	env *backup.Envelope
	err error
}

func (m BackupModel) Init() tea.Cmd {
	return nil
}

func (m BackupModel) buildPathForm(title, placeholder string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title(title).
				Placeholder(placeholder).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path cannot be empty")
					}
					return nil
				}),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case backupDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Backup failed: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Backup written to %s", msg.path)
		}

		m.state = backupStateMenu
		m.form = nil

		return m, nil

	case restoreDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Restore failed: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Restored %d transactions, %d circuits, %d products.",
				len(msg.env.Transactions), len(msg.env.Circuits), len(msg.env.Products))
		}

		m.state = backupStateMenu
		m.form = nil

		return m, nil
	}

	switch m.state {
	case backupStateMenu:
		return m.updateMenu(msg)
	case backupStateExportPath, backupStateRestorePath:
		return m.updatePath(msg)
	case backupStateRestoreConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m BackupModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "e":
		defaultPath := filepath.Join(".", fmt.Sprintf("backup-%s.json", time.Now().Format("2006-01-02")))
		m.form = m.buildPathForm("Write backup to", defaultPath)
		m.state = backupStateExportPath

		return m, m.form.Init()
	case "r":
		m.form = m.buildPathForm("Restore from", "./backup.json")
		m.state = backupStateRestorePath

		return m, m.form.Init()
	}

	return m, nil
}

func (m BackupModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = backupStateMenu
			m.form = nil

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	path := m.form.GetString("path")

	if m.state == backupStateExportPath {
		return m, m.exportCmd(path)
	}

	// Restores replace the whole database; make the user confirm.
	m.restorePath = path
	m.state = backupStateRestoreConfirm
	m.form = nil

	return m, nil
}

func (m BackupModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y":
		return m, m.restoreCmd(m.restorePath)
	case "n", "esc":
		m.state = backupStateMenu
		return m, nil
	}

	return m, nil
}

func (m BackupModel) exportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return backupDoneMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.WriteTo(ctx, f); err != nil {
			return backupDoneMsg{err: err}
		}

		return backupDoneMsg{path: path}
	}
}

func (m BackupModel) restoreCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return restoreDoneMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := DbCtx()
		defer cancel()

		env, err := m.svc.Import(ctx, f)

		return restoreDoneMsg{env: env, err: err}
	}
}

func (m BackupModel) View() string {
	var content string

	switch m.state {
	case backupStateMenu:
		content = "Backup & Restore\n\n" +
			"e. Export database to JSON\n" +
			"r. Restore database from JSON\n\n" +
			"Esc to go back"
	case backupStateExportPath, backupStateRestorePath:
		content = m.form.View()
	case backupStateRestoreConfirm:
		content = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Render(fmt.Sprintf("Restoring from %s will REPLACE all current data.\n\nContinue? (y/n)", m.restorePath))
	}

	if m.status != "" {
		content += "\n\n" + lipgloss.NewStyle().Faint(true).Render(m.status)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
