package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/evanli/vaultkeep/internal/strength"
	"github.com/evanli/vaultkeep/internal/vault"
)

// vaultModel renders the session's entry list and drives the store. The
// store owns the data; the model owns only the cursor and edit inputs.
type vaultModel struct {
	store   *vault.Store
	cursor  int
	editing bool
	field   int // 0 = service, 1 = password
	service textinput.Model
	passwd  textinput.Model
}

func newVaultModel(store *vault.Store) vaultModel {
	service := textinput.New()
	service.Placeholder = "Service"
	service.CharLimit = 128

	passwd := textinput.New()
	passwd.Placeholder = "Password"
	passwd.CharLimit = 128

	return vaultModel{store: store, service: service, passwd: passwd}
}

func (m vaultModel) selected() (vault.Entry, bool) {
	entries := m.store.Entries()
	if m.cursor < 0 || m.cursor >= len(entries) {
		return vault.Entry{}, false
	}
	return entries[m.cursor], true
}

func (m vaultModel) Update(msg tea.Msg) (vaultModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	// A pending delete blocks everything behind the yes/no decision.
	if _, pending := m.store.PendingDelete(); pending {
		switch keyMsg.String() {
		case "y", "Y":
			m.store.ConfirmDelete()
			if m.cursor >= m.store.Len() && m.cursor > 0 {
				m.cursor--
			}
		case "n", "N", "esc":
			m.store.CancelDelete()
		}
		return m, nil
	}

	if m.editing {
		return m.updateEditing(keyMsg)
	}
	return m.updateBrowsing(keyMsg)
}

func (m vaultModel) updateBrowsing(msg tea.KeyMsg) (vaultModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.store.Len()-1 {
			m.cursor++
		}
	case "a":
		m.store.Add()
		m.cursor = m.store.Len() - 1
		return m.startEditing()
	case "e", "enter":
		return m.startEditing()
	case "v":
		if e, ok := m.selected(); ok {
			m.store.ToggleVisibility(e.ID)
		}
	case "d":
		if e, ok := m.selected(); ok {
			m.store.RequestDelete(e.ID)
		}
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m vaultModel) startEditing() (vaultModel, tea.Cmd) {
	e, ok := m.selected()
	if !ok {
		return m, nil
	}
	m.editing = true
	m.field = 0
	m.service.SetValue(e.Service)
	m.passwd.SetValue(e.Password)
	m.passwd.Blur()
	return m, m.service.Focus()
}

func (m vaultModel) updateEditing(msg tea.KeyMsg) (vaultModel, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.editing = false
		m.service.Blur()
		m.passwd.Blur()
		return m, nil
	case "tab", "shift+tab":
		m.field = 1 - m.field
		if m.field == 0 {
			m.passwd.Blur()
			return m, m.service.Focus()
		}
		m.service.Blur()
		return m, m.passwd.Focus()
	}
	return m.updateInputs(msg)
}

// updateInputs feeds a message to the focused edit input and mirrors the
// new value into the store, so every keystroke lands immediately.
func (m vaultModel) updateInputs(msg tea.Msg) (vaultModel, tea.Cmd) {
	if !m.editing {
		return m, nil
	}
	e, ok := m.selected()
	if !ok {
		return m, nil
	}

	var cmd tea.Cmd
	if m.field == 0 {
		m.service, cmd = m.service.Update(msg)
		m.store.UpdateService(e.ID, m.service.Value())
	} else {
		m.passwd, cmd = m.passwd.Update(msg)
		m.store.UpdatePassword(e.ID, m.passwd.Value())
	}
	return m, cmd
}

func (m vaultModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Welcome, %s", m.store.Username())) + "\n")
	b.WriteString(subtitleStyle.Render("Your secure vault is ready.") + "\n\n")

	entries := m.store.Entries()
	for i, e := range entries {
		line := fmt.Sprintf("%-20s  %-20s  %s",
			displayOr(e.Service, "(no service)"),
			displayPassword(e),
			strengthLabel(e.Password),
		)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")

		if m.editing && i == m.cursor {
			b.WriteString("    " + labelStyle.Render("Service:  ") + m.service.View() + "\n")
			b.WriteString("    " + labelStyle.Render("Password: ") + m.passwd.View() + "\n")
		}
	}

	if id, pending := m.store.PendingDelete(); pending {
		b.WriteString("\n" + popupStyle.Render(
			fmt.Sprintf("Delete entry %d? This cannot be undone.\n(y)es · (n)o", id)) + "\n")
	}

	if m.editing {
		b.WriteString("\n" + helpStyle.Render("tab switch field · enter/esc done"))
	} else {
		b.WriteString("\n" + helpStyle.Render("a add · e edit · v reveal/hide · d delete · ↑/↓ move · q quit"))
	}

	return boxStyle.Render(b.String())
}

func displayOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func displayPassword(e vault.Entry) string {
	if e.Password == "" {
		return "(empty)"
	}
	if e.Visible {
		return e.Password
	}
	return strings.Repeat("•", utf8.RuneCountInString(e.Password))
}

func strengthLabel(password string) string {
	res := strength.Evaluate(password)
	return strengthStyles[res.Score].Render(string(res.Label))
}
