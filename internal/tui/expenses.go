package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/verte-zerg/pawtrail/internal/model"
)

type expensesState struct {
	cursor     int
	formActive bool
	inputs     []textinput.Model // category, amount, notes
	inputIndex int
	formError  string
	notice     string
}

func (m *Model) initExpenses() {
	m.expenses.inputs = []textinput.Model{
		newFormInput("Category: "),
		newFormInput("Amount: "),
		newFormInput("Notes: "),
	}
	m.expenses.inputs[0].Placeholder = strings.Join(model.ExpenseCategories, " / ")
}

func (m *Model) updateExpenses(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.expenses.formActive {
		return m.updateExpenseForm(msg)
	}
	expenses := m.stores.Expenses.List(context.Background())
	switch msg.String() {
	case "a":
		m.expenses.formActive = true
		m.expenses.formError = ""
		for i := range m.expenses.inputs {
			m.expenses.inputs[i].SetValue("")
		}
		m.expenses.inputs[0].SetValue("Food")
		return m, m.setExpenseIndex(0)
	case "d":
		if m.expenses.cursor >= 0 && m.expenses.cursor < len(expenses) {
			if err := m.stores.Expenses.Delete(context.Background(), expenses[m.expenses.cursor].ID); err != nil {
				m.expenses.notice = "Delete failed: " + err.Error()
			} else {
				m.expenses.notice = "Expense deleted."
			}
		}
		return m, nil
	case "up", "k":
		if m.expenses.cursor > 0 {
			m.expenses.cursor--
		}
		return m, nil
	case "down", "j":
		if m.expenses.cursor < len(expenses)-1 {
			m.expenses.cursor++
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateExpenseForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.expenses.formActive = false
		m.expenses.formError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyExpenseForm(); err != nil {
			m.expenses.formError = err.Error()
			return m, nil
		}
		m.expenses.formActive = false
		m.expenses.formError = ""
		m.expenses.notice = "Expense added."
		return m, nil
	case tea.KeyTab:
		return m, m.setExpenseIndex(m.expenses.inputIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setExpenseIndex(m.expenses.inputIndex - 1)
	}
	var cmd tea.Cmd
	m.expenses.inputs[m.expenses.inputIndex], cmd = m.expenses.inputs[m.expenses.inputIndex].Update(msg)
	return m, cmd
}

func (m *Model) setExpenseIndex(idx int) tea.Cmd {
	count := len(m.expenses.inputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.expenses.inputIndex = idx
	var cmd tea.Cmd
	for i := range m.expenses.inputs {
		if i == idx {
			cmd = m.expenses.inputs[i].Focus()
		} else {
			m.expenses.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyExpenseForm() error {
	category := strings.TrimSpace(m.expenses.inputs[0].Value())
	valid := false
	for _, c := range model.ExpenseCategories {
		if strings.EqualFold(category, c) {
			category = c
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid category (use %s)", strings.Join(model.ExpenseCategories, ", "))
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(m.expenses.inputs[1].Value()), 64)
	if err != nil || amount <= 0 {
		return fmt.Errorf("invalid amount (use a positive number)")
	}
	return m.stores.Expenses.Add(context.Background(), model.Expense{
		ID:       uuid.NewString(),
		Date:     time.Now(),
		Category: category,
		Amount:   amount,
		Notes:    strings.TrimSpace(m.expenses.inputs[2].Value()),
	})
}

func (m *Model) renderExpenses(height int) string {
	if m.expenses.formActive {
		lines := []string{cardValueStyle.Render("Add Expense (enter to save, esc to cancel)"), ""}
		for _, input := range m.expenses.inputs {
			lines = append(lines, input.View())
		}
		if m.expenses.formError != "" {
			lines = append(lines, "", errorStyle.Render(m.expenses.formError))
		}
		return strings.Join(lines, "\n")
	}

	expenses := m.stores.Expenses.List(context.Background())
	if len(expenses) == 0 {
		return "No expenses yet. Press a to add one."
	}

	total := 0.0
	byCategory := map[string]float64{}
	for _, e := range expenses {
		total += e.Amount
		byCategory[e.Category] += e.Amount
	}
	cards := []string{metricCard("Total", fmt.Sprintf("%.2f", total))}
	for _, c := range model.ExpenseCategories {
		if byCategory[c] > 0 {
			cards = append(cards, metricCard(c, fmt.Sprintf("%.2f", byCategory[c])))
		}
	}

	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, cards...)}
	if m.expenses.notice != "" {
		lines = append(lines, noticeStyle.Render(m.expenses.notice))
	}
	for i, e := range expenses {
		line := fmt.Sprintf("%s  %-10s %8.2f", e.Date.Format("2006-01-02"), e.Category, e.Amount)
		if e.Notes != "" {
			line += "  " + e.Notes
		}
		line = truncateLine(line, m.width-2)
		if i == m.expenses.cursor {
			lines = append(lines, selectedStyle.Render("> "+line))
		} else {
			lines = append(lines, "  "+line)
		}
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
