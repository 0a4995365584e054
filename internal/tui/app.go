// Package tui renders the contest leaderboard over SSH as a Bubble Tea app.
package tui

import (
	"context"
	"fmt"

	"stockduel/internal/cache"
	"stockduel/internal/domain"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// RankingSource is the slice of the ranking engine the terminal needs.
type RankingSource interface {
	GetRankingList(ctx context.Context, rankType domain.RankType, periodID string, limit, offset int) (*cache.RankingPage, error)
	GetUserRanking(ctx context.Context, userID int64, rankType domain.RankType, periodID string) (*domain.RankingSnapshot, error)
}

// Services carries everything a session needs, resolved at connect time.
type Services struct {
	Rankings RankingSource
	UserID   int64
	Nickname string
}

var boards = []domain.RankType{domain.RankWeekly, domain.RankMonthly, domain.RankTotal}

const boardPageSize = 20

type boardLoadedMsg struct {
	board domain.RankType
	rows  []domain.RankingSnapshot
	total int
	me    *domain.RankingSnapshot
}

type boardErrMsg struct {
	err error
}

type AppModel struct {
	services Services

	active  int
	table   table.Model
	spinner spinner.Model
	loading bool
	err     error
	total   int
	me      *domain.RankingSnapshot

	width  int
	height int
}

func NewAppModel(services Services) *AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	t := table.New(
		table.WithColumns(boardColumns()),
		table.WithFocused(true),
		table.WithHeight(boardPageSize),
	)
	t.SetStyles(tableStyles())

	return &AppModel{
		services: services,
		active:   len(boards) - 1, // land on the total board
		table:    t,
		spinner:  sp,
		loading:  true,
	}
}

// SetSize is called once by the SSH middleware with the client's pty size.
func (m *AppModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if height > 8 {
		m.table.SetHeight(height - 8)
	}
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadBoard())
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.active = (m.active + 1) % len(boards)
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadBoard())
		case "shift+tab", "left", "h":
			m.active = (m.active + len(boards) - 1) % len(boards)
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadBoard())
		case "r":
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadBoard())
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case boardLoadedMsg:
		// A slow response for a board the user already left is stale.
		if msg.board != boards[m.active] {
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.total = msg.total
		m.me = msg.me
		m.table.SetRows(boardRows(msg.rows))
		m.table.SetCursor(0)
		return m, nil

	case boardErrMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *AppModel) loadBoard() tea.Cmd {
	board := boards[m.active]
	services := m.services
	return func() tea.Msg {
		ctx := context.Background()
		page, err := services.Rankings.GetRankingList(ctx, board, "", boardPageSize, 0)
		if err != nil {
			return boardErrMsg{err: err}
		}

		var me *domain.RankingSnapshot
		if services.UserID != 0 {
			// Own-rank lookup is cosmetic, the board renders without it.
			me, _ = services.Rankings.GetUserRanking(ctx, services.UserID, board, "")
		}

		return boardLoadedMsg{board: board, rows: page.Rows, total: page.Total, me: me}
	}
}

func boardColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Player", Width: 18},
		{Title: "Score", Width: 8},
		{Title: "Win", Width: 6},
		{Title: "Avg Ret", Width: 8},
		{Title: "Streak", Width: 7},
		{Title: "Badge", Width: 16},
	}
}

func boardRows(rows []domain.RankingSnapshot) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		name := r.Nickname
		if name == "" {
			name = fmt.Sprintf("player %d", r.UserID)
		}
		out = append(out, table.Row{
			fmt.Sprintf("%d", r.Rank),
			name,
			fmt.Sprintf("%d", r.PeriodScore),
			fmt.Sprintf("%.0f%%", r.WinRate*100),
			fmt.Sprintf("%+.2f%%", r.AvgReturn),
			fmt.Sprintf("%d", r.CurrentStreak),
			r.Badge,
		})
	}
	return out
}

func (m *AppModel) View() string {
	header := titleStyle.Render("stockduel")
	tabs := renderTabs(m.active)

	var body string
	switch {
	case m.loading:
		body = fmt.Sprintf("\n  %s loading the %s board...\n", m.spinner.View(), boards[m.active])
	case m.err != nil:
		body = errStyle.Render(fmt.Sprintf("\n  board unavailable: %v\n", m.err))
	default:
		body = baseStyle.Render(m.table.View())
	}

	return header + "\n" + tabs + "\n" + body + "\n" + m.footer()
}

func (m *AppModel) footer() string {
	who := m.services.Nickname
	if who == "" {
		who = "guest"
	}

	var own string
	switch {
	case m.me != nil:
		own = fmt.Sprintf("%s: rank %d of %d", who, m.me.Rank, m.total)
	case m.loading:
		own = who
	default:
		own = fmt.Sprintf("%s: not on this board", who)
	}

	return footerStyle.Render(own + "  •  tab: switch board  r: refresh  q: quit")
}
