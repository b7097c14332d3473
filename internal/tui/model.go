package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/glabrego/reviews-cli/internal/reviews"
	tuiactions "github.com/glabrego/reviews-cli/internal/tui/actions"
	"github.com/glabrego/reviews-cli/internal/tui/platform"
	tuistate "github.com/glabrego/reviews-cli/internal/tui/state"
	tuitheme "github.com/glabrego/reviews-cli/internal/tui/theme"
	"github.com/glabrego/reviews-cli/internal/tui/view"
)

const (
	wheelStep    = 3
	defaultWidth = 80

	loadFailedWarning = "Could not load reviews, scroll or press r to retry"
)

type Options struct {
	Images  ImageSource
	Theme   tuitheme.Theme
	OpenURL func(string) error
	CopyURL func(string) error
	// Offline reports whether pages are being served from the local
	// snapshot.
	Offline func() bool
}

// listEvents collects controller notifications until the next update
// looks at them.
type listEvents struct {
	changed int
	failure error
}

// Model is the bubbletea program for the review list. Update is the main
// context: the controller, the image store and everything the dispatch
// queue delivers are only touched from here.
type Model struct {
	ctrl    *reviews.Controller
	queue   tuiactions.Queue
	images  ImageSource
	store   *imageStore
	events  *listEvents
	theme   tuitheme.Theme
	spinner spinner.Model

	width    int
	height   int
	scroll   int
	cursor   int
	showHelp bool
	status   string
	statusID int
	warning  string

	openURLFn func(string) error
	copyURLFn func(string) error
	offlineFn func() bool
}

func NewModel(ctrl *reviews.Controller, queue tuiactions.Queue, opts Options) Model {
	events := &listEvents{}
	ctrl.OnListChanged(func() { events.changed++ })
	ctrl.OnLoadFailed(func(err error) { events.failure = err })

	if opts.OpenURL == nil {
		opts.OpenURL = platform.OpenURLInBrowser
	}
	if opts.CopyURL == nil {
		opts.CopyURL = platform.CopyURLToClipboard
	}
	if opts.Offline == nil {
		opts.Offline = func() bool { return false }
	}
	return Model{
		ctrl:      ctrl,
		queue:     queue,
		images:    opts.Images,
		store:     newImageStore(),
		events:    events,
		theme:     opts.Theme,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(opts.Theme.Spinner)),
		openURLFn: opts.OpenURL,
		copyURLFn: opts.CopyURL,
		offlineFn: opts.Offline,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tuiactions.ListenCmd(m.queue), tuiactions.StartCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		m.afterScroll()
		return m, nil
	case tuiactions.StartMsg:
		m.ctrl.RequestNextPage()
		m.sync()
		return m, nil
	case tuiactions.DispatchedMsg:
		if msg.Fn != nil {
			msg.Fn()
		}
		m.queue.Drain()
		m.sync()
		return m, tuiactions.ListenCmd(m.queue)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollBy(-wheelStep)
		case tea.MouseButtonWheelDown:
			m.scrollBy(wheelStep)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tuiactions.OpenURLSuccessMsg:
		return m.setStatus(msg.Status, 3*time.Second)
	case tuiactions.OpenURLErrorMsg:
		return m.setStatus(msg.Err.Error(), 4*time.Second)
	case tuiactions.ClearStatusMsg:
		if msg.ID == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		if msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	vp := m.viewport()
	switch msg.String() {
	case "down", "j":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-1)
	case "ctrl+d":
		m.scrollBy(max(1, vp/2))
	case "ctrl+u":
		m.scrollBy(-max(1, vp/2))
	case "pgdown", "ctrl+f":
		m.scrollBy(tuistate.PageStep(vp))
	case "pgup", "ctrl+b":
		m.scrollBy(-tuistate.PageStep(vp))
	case "g", "home":
		m.cursor = 0
		m.scroll = 0
		m.afterScroll()
	case "G", "end":
		m.cursor = tuistate.ClampCursor(m.ctrl.RowCount()-1, m.ctrl.RowCount())
		m.scroll = m.contentHeight()
		m.clampScroll()
		m.afterScroll()
	case "enter", " ":
		m.expandSelected()
	case "r":
		return m.refresh()
	case "o":
		url, err := m.selectedURL()
		if err != nil {
			return m.setStatus(err.Error(), 4*time.Second)
		}
		return m, tuiactions.OpenURLCmd(url, m.openURLFn, m.copyURLFn)
	case "y":
		url, err := m.selectedURL()
		if err != nil {
			return m.setStatus(err.Error(), 4*time.Second)
		}
		return m, tuiactions.CopyURLCmd(url, m.copyURLFn)
	}
	return m, nil
}

func (m Model) View() string {
	vp := m.viewport()
	lines := make([]string, 0, vp+tuistate.ChromeLines)
	lines = append(lines, view.Header(view.HeaderParams{
		Loaded:  m.loadedReviews(),
		Total:   m.ctrl.Total(),
		Phase:   m.ctrl.Phase(),
		Offline: m.offlineFn(),
		Spinner: m.spinner.View(),
	}, m.theme))

	switch {
	case m.showHelp:
		lines = append(lines, padLines(view.HelpLines(), vp)...)
	case m.ctrl.RowCount() == 0:
		lines = append(lines, padLines([]string{"", "  " + view.EmptyState(m.ctrl.Phase(), m.warning)}, vp)...)
	default:
		width := m.listWidth()
		lines = append(lines, view.RenderListBody(view.ListRenderInput{
			RowCount:  m.ctrl.RowCount(),
			Scroll:    m.scroll,
			Viewport:  vp,
			Width:     width,
			Height:    func(i int) int { return m.ctrl.Height(i, width) },
			RenderRow: func(i int) []string { return m.renderRow(i, width) },
		})...)
	}

	lines = append(lines,
		view.StatusLine(m.ctrl.Phase(), m.status, m.warning, m.theme),
		view.Toolbar(m.showHelp),
	)
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(i, width int) []string {
	row, ok := m.ctrl.Row(i)
	if !ok {
		return nil
	}
	selected := i == m.cursor
	if row.Kind == reviews.RowCount {
		l, _ := m.ctrl.CountLayout(i, width)
		return view.RenderCountRow(row.Count, l, width, selected, m.theme)
	}
	l, _ := m.ctrl.ReviewLayout(i, width)
	return view.RenderReviewRow(view.ReviewRowParams{
		Content:  row.Review,
		Layout:   l,
		Width:    width,
		Selected: selected,
		Thumb:    m.store.thumbnail,
	}, m.theme)
}

// sync reacts to controller notifications collected since the last
// update and requests images for whatever is now on screen.
func (m *Model) sync() {
	if m.events.changed > 0 {
		m.events.changed = 0
		m.warning = ""
		m.cursor = tuistate.ClampCursor(m.cursor, m.ctrl.RowCount())
		m.clampScroll()
		m.ctrl.NotifyScrollPosition(m.viewport(), m.contentHeight(), m.scroll)
	}
	if m.events.failure != nil {
		m.events.failure = nil
		m.warning = loadFailedWarning
	}
	m.requestVisibleImages()
}

func (m *Model) afterScroll() {
	m.ctrl.NotifyScrollPosition(m.viewport(), m.contentHeight(), m.scroll)
	m.sync()
}

func (m *Model) moveCursor(delta int) {
	n := m.ctrl.RowCount()
	if n == 0 {
		return
	}
	m.cursor = tuistate.ClampCursor(m.cursor+delta, n)
	m.revealCursor()
}

// revealCursor scrolls the selected row into view.
func (m *Model) revealCursor() {
	offsets, total := m.offsets()
	if len(offsets) == 0 {
		return
	}
	top, bottom := rowSpan(offsets, total, m.cursor)
	m.scroll = tuistate.EnsureVisible(m.scroll, top, bottom-top, m.viewport())
	m.clampScroll()
	m.afterScroll()
}

// scrollBy moves the viewport and pulls the selection along when it would
// leave the screen.
func (m *Model) scrollBy(delta int) {
	m.scroll += delta
	m.clampScroll()
	offsets, total := m.offsets()
	if len(offsets) > 0 {
		vp := m.viewport()
		top, bottom := rowSpan(offsets, total, m.cursor)
		switch {
		case bottom <= m.scroll:
			m.cursor = tuistate.RowAt(offsets, m.scroll)
		case top >= m.scroll+vp:
			m.cursor = tuistate.RowAt(offsets, m.scroll+vp-1)
		}
	}
	m.afterScroll()
}

func (m *Model) expandSelected() {
	row, ok := m.ctrl.Row(m.cursor)
	if !ok || row.Kind != reviews.RowReview {
		return
	}
	if m.ctrl.Expand(row.Review.ID) {
		m.sync()
		m.revealCursor()
	}
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	m.cursor = 0
	m.scroll = 0
	m.store.forgetFailures()
	m.ctrl.TriggerRefresh()
	m.sync()
	return m.setStatus("Reloading reviews", 3*time.Second)
}

func (m Model) setStatus(status string, after time.Duration) (tea.Model, tea.Cmd) {
	m.status = status
	m.statusID++
	return m, tuiactions.ClearStatusCmd(m.statusID, after)
}

// selectedURL is the first photo of the selected review, or its avatar
// when it has no photos.
func (m Model) selectedURL() (string, error) {
	row, ok := m.ctrl.Row(m.cursor)
	if !ok || row.Kind != reviews.RowReview {
		return "", errors.New("no review selected")
	}
	raw := row.Review.AvatarURL
	if len(row.Review.PhotoURLs) > 0 {
		raw = row.Review.PhotoURLs[0]
	}
	return platform.ImageTarget(raw)
}

func (m *Model) requestVisibleImages() {
	if m.images == nil {
		return
	}
	offsets, _ := m.offsets()
	if len(offsets) == 0 {
		return
	}
	end := m.scroll + m.viewport()
	var owners []imageOwner
	for i := tuistate.RowAt(offsets, m.scroll); i < len(offsets) && offsets[i] < end; i++ {
		row, _ := m.ctrl.Row(i)
		for _, identity := range row.Identities() {
			owners = append(owners, imageOwner{identity: identity, row: row.Review.ID})
		}
	}
	ctrl := m.ctrl
	requestImages(m.images, m.store, owners, func(id uuid.UUID) bool { return ctrl.IndexOf(id) >= 0 })
}

func (m Model) listWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m Model) viewport() int {
	return tuistate.ViewportHeight(m.height)
}

func (m Model) offsets() ([]int, int) {
	width := m.listWidth()
	return tuistate.RowOffsets(m.ctrl.RowCount(), func(i int) int { return m.ctrl.Height(i, width) })
}

func (m Model) contentHeight() int {
	_, total := m.offsets()
	return total
}

func (m *Model) clampScroll() {
	m.scroll = tuistate.ClampScroll(m.scroll, m.contentHeight(), m.viewport())
}

func (m Model) loadedReviews() int {
	n := m.ctrl.RowCount()
	if n > 0 {
		if last, _ := m.ctrl.Row(n - 1); last.Kind == reviews.RowCount {
			n--
		}
	}
	return n
}

func rowSpan(offsets []int, total, i int) (int, int) {
	i = tuistate.ClampCursor(i, len(offsets))
	bottom := total
	if i+1 < len(offsets) {
		bottom = offsets[i+1]
	}
	return offsets[i], bottom
}

func padLines(lines []string, n int) []string {
	out := make([]string, n)
	copy(out, lines)
	return out
}
