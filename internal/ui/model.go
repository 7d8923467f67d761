package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/faizmokh/diari/internal/files"
	"github.com/faizmokh/diari/internal/journal"
	"github.com/faizmokh/diari/internal/logger"
	"github.com/faizmokh/diari/internal/markup"
	"github.com/faizmokh/diari/internal/styles"
)

// Model owns Bubble Tea state for the main TUI experience.
type Model struct {
	ctx      context.Context
	manager  *files.Manager
	reader   *journal.Reader
	writer   *journal.Writer
	styles   *styles.Styles
	copyText func(string) error

	currentDate time.Time
	section     journal.DateSection
	selected    int

	mode        mode
	composer    composer
	draft       journal.Entry
	editingID   uuid.UUID
	inputBuffer string
	inputLabel  string

	watcher   *files.Watcher
	watchYear int

	browseKeys  browseKeys
	composeKeys composeKeys
	help        help.Model
	viewport    viewport.Model
	width       int
	height      int

	pendingSelectID  uuid.UUID
	shouldSelectLast bool

	loading    bool
	statusLine string
	errorLine  string
}

type mode uint8

const (
	modeBrowse mode = iota
	modeDetail
	modeCompose
	modeMeta
	modeConfirmDelete
)

type sectionLoadedMsg struct {
	date    time.Time
	section journal.DateSection
	err     error
}

type appendResultMsg struct {
	entry journal.Entry
	err   error
}

type editResultMsg struct {
	entry journal.Entry
	err   error
}

type deleteResultMsg struct {
	entry journal.Entry
	err   error
}

type watchStartedMsg struct {
	watcher *files.Watcher
	year    int
	err     error
}

type fileChangedMsg struct {
	path    string
	watcher *files.Watcher
}

// NewModel seeds a Bubble Tea model with required collaborators. A nil
// styles uses the default theme.
func NewModel(ctx context.Context, manager *files.Manager, st *styles.Styles) Model {
	if st == nil {
		st = styles.NewStyles(nil)
	}
	initialDate := today()

	return Model{
		ctx:         ctx,
		manager:     manager,
		reader:      journal.NewReader(manager),
		writer:      journal.NewWriter(manager),
		styles:      st,
		copyText:    clipboard.WriteAll,
		currentDate: initialDate,
		section:     journal.DateSection{Date: initialDate},
		mode:        modeBrowse,
		browseKeys:  newBrowseKeys(),
		composeKeys: newComposeKeys(),
		help:        help.New(),
		viewport:    viewport.New(80, 20),
		loading:     true,
		statusLine:  "Loading today's entries...",
	}
}

// Init loads the initial date section and starts watching the journal files.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSectionCmd(m.currentDate), m.watchCmd(m.currentDate))
}

// Update wires TUI state transitions from user input and async commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case sectionLoadedMsg:
		return m.handleSectionLoaded(msg)
	case appendResultMsg:
		return m.handleAppendResult(msg)
	case editResultMsg:
		return m.handleEditResult(msg)
	case deleteResultMsg:
		return m.handleDeleteResult(msg)
	case watchStartedMsg:
		return m.handleWatchStarted(msg)
	case fileChangedMsg:
		return m.handleFileChanged(msg)
	default:
		return m, nil
	}
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.viewport.Width = msg.Width
	if h := msg.Height - 6; h > 0 {
		m.viewport.Height = h
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeCompose:
		return m.handleComposeKey(msg)
	case modeMeta:
		return m.handleMetaKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	case modeDetail:
		return m.handleDetailKey(msg)
	}

	keys := m.browseKeys
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.Down):
		if m.selected < len(m.section.Entries)-1 {
			m.selected++
			m.statusLine = fmt.Sprintf("Selected entry %d of %d", m.selected+1, len(m.section.Entries))
			m.errorLine = ""
		}
	case key.Matches(msg, keys.Up):
		if m.selected > 0 && len(m.section.Entries) > 0 {
			m.selected--
			m.statusLine = fmt.Sprintf("Selected entry %d of %d", m.selected+1, len(m.section.Entries))
			m.errorLine = ""
		}
	case key.Matches(msg, keys.Prev):
		return m.gotoDate(m.currentDate.AddDate(0, 0, -1))
	case key.Matches(msg, keys.Next):
		return m.gotoDate(m.currentDate.AddDate(0, 0, 1))
	case key.Matches(msg, keys.Today):
		return m.gotoDate(today())
	case key.Matches(msg, keys.Reload):
		return m.reload()
	case key.Matches(msg, keys.Open):
		return m.openDetail()
	case key.Matches(msg, keys.Copy):
		return m.copySelected()
	case key.Matches(msg, keys.Add):
		return m.beginCompose(journal.Entry{})
	case key.Matches(msg, keys.Edit):
		if entry, ok := m.selectedEntry(); ok {
			return m.beginCompose(entry)
		}
	case key.Matches(msg, keys.Meta):
		return m.beginMeta()
	case key.Matches(msg, keys.Delete):
		if _, ok := m.selectedEntry(); ok {
			m.mode = modeConfirmDelete
			m.statusLine = ""
			m.errorLine = ""
		}
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.composeKeys
	var err error

	switch {
	case key.Matches(msg, keys.Save):
		return m.saveDraft()
	case key.Matches(msg, keys.Cancel):
		return m.cancelInput("Draft discarded.")
	case key.Matches(msg, keys.Bold):
		err = m.composer.toggleBold()
	case key.Matches(msg, keys.Italic):
		err = m.composer.toggleItalic()
	case key.Matches(msg, keys.Header):
		err = m.composer.header()
	case key.Matches(msg, keys.Bullet):
		err = m.composer.bullet()
	case key.Matches(msg, keys.Stamp):
		err = m.composer.stamp()
	case key.Matches(msg, keys.Range):
		before := m.composer.state.Document()
		var tracking bool
		tracking, err = m.composer.toggleRange()
		switch {
		case err != nil:
		case tracking:
			m.statusLine = "Tracking a time range. Type what happened, alt+r to stop."
		case m.composer.state.Document() == before:
			m.statusLine = "Empty time range discarded."
		default:
			m.statusLine = "Time range added."
		}
	case key.Matches(msg, keys.SelLeft):
		m.composer.move(-1, true)
	case key.Matches(msg, keys.SelRight):
		m.composer.move(1, true)
	default:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m.quit()
		case tea.KeyEnter:
			err = m.composer.insert("\n")
		case tea.KeyBackspace:
			m.composer.backspace()
		case tea.KeyDelete:
			m.composer.deleteForward()
		case tea.KeyLeft:
			m.composer.move(-1, false)
		case tea.KeyRight:
			m.composer.move(1, false)
		case tea.KeyHome, tea.KeyCtrlA:
			m.composer.home()
		case tea.KeyEnd, tea.KeyCtrlE:
			m.composer.end()
		case tea.KeySpace:
			err = m.composer.insert(" ")
		case tea.KeyRunes:
			if !msg.Alt {
				err = m.composer.insert(string(msg.Runes))
			}
		}
	}

	if err != nil {
		logger.Warnf("compose: %v", err)
		m.errorLine = err.Error()
	} else {
		m.errorLine = ""
	}
	return m, nil
}

func (m Model) handleMetaKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.submitMeta()
	case tea.KeyEsc:
		return m.cancelInput("Cancelled.")
	case tea.KeyCtrlC:
		return m.quit()
	case tea.KeyBackspace, tea.KeyCtrlH:
		if len(m.inputBuffer) > 0 {
			m.inputBuffer = trimLastRune(m.inputBuffer)
		}
	case tea.KeyCtrlU:
		m.inputBuffer = ""
	case tea.KeySpace:
		m.inputBuffer += " "
	case tea.KeyRunes:
		m.inputBuffer += string(msg.Runes)
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m.confirmDelete()
	case "n", "N", "esc":
		return m.cancelInput("Delete cancelled.")
	case "ctrl+c":
		return m.quit()
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.browseKeys.Copy):
		return m.copySelected()
	case msg.Type == tea.KeyEsc, key.Matches(msg, m.browseKeys.Open), msg.String() == "q":
		m.mode = modeBrowse
		return m, nil
	case msg.Type == tea.KeyCtrlC:
		return m.quit()
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) selectedEntry() (journal.Entry, bool) {
	if m.loading || m.selected < 0 || m.selected >= len(m.section.Entries) {
		return journal.Entry{}, false
	}
	return m.section.Entries[m.selected], true
}

func (m Model) beginCompose(entry journal.Entry) (tea.Model, tea.Cmd) {
	m.mode = modeCompose
	m.draft = entry
	m.editingID = entry.ID
	m.composer = newComposer(entry.Content, nil)
	if entry.ID == uuid.Nil {
		m.statusLine = "New entry. ctrl+s to save, esc to discard."
	} else {
		m.statusLine = fmt.Sprintf("Editing entry %d. ctrl+s to save, esc to discard.", m.selected+1)
	}
	m.errorLine = ""
	return m, nil
}

func (m Model) saveDraft() (tea.Model, tea.Cmd) {
	content := m.composer.document()
	if strings.TrimSpace(content) == "" {
		m.errorLine = "Entry cannot be empty."
		return m, nil
	}

	entry := m.draft
	entry.Content = content

	var cmd tea.Cmd
	if m.editingID == uuid.Nil {
		now := time.Now().In(m.currentDate.Location())
		entry.Time = time.Date(m.currentDate.Year(), m.currentDate.Month(), m.currentDate.Day(), now.Hour(), now.Minute(), 0, 0, now.Location())
		cmd = m.appendEntryCmd(m.currentDate, entry)
		m.statusLine = "Saving entry..."
	} else {
		cmd = m.editEntryCmd(m.currentDate, entry)
		m.statusLine = "Updating entry..."
	}

	m.mode = modeBrowse
	m.composer = composer{}
	m.draft = journal.Entry{}
	m.editingID = uuid.Nil
	m.errorLine = ""
	return m, cmd
}

func (m Model) beginMeta() (tea.Model, tea.Cmd) {
	entry, ok := m.selectedEntry()
	if !ok {
		return m, nil
	}
	m.mode = modeMeta
	m.draft = entry
	m.editingID = entry.ID
	m.inputBuffer = entryToMeta(entry)
	m.inputLabel = fmt.Sprintf("Time and tags for entry %d (@HH:MM #tag ...; Enter to save, Esc to cancel):", m.selected+1)
	m.statusLine = ""
	m.errorLine = ""
	return m, nil
}

func (m Model) submitMeta() (tea.Model, tea.Cmd) {
	base := m.draft.Time
	if base.IsZero() {
		base = m.currentDate
	}
	when, tags, err := parseMetaLine(m.inputBuffer, base)
	if err != nil {
		m.errorLine = err.Error()
		return m, nil
	}

	updated := m.draft
	updated.Tags = tags
	if when != nil {
		updated.Time = *when
	}
	cmd := m.editEntryCmd(m.currentDate, updated)
	m.mode = modeBrowse
	m.inputBuffer = ""
	m.inputLabel = ""
	m.editingID = uuid.Nil
	m.statusLine = "Updating entry..."
	m.errorLine = ""
	return m, cmd
}

func (m Model) cancelInput(message string) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	m.composer = composer{}
	m.draft = journal.Entry{}
	m.editingID = uuid.Nil
	m.inputBuffer = ""
	m.inputLabel = ""
	if message != "" {
		m.statusLine = message
	}
	m.errorLine = ""
	return m, nil
}

func (m Model) confirmDelete() (tea.Model, tea.Cmd) {
	entry, ok := m.selectedEntry()
	if !ok {
		return m.cancelInput("No entry selected.")
	}
	m.mode = modeBrowse
	m.statusLine = "Deleting entry..."
	m.errorLine = ""
	m.pendingSelectID = uuid.Nil
	return m, m.deleteEntryCmd(m.currentDate, entry.ID)
}

func (m Model) openDetail() (tea.Model, tea.Cmd) {
	entry, ok := m.selectedEntry()
	if !ok {
		return m, nil
	}
	m.mode = modeDetail
	m.viewport.SetContent(m.detailContent(entry))
	m.viewport.GotoTop()
	return m, nil
}

func (m Model) copySelected() (tea.Model, tea.Cmd) {
	entry, ok := m.selectedEntry()
	if !ok {
		return m, nil
	}
	if err := m.copyText(markup.PlainText(entry.Content)); err != nil {
		m.errorLine = fmt.Sprintf("Copy failed: %v", err)
		m.statusLine = ""
		return m, nil
	}
	m.statusLine = fmt.Sprintf("Copied entry %d to the clipboard.", m.selected+1)
	m.errorLine = ""
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
	return m, tea.Quit
}

func trimLastRune(input string) string {
	if input == "" {
		return input
	}
	runes := []rune(input)
	return string(runes[:len(runes)-1])
}

func (m Model) handleSectionLoaded(msg sectionLoadedMsg) (tea.Model, tea.Cmd) {
	// Ignore stale results for dates we no longer display.
	if !sameDay(m.currentDate, msg.date) {
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Failed to load %s: %v", msg.date.Format("2006-01-02"), msg.err)
		m.statusLine = ""
		return m, nil
	}

	m.errorLine = ""
	section := msg.section
	if section.Date.IsZero() {
		section.Date = msg.date
	}
	m.section = section
	count := len(m.section.Entries)
	if count == 0 {
		m.selected = 0
		m.statusLine = fmt.Sprintf("%s has no entries.", msg.date.Format("2006-01-02"))
	} else {
		switch {
		case m.shouldSelectLast:
			m.selected = count - 1
		case m.pendingSelectID != uuid.Nil && section.Index(m.pendingSelectID) >= 0:
			m.selected = section.Index(m.pendingSelectID)
		case m.selected >= count:
			m.selected = count - 1
		}
		m.statusLine = fmt.Sprintf("Loaded %d entr%s.", count, plural(count))
	}
	m.shouldSelectLast = false
	m.pendingSelectID = uuid.Nil
	return m, nil
}

func (m Model) handleAppendResult(msg appendResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Add failed: %v", msg.err)
		m.statusLine = ""
		return m, nil
	}

	m.errorLine = ""
	m.statusLine = "Entry added."
	m.loading = true
	m.shouldSelectLast = true
	return m, m.loadSectionCmd(m.currentDate)
}

func (m Model) handleEditResult(msg editResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Edit failed: %v", msg.err)
		m.statusLine = ""
		return m, nil
	}

	m.errorLine = ""
	m.statusLine = "Entry updated."
	m.loading = true
	m.pendingSelectID = msg.entry.ID
	return m, m.loadSectionCmd(m.currentDate)
}

func (m Model) handleDeleteResult(msg deleteResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorLine = fmt.Sprintf("Delete failed: %v", msg.err)
		m.statusLine = ""
		return m, nil
	}

	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Deleted entry from %s.", msg.entry.Time.Format("15:04"))
	m.loading = true
	return m, m.loadSectionCmd(m.currentDate)
}

func (m Model) handleWatchStarted(msg watchStartedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logger.Warnf("watch journal: %v", msg.err)
		m.watchYear = 0
		return m, nil
	}
	if m.watcher != nil {
		m.watcher.Close()
	}
	m.watcher = msg.watcher
	m.watchYear = msg.year
	return m, waitForChange(msg.watcher)
}

func (m Model) handleFileChanged(msg fileChangedMsg) (tea.Model, tea.Cmd) {
	if msg.watcher != m.watcher {
		return m, nil
	}
	wait := waitForChange(msg.watcher)
	if msg.path != m.manager.MonthPath(m.currentDate) || m.mode != modeBrowse || m.loading {
		return m, wait
	}
	logger.Debugf("reloading after change to %s", msg.path)
	m.loading = true
	return m, tea.Batch(wait, m.loadSectionCmd(m.currentDate))
}

func (m Model) gotoDate(date time.Time) (tea.Model, tea.Cmd) {
	if sameDay(m.currentDate, date) {
		return m.reload()
	}

	m.currentDate = date
	m.section = journal.DateSection{Date: date}
	m.selected = 0
	m.loading = true
	m.statusLine = fmt.Sprintf("Loading %s...", date.Format("2006-01-02"))
	m.errorLine = ""
	m.mode = modeBrowse
	m.pendingSelectID = uuid.Nil
	m.shouldSelectLast = false

	cmd := m.loadSectionCmd(date)
	if date.Year() != m.watchYear {
		cmd = tea.Batch(cmd, m.watchCmd(date))
	}
	return m, cmd
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	m.loading = true
	m.statusLine = fmt.Sprintf("Refreshing %s...", m.currentDate.Format("2006-01-02"))
	m.errorLine = ""
	return m, m.loadSectionCmd(m.currentDate)
}

func (m Model) loadSectionCmd(date time.Time) tea.Cmd {
	reader := m.reader
	ctx := m.ctx
	return func() tea.Msg {
		section, err := reader.Section(ctx, date)
		if err != nil {
			if errors.Is(err, journal.ErrSectionNotFound) {
				return sectionLoadedMsg{
					date:    date,
					section: journal.DateSection{Date: date},
				}
			}
			return sectionLoadedMsg{
				date: date,
				err:  err,
			}
		}
		return sectionLoadedMsg{
			date:    date,
			section: section,
		}
	}
}

func (m Model) appendEntryCmd(date time.Time, entry journal.Entry) tea.Cmd {
	writer := m.writer
	ctx := m.ctx
	return func() tea.Msg {
		saved, err := writer.Append(ctx, date, entry)
		return appendResultMsg{entry: saved, err: err}
	}
}

func (m Model) editEntryCmd(date time.Time, entry journal.Entry) tea.Cmd {
	writer := m.writer
	ctx := m.ctx
	entry.Tags = journal.NormalizeTags(entry.Tags)
	return func() tea.Msg {
		err := writer.Edit(ctx, date, entry.ID, entry)
		return editResultMsg{entry: entry, err: err}
	}
}

func (m Model) deleteEntryCmd(date time.Time, id uuid.UUID) tea.Cmd {
	writer := m.writer
	ctx := m.ctx
	return func() tea.Msg {
		entry, err := writer.Delete(ctx, date, id)
		return deleteResultMsg{entry: entry, err: err}
	}
}

func (m Model) watchCmd(date time.Time) tea.Cmd {
	manager := m.manager
	ctx := m.ctx
	return func() tea.Msg {
		w, err := manager.Watch(ctx, date)
		return watchStartedMsg{watcher: w, year: date.Year(), err: err}
	}
}

func waitForChange(w *files.Watcher) tea.Cmd {
	return func() tea.Msg {
		path, ok := <-w.Changes()
		if !ok {
			return nil
		}
		return fileChangedMsg{path: path, watcher: w}
	}
}

func today() time.Time {
	now := time.Now().In(time.Local)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func plural(count int) string {
	if count == 1 {
		return "y"
	}
	return "ies"
}

func entryToMeta(entry journal.Entry) string {
	parts := make([]string, 0, 1+len(entry.Tags))
	if !entry.Time.IsZero() {
		parts = append(parts, "@"+entry.Time.Format("15:04"))
	}
	for _, tag := range entry.Tags {
		parts = append(parts, "#"+tag)
	}
	return strings.Join(parts, " ")
}

func parseMetaLine(input string, base time.Time) (*time.Time, []string, error) {
	var (
		when *time.Time
		tags []string
	)
	for _, token := range strings.Fields(input) {
		switch {
		case strings.HasPrefix(token, "#") && len(token) > 1:
			tags = append(tags, strings.TrimPrefix(token, "#"))
		case strings.HasPrefix(token, "@") && len(token) > 1:
			parsed, err := time.ParseInLocation("15:04", token[1:], base.Location())
			if err != nil {
				return nil, nil, fmt.Errorf("invalid time %q (expected HH:MM)", token[1:])
			}
			t := time.Date(base.Year(), base.Month(), base.Day(), parsed.Hour(), parsed.Minute(), 0, 0, base.Location())
			when = &t
		default:
			return nil, nil, fmt.Errorf("unexpected %q (use @HH:MM and #tags)", token)
		}
	}
	return when, tags, nil
}
