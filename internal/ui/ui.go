package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotdir/internal/intake"
	"github.com/desertthunder/spotdir/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	FileListView ViewState = iota
	NameView
	SyncView
	ResultView
)

// fixedSteps counts the profile, playlist and append entries around the per-file searches.
const fixedSteps = 3

// Model represents the TUI application state.
type Model struct {
	ctx            context.Context
	cancel         context.CancelFunc
	view           ViewState
	folder         *intake.Folder
	pipeline       *tasks.SyncPipeline
	width          int
	height         int
	fileList       list.Model
	nameInput      textinput.Model
	spinner        spinner.Model
	bar            progress.Model
	logView        viewport.Model
	lines          []string
	steps          int
	collectionName string
	progressChan   chan tasks.ProgressUpdate
	done           chan syncOutcome
	result         *tasks.SyncResult
	err            error
	notice         string
	help           help.Model
	keys           keyMap
}

// NewModel creates a TUI model that syncs folder through pipeline.
func NewModel(ctx context.Context, folder *intake.Folder, pipeline *tasks.SyncPipeline) *Model {
	ctx, cancel := context.WithCancel(ctx)

	items := make([]list.Item, len(folder.Files))
	for i, name := range folder.Files {
		items[i] = newFileItem(name)
	}
	fileList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	fileList.Title = fmt.Sprintf("%s (%d files)", folder.Name, len(folder.Files))

	nameInput := textinput.New()
	nameInput.Placeholder = "Playlist name"
	nameInput.CharLimit = 100

	return &Model{
		ctx:       ctx,
		cancel:    cancel,
		view:      FileListView,
		folder:    folder,
		pipeline:  pipeline,
		fileList:  fileList,
		nameInput: nameInput,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:       progress.New(progress.WithDefaultGradient()),
		logView:   viewport.New(80, 12),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init implements [tea.Model]. Nothing runs until a playlist name is confirmed.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.view {
		case FileListView:
			return m.handleFileListKeys(msg)
		case NameView:
			return m.handleNameKeys(msg)
		case SyncView:
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			return m, cmd
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		if m.view != SyncView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.appendLine(msg.data.(tasks.ProgressUpdate))
			return m, m.waitForProgress()
		case MsgSyncComplete:
			outcome := msg.data.(syncOutcome)
			m.result = outcome.result
			m.err = outcome.err
			m.progressChan = nil
			m.view = ResultView
			return m, nil
		}
	}

	return m.updateComponents(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case FileListView:
		return m.renderFileList()
	case NameView:
		return m.renderName()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.fileList.SetSize(width-4, height-6)
	m.bar.Width = min(width-4, 60)
	m.logView.Width = width - 4
	m.logView.Height = max(height-10, 5)
	m.nameInput.Width = min(width-8, 60)
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

func (m *Model) handleFileListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.fileList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.fileList, cmd = m.fileList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m.quit()
	case key.Matches(msg, m.keys.enter):
		m.view = NameView
		m.notice = ""
		if m.nameInput.Value() == "" {
			m.nameInput.SetValue(m.folder.Name)
		}
		return m, m.nameInput.Focus()
	}

	var cmd tea.Cmd
	m.fileList, cmd = m.fileList.Update(msg)
	return m, cmd
}

func (m *Model) handleNameKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.nameInput.Blur()
		m.view = FileListView
		return m, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			m.notice = "Playlist name cannot be empty"
			return m, nil
		}
		m.nameInput.Blur()
		m.collectionName = name
		m.view = SyncView
		return m, tea.Batch(m.spinner.Tick, m.startSync())
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		return m.quit()
	}
	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case FileListView:
		m.fileList, cmd = m.fileList.Update(msg)
	case NameView:
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return m, cmd
}

// startSync runs the pipeline on its own goroutine and returns the command that reads its first update.
//
// The goroutine closes the progress channel once Run returns, then hands over the result.
func (m *Model) startSync() tea.Cmd {
	m.lines = nil
	m.steps = 0
	m.progressChan = make(chan tasks.ProgressUpdate)
	m.done = make(chan syncOutcome, 1)

	progressChan, done := m.progressChan, m.done
	names, name := m.folder.Files, m.collectionName

	go func() {
		result, err := m.pipeline.Run(m.ctx, names, name, progressChan)
		close(progressChan)
		done <- syncOutcome{result: result, err: err}
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progressChan, done := m.progressChan, m.done
	return func() tea.Msg {
		if progressChan == nil {
			return syncCompleteMsg(m.result, m.err)
		}

		update, ok := <-progressChan
		if !ok {
			outcome := <-done
			return syncCompleteMsg(outcome.result, outcome.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) appendLine(u tasks.ProgressUpdate) {
	m.steps++
	m.lines = append(m.lines, styles.Outcome(u.Outcome).Render(u.Message))
	m.logView.SetContent(strings.Join(m.lines, "\n"))
	m.logView.GotoBottom()
}

// percent estimates completion from the number of log entries seen so far.
func (m *Model) percent() float64 {
	total := len(m.folder.Files) + fixedSteps
	return min(float64(m.steps)/float64(total), 1)
}

func (m *Model) renderFileList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.fileList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderName() string {
	title := styles.title.Render("Create playlist")
	info := fmt.Sprintf("Folder: %s\nTracks: %d\n\n%s", m.folder.Path, len(m.folder.Files), m.nameInput.View())
	if m.notice != "" {
		info += "\n" + styles.warn.Render(m.notice)
	}

	syncKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sync"))
	helpView := m.help.ShortHelpView([]key.Binding{syncKey, m.keys.back})
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

func (m *Model) renderSync() string {
	title := styles.title.Render(fmt.Sprintf("%s Syncing %q", m.spinner.View(), m.collectionName))
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.bar.ViewAs(m.percent()), m.logView.View())
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.quit})

	if m.err != nil {
		body := styles.err.Render(fmt.Sprintf("Sync failed: %v", m.err))
		return fmt.Sprintf("%s\n\n%s\n\n%s", body, m.logView.View(), helpView)
	}
	if m.result == nil {
		return styles.err.Render("No result available") + "\n\n" + helpView
	}

	title := styles.ok.Render("✓ Sync Complete!")
	info := fmt.Sprintf("\nMatched: %d/%d", len(m.result.Matched), m.result.Total())
	if c := m.result.Collection; c != nil {
		info = fmt.Sprintf("\nPlaylist: %s\nURL: %s%s", c.Name, c.URL, info)
	}

	var missing string
	if n := m.result.Missing + m.result.Failed; n > 0 {
		missing = "\n\n" + styles.warn.Render(fmt.Sprintf("Not matched (%d):", n))
		for _, item := range m.result.Items {
			if item.Outcome != tasks.OutcomeFound {
				missing += fmt.Sprintf("\n  • %s", item.Name)
			}
		}
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, missing, helpView)
}
