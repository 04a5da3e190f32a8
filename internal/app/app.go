package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/sirupsen/logrus"

	"github.com/avitaltamir/vibetree/internal/apperr"
	"github.com/avitaltamir/vibetree/internal/components/filetree"
	"github.com/avitaltamir/vibetree/internal/components/preview"
	"github.com/avitaltamir/vibetree/internal/components/prompt"
	"github.com/avitaltamir/vibetree/internal/config"
	"github.com/avitaltamir/vibetree/internal/fileops"
	"github.com/avitaltamir/vibetree/internal/git"
	"github.com/avitaltamir/vibetree/internal/history"
	"github.com/avitaltamir/vibetree/internal/layout"
	"github.com/avitaltamir/vibetree/internal/logging"
	"github.com/avitaltamir/vibetree/internal/runner"
	"github.com/avitaltamir/vibetree/internal/state"
	"github.com/avitaltamir/vibetree/internal/sysclip"
	"github.com/avitaltamir/vibetree/internal/theme"
	"github.com/avitaltamir/vibetree/internal/watch"
)

// Version is the application version, set at build time via ldflags
var Version = "dev"

// wheelStep is how many rows one wheel notch scrolls.
const wheelStep = 3

// Options wires the model to its collaborators.
type Options struct {
	Config config.Config
	State  state.State

	// StatePath overrides where UI state is saved. Empty uses the config dir.
	StatePath string
	// Source overrides the git backend chosen by Config.Git.Backend.
	Source git.Source
	// NoWatch disables the filesystem watcher.
	NoWatch bool
}

// Model is the root application model. Update is the only writer of the
// tree, the clipboard, the mode and every cache below; commands started
// from it report back through messages.
type Model struct {
	cfg         config.Config
	keys        KeyMap
	previewKeys PreviewKeyMap
	searchKeys  SearchKeyMap
	help        help.Model

	// Child components
	tree     *filetree.Tree
	treeView filetree.Model
	preview  preview.Model
	prompt   prompt.Model

	mode         Mode
	quickPreview bool
	showHelp     bool
	lastQuery    string

	ops        *fileops.Engine
	runner     *runner.Runner
	history    *history.Store
	lastOutput *runner.DoneMsg

	// Git
	refresher *git.Refresher
	gitCache  *git.Cache

	// File watcher
	watcher  *watch.Watcher
	debounce *watch.Debouncer

	// Mouse
	now          func() time.Time
	lastClick    time.Time
	lastClickRow int

	// Status line
	status    string
	statusErr bool
	statusSeq int

	statePath string

	// Window dimensions
	width  int
	height int
	layout layout.Layout
}

// New creates the application model rooted at root. Failing to read root is
// the only fatal error.
func New(root string, opts Options) (Model, error) {
	cfg := opts.Config
	if cfg.Mouse.DoubleClick <= 0 {
		cfg.Mouse.DoubleClick = 400 * time.Millisecond
	}
	if cfg.Tree.ExpandAllDepth < 1 {
		cfg.Tree.ExpandAllDepth = 8
	}

	tree, err := filetree.NewTree(root, cfg.ShowHidden || opts.State.ShowHidden)
	if err != nil {
		return Model{}, err
	}
	rootPath := tree.Root().Path
	log := logging.L().WithField("root", rootPath)

	store, err := history.Open(cfg.HistoryFile)
	if err != nil {
		log.WithError(err).Warn("history unavailable")
	}

	source := opts.Source
	if source == nil {
		source = git.NewSource(cfg.Git.Backend)
	}

	var watcher *watch.Watcher
	if !opts.NoWatch {
		if watcher, err = watch.New(); err != nil {
			log.WithError(err).Warn("file watching disabled")
			watcher = nil
		}
	}

	// Apply saved theme
	theme.SetThemeIndex(opts.State.ThemeIndex)

	treeView := filetree.New(tree)
	treeView.SetCompact(opts.State.CompactIndent)

	m := Model{
		cfg:         cfg,
		keys:        DefaultKeyMap(),
		previewKeys: DefaultPreviewKeyMap(),
		searchKeys:  DefaultSearchKeyMap(),
		help:        help.New(),

		tree:     tree,
		treeView: treeView,
		preview:  preview.New(),
		prompt:   prompt.New(),

		mode:         NormalMode{},
		quickPreview: opts.State.QuickPreview,

		ops:     fileops.NewEngine(rootPath),
		history: store,
		runner: runner.New(store, runner.Options{
			Shell:       cfg.Command.Shell,
			Dir:         rootPath,
			OutputLimit: cfg.Command.OutputLimit,
			PTY:         cfg.Command.PTY,
			DefaultCmd:  cfg.DefaultCmd,
		}),

		refresher: git.NewRefresher(source, 0),
		watcher:   watcher,
		debounce:  watch.NewDebouncer(watch.DefaultDebounce),

		now:          time.Now,
		lastClickRow: -1,
		statePath:    opts.StatePath,
	}
	m.syncWatch()

	log.WithFields(logrus.Fields{
		"backend": cfg.Git.Backend,
		"history": store.Len(),
	}).Info("started")
	return m, nil
}

// Init starts the git status loop and the watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.refreshGit(),
		gitTick(m.cfg.Git.RefreshInterval),
		m.watcher.Next(),
	)
}

// Mode returns the active input mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Tree returns the tree model.
func (m Model) Tree() *filetree.Tree {
	return m.tree
}

// Status returns the status line message.
func (m Model) Status() string {
	return m.status
}

// Close releases the watcher and cancels running commands.
func (m Model) Close() {
	m.runner.CancelAll()
	if err := m.watcher.Close(); err != nil {
		logging.L().WithError(err).Debug("watcher close")
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.relayout()
	m.syncQuickPreview()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case DropMsg:
		return m.drop(msg.Paths)

	case runner.DoneMsg:
		return m.commandDone(msg)

	case git.RefreshedMsg:
		m.applyGit(msg)
		return nil

	case gitTickMsg:
		return tea.Batch(m.refreshGit(), gitTick(m.cfg.Git.RefreshInterval))

	case watch.EventMsg:
		next := m.watcher.Next()
		if msg.Err != nil {
			logging.L().WithError(msg.Err).Warn("watch error")
			return next
		}
		return tea.Batch(next, m.debounce.Add(msg.Path))

	case watch.FlushMsg:
		return m.flushChanges()

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return nil

	case editorFinishedMsg:
		return m.editorFinished(msg)

	case sysclip.CopiedMsg:
		if msg.Err != nil {
			return m.setError(fmt.Errorf("copy %s: %w", msg.Label, msg.Err))
		}
		return m.setStatus(fmt.Sprintf("Copied %s: %s", msg.Label, msg.Text))
	}

	// Cursor blink and other textinput messages.
	if promptMode(m.mode) {
		return m.updatePrompt(msg)
	}
	return nil
}

// relayout recomputes the regions and resizes components whose region
// changed. Resizing the tree re-centers the cursor, so unchanged sizes are
// left alone to keep wheel scrolling intact.
func (m *Model) relayout() {
	_, inPreview := m.mode.(PreviewMode)
	_, confirming := m.mode.(ConfirmDeleteMode)

	m.layout = layout.Calculate(
		m.width, m.height,
		inPreview || m.quickPreview,
		inPreview && m.preview.Fullscreen(),
		promptMode(m.mode) || confirming,
	)

	if w, h := m.treeView.Size(); w != m.width || h != m.layout.TreeHeight {
		m.treeView.SetSize(m.width, m.layout.TreeHeight)
	}
	if w, h := m.preview.Size(); w != m.width || h != m.layout.PreviewHeight {
		m.preview.SetSize(m.width, m.layout.PreviewHeight)
	}
	m.prompt.SetSize(m.width, m.layout.PromptHeight)
}

func (m *Model) setStatus(text string) tea.Cmd {
	m.status = text
	m.statusErr = false
	m.statusSeq++
	return clearStatusAfter(m.statusSeq)
}

func (m *Model) setError(err error) tea.Cmd {
	cmd := m.setStatus(err.Error())
	m.statusErr = true
	return cmd
}

func (m *Model) refreshGit() tea.Cmd {
	return m.refresher.Refresh(m.tree.Root().Path)
}

func (m *Model) applyGit(msg git.RefreshedMsg) {
	if !m.refresher.Accept(msg) {
		return
	}
	if msg.Err != nil {
		logging.L().WithError(msg.Err).Warn("git status refresh failed")
		return
	}
	m.gitCache = msg.Cache
	m.treeView.SetGit(msg.Cache)
}

// syncWatch watches the root and every expanded directory on screen.
func (m *Model) syncWatch() {
	if m.watcher == nil {
		return
	}
	dirs := []string{m.tree.Root().Path}
	for _, n := range m.tree.Visible() {
		if n.IsDir() && n.Expanded {
			dirs = append(dirs, n.Path)
		}
	}
	m.watcher.Sync(dirs)
}

func (m *Model) syncClipboard() {
	clip := m.ops.Clipboard()
	m.treeView.SetClipboard(clip.Paths, clip.Op == fileops.OpMove)
}

// flushChanges reloads the directories that changed on disk during the
// debounce window.
func (m *Model) flushChanges() tea.Cmd {
	dirs := m.debounce.Flush()
	if len(dirs) == 0 {
		return nil
	}
	for _, d := range dirs {
		if err := m.tree.Reload(d); err != nil {
			logging.L().WithError(err).WithField("dir", d).Debug("reload after change")
		}
	}
	m.syncWatch()
	m.treeView.EnsureVisible()

	if p := m.preview.Path(); p != "" {
		for _, d := range dirs {
			if p == d || filepath.Dir(p) == d {
				m.reloadPreview()
				break
			}
		}
	}
	return m.refreshGit()
}

// syncQuickPreview keeps the split preview on the cursor entry.
func (m *Model) syncQuickPreview() {
	if !m.quickPreview {
		return
	}
	switch m.mode.(type) {
	case NormalMode, SearchMode:
	default:
		return
	}
	sel := m.tree.Selected()
	if sel == nil {
		if m.preview.Content() != nil {
			m.preview.Clear()
		}
		return
	}
	if sel.Path != m.preview.Path() {
		m.loadPreview(sel.Path)
	}
}

// loadPreview captures path into the preview. A read error is shown as the
// content so the pane still tracks the path.
func (m *Model) loadPreview(path string) error {
	c, err := loadContent(path, m.cfg.Preview.MaxBytes)
	m.preview.SetContent(c)
	return err
}

// reloadPreview re-reads the previewed path, keeping the scroll offset.
func (m *Model) reloadPreview() {
	p := m.preview.Path()
	if p == "" {
		return
	}
	offset := m.preview.Offset()
	_ = m.loadPreview(p)
	m.preview.SetOffset(offset)
}

func (m *Model) saveState() {
	s := state.State{
		ShowHidden:    m.tree.ShowHidden(),
		ThemeIndex:    theme.CurrentThemeIndex(),
		CompactIndent: m.treeView.Compact(),
		QuickPreview:  m.quickPreview,
	}
	var err error
	if m.statePath != "" {
		err = state.SaveTo(m.statePath, s)
	} else {
		err = state.Save(s)
	}
	// State persistence is best-effort
	if err != nil {
		logging.L().WithError(err).Debug("save state")
	}
}

func (m *Model) quit() tea.Cmd {
	m.saveState()
	m.Close()
	return tea.Quit
}

func (m *Model) updatePrompt(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return cmd
}

func (m *Model) closePrompt() {
	m.prompt.Close()
	m.mode = NormalMode{}
}

// summarize reports a batch result on one line, e.g.
// "Deleted 2 item(s), 1 failed (io): remove /x: permission denied".
// The kind shown is that of the first failure.
func summarize(verb string, res fileops.Result) string {
	msg := fmt.Sprintf("%s %d item(s)", verb, len(res.Done))
	if n := len(res.Failures); n > 0 {
		first := res.Failures[0]
		msg += fmt.Sprintf(", %d failed (%s): %v", n, apperr.KindOf(first), first)
	}
	return msg
}

func trimCommand(s string) string {
	return ansi.Truncate(strings.Join(strings.Fields(s), " "), 60, "…")
}
