package app

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/avitaltamir/vibetree/internal/components/filetree"
	"github.com/avitaltamir/vibetree/internal/fileops"
	"github.com/avitaltamir/vibetree/internal/logging"
	content "github.com/avitaltamir/vibetree/internal/preview"
	"github.com/avitaltamir/vibetree/internal/runner"
	"github.com/avitaltamir/vibetree/internal/search"
)

var errNoEditorTarget = errors.New("select a file to edit")

// open expands a collapsed directory, steps into an expanded one, and
// previews anything else.
func (m *Model) open() tea.Cmd {
	sel := m.tree.Selected()
	if sel == nil {
		return nil
	}
	if !sel.IsDir() {
		return m.openPreview()
	}
	if !sel.Expanded {
		return m.toggleDir(sel.Path)
	}
	rows := m.tree.Visible()
	if i := m.tree.Cursor(); i+1 < len(rows) && rows[i+1].Parent == sel {
		m.moveCursor(1)
	}
	return nil
}

// closeOrParent collapses an expanded directory, otherwise moves to the parent row.
func (m *Model) closeOrParent() {
	sel := m.tree.Selected()
	if sel == nil {
		return
	}
	if sel.IsDir() && sel.Expanded {
		m.tree.Collapse(sel)
		m.syncWatch()
	} else if p := sel.Parent; p != nil && !p.IsRoot() {
		m.tree.SelectPath(p.Path)
	}
	m.treeView.EnsureVisible()
}

func (m *Model) toggleDir(path string) tea.Cmd {
	n := m.tree.FindByPath(path)
	if n == nil {
		return nil
	}
	err := m.tree.Toggle(n)
	m.syncWatch()
	m.treeView.EnsureVisible()
	if err != nil {
		return m.setError(err)
	}
	return nil
}

// cancel clears, in order: search highlights and marks, or the clipboard.
func (m *Model) cancel() tea.Cmd {
	m.treeView.SetMatches(nil)
	if n := m.tree.MarkCount(); n > 0 {
		m.tree.ClearMarks()
		return m.setStatus(fmt.Sprintf("Cleared %d mark(s)", n))
	}
	if !m.ops.Clipboard().Empty() {
		m.ops.ClearClipboard()
		m.syncClipboard()
		return m.setStatus("Clipboard cleared")
	}
	return nil
}

func (m *Model) yank() tea.Cmd {
	targets := m.tree.Targets()
	if len(targets) == 0 {
		return nil
	}
	m.ops.Yank(targets)
	m.tree.ClearMarks()
	m.syncClipboard()
	return m.setStatus(fmt.Sprintf("Yanked %d item(s)", len(targets)))
}

func (m *Model) cut() tea.Cmd {
	targets := m.tree.Targets()
	if len(targets) == 0 {
		return nil
	}
	m.ops.Cut(targets)
	m.syncClipboard()
	return m.setStatus(fmt.Sprintf("Cut %d item(s)", len(targets)))
}

func (m *Model) paste() tea.Cmd {
	clip := m.ops.Clipboard()
	if clip.Empty() {
		return m.setStatus("Clipboard is empty")
	}
	dest := m.openDest()
	res := m.ops.Paste(dest)
	if clip.Op == fileops.OpMove {
		m.tree.ClearMarks()
		return m.applyResult("Moved", res)
	}
	return m.applyResult("Copied", res)
}

func (m *Model) drop(paths []string) tea.Cmd {
	if len(paths) == 0 {
		return nil
	}
	res := m.ops.Drop(paths, m.openDest())
	return m.applyResult("Dropped", res)
}

// openDest returns the paste destination, expanding it so the results show.
func (m *Model) openDest() string {
	dest := m.tree.DestDir()
	if n := m.tree.FindByPath(dest); n != nil && n.IsDir() && !n.Expanded {
		if err := m.tree.Expand(n); err != nil {
			logging.L().WithError(err).WithField("dir", dest).Debug("expand paste destination")
		}
	}
	return dest
}

// applyResult reloads the directories a batch touched and reports it.
func (m *Model) applyResult(verb string, res fileops.Result) tea.Cmd {
	log := logging.L().WithField("op", strings.ToLower(verb))
	for _, f := range res.Failures {
		log.WithError(f).Warn("file operation failed")
	}
	for _, dir := range res.Touched {
		if err := m.tree.Reload(dir); err != nil {
			log.WithError(err).WithField("dir", dir).Debug("reload")
		}
	}
	if len(res.Done) > 0 {
		m.tree.SelectPath(res.Done[0])
	}
	m.syncClipboard()
	m.syncWatch()
	m.treeView.EnsureVisible()

	status := m.setStatus(summarize(verb, res))
	if len(res.Failures) > 0 {
		m.statusErr = true
	}
	return tea.Batch(status, m.refreshGit())
}

func (m *Model) confirmDelete() {
	targets := m.tree.Targets()
	if len(targets) == 0 {
		return
	}
	hasDirs := false
	for _, p := range targets {
		if n := m.tree.FindByPath(p); n != nil && n.IsDir() {
			hasDirs = true
			break
		}
	}
	m.mode = ConfirmDeleteMode{Targets: targets, HasDirs: hasDirs}
}

func (m *Model) delete(targets []string) tea.Cmd {
	res := m.ops.Delete(targets)
	return m.applyResult("Deleted", res)
}

func (m *Model) startRename() tea.Cmd {
	sel := m.tree.Selected()
	if sel == nil {
		return nil
	}
	m.mode = RenamePromptMode{Target: sel.Path}
	return m.prompt.Open("Rename", sel.Name, "new name")
}

// commitRename keeps the prompt open with the error when the rename fails.
func (m *Model) commitRename(target string) tea.Cmd {
	newPath, err := m.ops.Rename(target, strings.TrimSpace(m.prompt.Value()))
	if err != nil {
		m.prompt.SetError(err)
		return nil
	}
	m.closePrompt()
	if newPath == target {
		return nil
	}

	if err := m.tree.Reload(newPath); err != nil {
		logging.L().WithError(err).WithField("path", newPath).Debug("reload after rename")
	}
	m.tree.SelectPath(newPath)
	m.syncWatch()
	m.treeView.EnsureVisible()
	return tea.Batch(m.setStatus("Renamed to "+filepath.Base(newPath)), m.refreshGit())
}

func (m *Model) startCreate(isDir bool) tea.Cmd {
	m.mode = CreatePromptMode{Dir: m.tree.DestDir(), IsDir: isDir}
	label := "New file"
	if isDir {
		label = "New directory"
	}
	return m.prompt.Open(label, "", "name")
}

func (m *Model) commitCreate(mode CreatePromptMode) tea.Cmd {
	name := strings.TrimSpace(m.prompt.Value())
	create := m.ops.CreateFile
	if mode.IsDir {
		create = m.ops.CreateDir
	}
	path, err := create(mode.Dir, name)
	if err != nil {
		m.prompt.SetError(err)
		return nil
	}
	m.closePrompt()

	if n := m.tree.FindByPath(mode.Dir); n != nil && !n.Expanded {
		err = m.tree.Expand(n)
	} else {
		err = m.tree.Reload(path)
	}
	if err != nil {
		logging.L().WithError(err).WithField("path", path).Debug("reload after create")
	}
	m.tree.SelectPath(path)
	m.syncWatch()
	m.treeView.EnsureVisible()
	return tea.Batch(m.setStatus("Created "+name), m.refreshGit())
}

func (m *Model) startSearch() tea.Cmd {
	mode := SearchMode{MatchCursor: -1}
	if sel := m.tree.Selected(); sel != nil {
		mode.Origin = sel.Path
	}
	m.mode = mode
	m.treeView.SetMatches(nil)
	return m.prompt.Open("/", "", "name or glob")
}

// runSearch recomputes matches for mode.Query and puts the cursor on the
// first match at or after the origin row.
func (m *Model) runSearch(mode *SearchMode) {
	rows := m.tree.Visible()
	mode.Matches = search.Search(mode.Query, rowNames(rows))
	m.treeView.SetMatches(matchPaths(rows, mode.Matches))

	from := max(m.tree.IndexOf(mode.Origin), 0)
	if i, ok := mode.Matches.First(from); ok {
		m.tree.SetCursor(i)
		mode.MatchCursor = i
	} else {
		mode.MatchCursor = -1
		if mode.Origin != "" {
			m.tree.SelectPath(mode.Origin)
		}
	}
	m.treeView.EnsureVisible()
}

// nextMatch repeats the last committed search from the cursor.
func (m *Model) nextMatch() tea.Cmd {
	if m.lastQuery == "" {
		return m.setStatus("No previous search")
	}
	rows := m.tree.Visible()
	matches := search.Search(m.lastQuery, rowNames(rows))
	i, ok := matches.Next(m.tree.Cursor())
	if !ok {
		m.treeView.SetMatches(nil)
		return m.setStatus("No matches for " + m.lastQuery)
	}
	m.treeView.SetMatches(matchPaths(rows, matches))
	m.tree.SetCursor(i)
	m.treeView.EnsureVisible()
	return nil
}

func rowNames(rows []*filetree.Node) []string {
	names := make([]string, len(rows))
	for i, n := range rows {
		names[i] = n.Name
	}
	return names
}

func matchPaths(rows []*filetree.Node, matches search.Matches) []string {
	var paths []string
	for _, i := range matches.All() {
		paths = append(paths, rows[i].Path)
	}
	return paths
}

// commandTarget is the path substituted into a command: the first marked
// path, else the cursor path, else the root.
func (m *Model) commandTarget() string {
	if marked := m.tree.Marked(); len(marked) > 0 {
		return marked[0]
	}
	if sel := m.tree.Selected(); sel != nil {
		return sel.Path
	}
	return m.tree.Root().Path
}

func (m *Model) startCommand() tea.Cmd {
	mode := CommandInputMode{Target: m.commandTarget(), History: m.history.NewCursor()}
	m.mode = mode
	return m.prompt.OpenWithHistory(":", "command, "+runner.Placeholder+" is the selection", mode.History)
}

func (m *Model) run(template, target string) tea.Cmd {
	if strings.TrimSpace(template) == "" {
		return nil
	}
	job, cmd := m.runner.Run(template, target)
	return tea.Batch(cmd, m.setStatus("Running: "+trimCommand(job.Command)))
}

// repeat re-runs the last command, or opens the command prompt when there
// is none.
func (m *Model) repeat() tea.Cmd {
	template := m.runner.Repeat()
	if template == "" {
		return m.startCommand()
	}
	return m.run(template, m.commandTarget())
}

// commandDone records the output and reloads the tree, since a command may
// have changed anything under the root.
func (m *Model) commandDone(msg runner.DoneMsg) tea.Cmd {
	m.lastOutput = &msg
	if err := m.tree.ReloadAll(); err != nil {
		logging.L().WithError(err).Debug("reload after command")
	}
	m.syncWatch()
	m.treeView.EnsureVisible()

	var status tea.Cmd
	if msg.Err != nil {
		status = m.setError(fmt.Errorf("%s: exit %d (O shows output)", trimCommand(msg.Command), msg.ExitCode))
	} else {
		status = m.setStatus(fmt.Sprintf("Done: %s (%s output)", trimCommand(msg.Command), humanize.IBytes(uint64(len(msg.Output)))))
	}
	return tea.Batch(status, m.refreshGit())
}

// showOutput opens the output of the last finished command in the preview.
func (m *Model) showOutput() tea.Cmd {
	out := m.lastOutput
	if out == nil {
		return m.setStatus("No command output yet")
	}
	lines := strings.Split(strings.TrimRight(out.Output, "\n"), "\n")
	if out.Output == "" {
		lines = []string{"(no output)"}
	}
	if out.Truncated {
		lines = append(lines, "", "[output truncated]")
	}
	if out.Err != nil {
		lines = append(lines, "", out.Err.Error())
	}
	m.preview.SetText("$ "+trimCommand(out.Command), lines)
	m.preview.SetFullscreen(false)
	m.mode = PreviewMode{}
	return nil
}

func (m *Model) openPreview() tea.Cmd {
	sel := m.tree.Selected()
	if sel == nil {
		return nil
	}
	err := m.loadPreview(sel.Path)
	m.preview.SetFullscreen(false)
	m.mode = PreviewMode{Path: sel.Path}
	if err != nil {
		return m.setError(err)
	}
	return nil
}

// loadContent always returns content; on error it carries the message.
func loadContent(path string, maxBytes int64) (*content.Content, error) {
	c, err := content.Load(path, maxBytes)
	if err != nil {
		return &content.Content{Path: path, Kind: content.KindOutput, Lines: []string{err.Error()}}, err
	}
	return c, nil
}

// editorCommand builds the command for $VISUAL, then $EDITOR, then vi.
func editorCommand(path string) *exec.Cmd {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	args := strings.Fields(editor)
	if len(args) == 0 {
		args = []string{"vi"}
	}
	return exec.Command(args[0], append(args[1:], path)...)
}

func (m *Model) edit() tea.Cmd {
	sel := m.tree.Selected()
	if sel == nil || sel.IsDir() {
		return m.setError(errNoEditorTarget)
	}
	path := sel.Path
	c := editorCommand(path)
	logging.L().WithFields(logrus.Fields{"editor": c.Path, "path": path}).Debug("edit")
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorFinishedMsg{path: path, err: err}
	})
}

func (m *Model) editorFinished(msg editorFinishedMsg) tea.Cmd {
	if err := m.tree.Reload(msg.path); err != nil {
		logging.L().WithError(err).Debug("reload after edit")
	}
	m.treeView.EnsureVisible()
	if m.preview.Path() == msg.path {
		m.reloadPreview()
	}
	if msg.err != nil {
		return tea.Batch(m.setError(fmt.Errorf("editor: %w", msg.err)), m.refreshGit())
	}
	return m.refreshGit()
}

func (m *Model) refresh() tea.Cmd {
	err := m.tree.ReloadAll()
	m.syncWatch()
	m.treeView.EnsureVisible()
	m.reloadPreview()
	if err != nil {
		return tea.Batch(m.setError(err), m.refreshGit())
	}
	return tea.Batch(m.setStatus("Refreshed"), m.refreshGit())
}
