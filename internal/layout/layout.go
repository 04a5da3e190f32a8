package layout

// Layout constants
const (
	HeaderHeight      = 1
	StatusBarHeight   = 1
	PromptHeight      = 1
	BorderSize        = 1
	TreePercent       = 55 // share of the main area the tree keeps while a preview is split below it
	MinPanelHeight    = 4
	MinTerminalWidth  = 20
	MinTerminalHeight = 8
)

// Layout holds calculated rows for every region. Regions are stacked
// vertically and span the full width.
type Layout struct {
	Width  int
	Height int

	HeaderY int

	TreeY      int
	TreeHeight int

	PreviewY      int
	PreviewHeight int

	PromptY      int
	PromptHeight int

	StatusY int

	PreviewVisible bool
	Fullscreen     bool
}

// Calculate computes the layout for a terminal of width x height.
// previewVisible splits the main area between tree and preview; fullscreen
// gives the whole main area to the preview.
func Calculate(width, height int, previewVisible, fullscreen, promptVisible bool) Layout {
	l := Layout{
		Width:          width,
		Height:         height,
		PreviewVisible: previewVisible || fullscreen,
		Fullscreen:     fullscreen,
	}
	if promptVisible {
		l.PromptHeight = PromptHeight
	}

	main := max(height-HeaderHeight-StatusBarHeight-l.PromptHeight, 0)

	l.TreeY = HeaderHeight
	switch {
	case fullscreen:
		l.TreeHeight = 0
		l.PreviewHeight = main
	case previewVisible:
		l.TreeHeight = max(main*TreePercent/100, min(MinPanelHeight, main))
		l.PreviewHeight = main - l.TreeHeight
	default:
		l.TreeHeight = main
	}
	l.PreviewY = l.TreeY + l.TreeHeight
	l.PromptY = l.PreviewY + l.PreviewHeight
	l.StatusY = l.PromptY + l.PromptHeight
	return l
}

// TooSmall reports whether the terminal cannot hold a usable layout.
func (l Layout) TooSmall() bool {
	return l.Width < MinTerminalWidth || l.Height < MinTerminalHeight
}

// Inner returns the content size of a bordered panel.
func Inner(width, height int) (int, int) {
	return max(width-BorderSize*2, 0), max(height-BorderSize*2, 0)
}

// TreeInner returns the content size of the tree panel.
func (l Layout) TreeInner() (width, height int) {
	return Inner(l.Width, l.TreeHeight)
}

// PreviewInner returns the content size of the preview panel.
func (l Layout) PreviewInner() (width, height int) {
	return Inner(l.Width, l.PreviewHeight)
}

// TreeRow maps a terminal row to a row inside the tree panel's content.
// ok is false outside the content area.
func (l Layout) TreeRow(y int) (row int, ok bool) {
	_, h := l.TreeInner()
	row = y - l.TreeY - BorderSize
	if h == 0 || row < 0 || row >= h {
		return 0, false
	}
	return row, true
}

// InPreview reports whether terminal row y falls inside the preview panel.
func (l Layout) InPreview(y int) bool {
	return l.PreviewHeight > 0 && y >= l.PreviewY && y < l.PreviewY+l.PreviewHeight
}
