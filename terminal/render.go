package terminal

import (
	"blockfall/tetris"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"text/template"
)

const (
	// ASCII colors.
	Cyan    = "36"
	Blue    = "34"
	Orange  = "38;5;214"
	Yellow  = "33"
	Green   = "32"
	Red     = "31"
	Magenta = "35"

	resetPos    = "\033[H"  // Reset cursor position to 0,0
	clearScreen = "\033[2J" // Clear the whole screen
)

var colorMap = map[tetris.Kind]string{
	tetris.I: Cyan,
	tetris.J: Blue,
	tetris.L: Orange,
	tetris.O: Yellow,
	tetris.S: Green,
	tetris.Z: Red,
	tetris.T: Magenta,
}

const layout = `+--------------------+
|      BlockFall     |
+--------------------+
{{- range playfield .}}
|{{.}}|
{{- end}}
+--------------------+
 score {{printf "%6d" .Snap.Score}}
 lines {{.Snap.Lines}}/{{.Snap.Target}}
 {{stateLabel .Snap.State}}
`

type frame struct {
	Snap    tetris.Snapshot
	NoGhost bool
}

type render struct {
	writer  io.Writer
	logger  *slog.Logger
	noGhost bool
}

func newRender(w io.Writer, l *slog.Logger, noGhost bool) (*render, error) {
	if _, err := loadTemplate(); err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &render{writer: w, logger: l, noGhost: noGhost}, nil
}

// loadTemplate parses the layout once for every renderer.
var loadTemplate = sync.OnceValues(func() (*template.Template, error) {
	funcMap := template.FuncMap{
		"playfield":  playfield,
		"stateLabel": stateLabel,
	}
	// the console runs raw so new lines need an explicit carriage return.
	return template.New("layout").Funcs(funcMap).Parse(strings.ReplaceAll(layout, "\n", "\r\n"))
})

// Render writes one full frame of s to w.
func Render(w io.Writer, s tetris.Snapshot, ghost bool) error {
	tmp, err := loadTemplate()
	if err != nil {
		return err
	}
	return tmp.Execute(w, frame{Snap: s, NoGhost: !ghost})
}

func (r *render) game(s tetris.Snapshot) {
	fmt.Fprint(r.writer, resetPos)
	if err := Render(r.writer, s, !r.noGhost); err != nil {
		r.logger.Error("unable to execute template in game()", slog.String("error", err.Error()))
	}
}

func (r *render) lobby(message string) {
	fmt.Fprint(r.writer, "\033[9;1H+--------------------+")
	fmt.Fprintf(r.writer, "\033[10;1H|%s|", center(message, 20))
	fmt.Fprint(r.writer, "\033[11;1H|  (p)lay   (q)uit   |")
	fmt.Fprint(r.writer, "\033[12;1H+--------------------+")
}

func (r *render) clear() {
	fmt.Fprint(r.writer, clearScreen+resetPos)
}

func block(k tetris.Kind) string {
	return fmt.Sprintf("\x1b[7m\x1b[%sm[]\x1b[0m", colorMap[k])
}

// playfield returns one rendered line per board row with the settled cells,
// the ghost and the falling piece drawn in that order.
func playfield(f frame) []string {
	cells := make([][]string, len(f.Snap.Board))
	for row, line := range f.Snap.Board {
		cells[row] = make([]string, len(line))
		for col, k := range line {
			cells[row][col] = "  "
			if k != tetris.Empty {
				cells[row][col] = block(k)
			}
		}
	}

	put := func(p tetris.Piece, s string) {
		for _, c := range p.Cells() {
			if c.Row >= 0 && c.Row < len(cells) && c.Col >= 0 && c.Col < len(cells[c.Row]) {
				cells[c.Row][c.Col] = s
			}
		}
	}
	if p := f.Snap.Piece; p != nil {
		if !f.NoGhost {
			ghost := *p
			ghost.Row = f.Snap.GhostRow
			put(ghost, "[]")
		}
		put(*p, block(p.Kind))
	}

	lines := make([]string, len(cells))
	for i, row := range cells {
		lines[i] = strings.Join(row, "")
	}
	return lines
}

func stateLabel(s tetris.State) string {
	switch s {
	case tetris.Won:
		return "cleared!"
	case tetris.Lost:
		return "game over"
	}
	return ""
}

func center(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}
