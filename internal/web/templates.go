package web

import (
	"bytes"
	"html/template"

	"github.com/jaminalder/tic-tac-toe-history/internal/app"
)

type templates struct {
	base  *template.Template
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"cellClass": func(c app.CellView) string {
			if c.Highlight {
				return "square highlight"
			}
			return "square"
		},
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.board-row{display:flex}
.square{width:3em;height:3em;font-size:1.5em;font-weight:bold}
.highlight{background:#ffe066}
.game{display:flex;gap:2em}
</style>
</head><body>{{template "content" .}}</body></html>`))
	// Define the board template within the same set so game can include it
	template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tic-Tac-Toe</h1><form action="/game" method="post"><button>New game</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" sse-connect="/game/{{.View.ID}}/events">
  <div sse-swap="board" hx-target="#board" hx-swap="outerHTML">{{template "board" .}}</div>
</div>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if name == "" {
		err = t.Execute(&buf, data)
	} else {
		err = t.ExecuteTemplate(&buf, name, data)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const boardTemplate = `
<div id="board" class="game">
  <div class="game-board">
    <div class="status">{{.View.Status}}</div>
    {{if .Error}}
    <div class="alert">{{.Error}}</div>
    {{end}}
    {{range .View.Rows}}
    <div class="board-row">
      {{range .}}
      <button class="{{cellClass .}}" name="cell" value="{{.Index}}"
        hx-post="/game/{{$.View.ID}}/play" hx-target="#board" hx-swap="outerHTML">{{.Mark}}</button>
      {{end}}
    </div>
    {{end}}
  </div>
  <div class="game-info">
    <button hx-post="/game/{{.View.ID}}/order" hx-target="#board" hx-swap="outerHTML">{{.View.OrderToggle}}</button>
    <button hx-post="/game/{{.View.ID}}/reset" hx-target="#board" hx-swap="outerHTML">Restart</button>
    <ol>
      {{range .View.Moves}}
      <li>{{if .Current}}<span class="current">{{.Text}}</span>{{else}}<button name="move" value="{{.Move}}"
        hx-post="/game/{{$.View.ID}}/jump" hx-target="#board" hx-swap="outerHTML">{{.Text}}</button>{{end}}</li>
      {{end}}
    </ol>
  </div>
</div>
`

// boardData feeds the board template.
type boardData struct {
	View  app.View
	Error string
}
