package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
)

// RunApp opens the main window and blocks until it closes. toolbar may be
// nil for the viewer layout.
func RunApp(title string, toolbar fyne.CanvasObject, board *BoardWidget, status fyne.CanvasObject) {
	a := app.New()
	w := a.NewWindow(title)
	w.Resize(fyne.NewSize(1024, 768))

	content := container.NewBorder(toolbar, status, nil, nil, board)
	w.SetContent(content)
	w.ShowAndRun()
}
