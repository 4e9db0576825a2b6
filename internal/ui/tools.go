package ui

import (
	"image/color"
	"log"

	"MandalaPad/internal/export"
	"MandalaPad/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Controls holds the widgets whose state follows the session: undo/redo
// buttons and the status bar. It implements state.Notifier and
// state.SaveListener, so callbacks may arrive from the share watcher's
// goroutine; all UI mutation goes through fyne.Do.
type Controls struct {
	UndoButton *widget.Button
	RedoButton *widget.Button
	Status     *widget.Label
}

var _ state.Notifier = (*Controls)(nil)
var _ state.SaveListener = (*Controls)(nil)

func NewControls() *Controls {
	c := &Controls{
		UndoButton: widget.NewButtonWithIcon("", theme.ContentUndoIcon(), nil),
		RedoButton: widget.NewButtonWithIcon("", theme.ContentRedoIcon(), nil),
		Status:     widget.NewLabel("Ready"),
	}
	c.UndoButton.Disable()
	c.RedoButton.Disable()
	return c
}

func (c *Controls) UndoAvailable(ok bool) {
	fyne.Do(func() {
		if ok {
			c.UndoButton.Enable()
		} else {
			c.UndoButton.Disable()
		}
	})
}

func (c *Controls) RedoAvailable(ok bool) {
	fyne.Do(func() {
		if ok {
			c.RedoButton.Enable()
		} else {
			c.RedoButton.Disable()
		}
	})
}

func (c *Controls) DrawingSaved(path string) {
	log.Printf("[UI] Saved drawing to %s", path)
	c.SetStatus("Saved " + path)
}

func (c *Controls) SaveFailed(err error) {
	log.Printf("[UI] Save failed: %v", err)
	c.SetStatus("Save failed: " + err.Error())
}

func (c *Controls) SetStatus(text string) {
	fyne.Do(func() { c.Status.SetText(text) })
}

// colorSwatch is a tappable square of color for the palette.
type colorSwatch struct {
	widget.BaseWidget
	Color    state.Color
	OnTapped func(state.Color)
}

func newColorSwatch(c state.Color, tapped func(state.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color.NRGBA())
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// NewToolbar assembles the editing toolbar: tools, palette, width slider,
// undo/redo, and the two exporters.
func NewToolbar(session *state.Session, board *BoardWidget, c *Controls, exportDir string) fyne.CanvasObject {
	// Remember the palette choice so leaving the eraser restores it.
	lastColor := state.Black

	tools := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() {
			session.SetTool(state.ToolPen)
			session.SetColor(lastColor)
		}), // Pen
		widget.NewToolbarAction(theme.DeleteIcon(), func() {
			session.SetTool(state.ToolEraser)
		}), // Eraser
		widget.NewToolbarAction(theme.ColorPaletteIcon(), func() {
			session.SetTool(state.ToolFill)
			session.SetColor(lastColor)
		}), // Fill bucket
	)

	onColorTapped := func(col state.Color) {
		lastColor = col
		session.SetColor(col)
	}
	colorBox := container.NewHBox(
		newColorSwatch(state.Black, onColorTapped),
		newColorSwatch(state.Red, onColorTapped),
		newColorSwatch(state.Green, onColorTapped),
		newColorSwatch(state.Blue, onColorTapped),
		newColorSwatch(state.Color{R: 255, G: 255, A: 255}, onColorTapped), // Yellow
	)

	strokeSlider := widget.NewSlider(1.0, 50.0)
	strokeSlider.SetValue(3.0)
	strokeSlider.OnChanged = func(val float64) {
		session.SetWidth(float32(val))
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), strokeSlider)

	c.UndoButton.OnTapped = func() {
		session.Undo()
		board.Refresh()
	}
	c.RedoButton.OnTapped = func() {
		session.Redo()
		board.Refresh()
	}

	savePNG := widget.NewButtonWithIcon("PNG", theme.DocumentSaveIcon(), func() {
		size := board.Size()
		session.SaveDrawing(export.PNGExporter{
			Dir:    exportDir,
			Width:  int(size.Width),
			Height: int(size.Height),
		})
	})
	savePDF := widget.NewButtonWithIcon("PDF", theme.DocumentSaveIcon(), func() {
		session.SaveDrawing(export.PDFExporter{Dir: exportDir})
	})

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		tools,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		widget.NewSeparator(),
		c.UndoButton,
		c.RedoButton,
		savePNG,
		savePDF,
		layout.NewSpacer(),
	)
}
