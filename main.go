package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"MandalaPad/internal/export"
	"MandalaPad/internal/share"
	"MandalaPad/internal/state"
	"MandalaPad/internal/ui"

	"fyne.io/fyne/v2"
)

const port = 8877

func main() {
	// A share link as the first argument launches the read-only viewer,
	// like opening a board someone else is hosting.
	if len(os.Args) > 1 && strings.HasPrefix(os.Args[1], share.URLScheme) {
		runViewer(os.Args[1])
		return
	}

	shareBoard := flag.Bool("share", false, "mirror the board to LAN viewers")
	watchLAN := flag.Bool("watch", false, "find a shared board on the LAN and watch it")
	flag.Parse()

	if *watchLAN {
		addr, err := findBoard()
		if err != nil {
			log.Fatalf("LAN lookup failed: %v", err)
		}
		runViewer(share.URLScheme + addr)
		return
	}
	runHost(*shareBoard)
}

// findBoard browses mDNS for an advertised board and returns the first hit.
func findBoard() (string, error) {
	found := make(chan string, 1)
	if err := share.Browse(func(addr string) {
		select {
		case found <- addr:
		default:
		}
	}); err != nil {
		return "", err
	}
	select {
	case addr := <-found:
		return addr, nil
	case <-time.After(2 * time.Second):
		return "", fmt.Errorf("no shared board found on the LAN")
	}
}

func runHost(shareBoard bool) {
	log.Println("Starting as HOST")
	controls := ui.NewControls()
	session := state.NewSession(controls)
	session.SetSaveListener(controls)
	board := ui.NewBoardWidget(session)

	if shareBoard {
		hub := share.NewHub(session.History())
		session.SetRecorder(hub)
		defer hub.Close()
		go func() {
			if err := hub.ListenAndServe(port); err != nil {
				log.Printf("[SHARE] Hub stopped: %v", err)
			}
		}()

		if server, err := share.Advertise(port); err != nil {
			log.Printf("[SHARE] mDNS advertise failed: %v", err)
		} else {
			defer server.Shutdown()
		}

		link := fmt.Sprintf("%s%s:%d", share.URLScheme, share.OutgoingIP(), port)
		log.Printf("[SHARE] Share link: %s", link)
		controls.Status.SetText("Sharing at " + link)
	}

	toolbar := ui.NewToolbar(session, board, controls, export.DefaultDir())
	ui.RunApp("MandalaPad", toolbar, board, controls.Status)
}

func runViewer(link string) {
	log.Println("Starting as VIEWER")
	controls := ui.NewControls()
	session := state.NewSession(controls)
	board := ui.NewBoardWidget(session)
	board.SetReadOnly(true)

	go func() {
		err := share.Watch(link, session,
			func() { fyne.Do(board.Refresh) },
			controls.SetStatus)
		if err != nil {
			log.Printf("[SHARE] Watch ended: %v", err)
		}
	}()

	ui.RunApp("MandalaPad (viewing)", nil, board, controls.Status)
}
