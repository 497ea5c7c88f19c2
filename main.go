package main

import (
	"fmt"
	"runtime"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"

	"deckstudio/deck"
	"deckstudio/i18n"
)

func main() {
	// Create an instance of the app structure
	app := NewApp()

	err := wails.Run(&options.App{
		Title:  "Deck Studio",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Handler: app.assetHandler(),
		},
		BackgroundColour: &options.RGBA{R: 0, G: 0, B: 0, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Menu:             buildMenu(app),
		Bind: []interface{}{
			app,
		},
		Mac: &mac.Options{
			TitleBar: &mac.TitleBar{
				TitlebarAppearsTransparent: true,
			},
			About: &mac.AboutInfo{
				Title:   "Deck Studio",
				Message: "AI-assisted presentations",
			},
		},
	})

	if err != nil {
		fmt.Println("Error:", err.Error())
	}
}

// buildMenu creates the application menu. Callbacks that open dialogs run
// off the menu thread.
func buildMenu(app *App) *menu.Menu {
	appMenu := menu.NewMenu()
	if runtime.GOOS == "darwin" {
		appMenu.Append(menu.AppMenu())
	}

	fileMenu := appMenu.AddSubmenu(i18n.T("menu.file"))
	fileMenu.AddText(i18n.T("menu.open_source"), keys.CmdOrCtrl("o"), func(_ *menu.CallbackData) {
		go app.PickSourceFile()
	})
	exportMenu := fileMenu.AddSubmenu(i18n.T("menu.export"))
	for _, item := range []struct {
		label string
		run   func() error
	}{
		{"menu.export_pptx", app.ExportPPTX},
		{"menu.export_pdf", app.ExportPDF},
		{"menu.export_outline", app.ExportOutline},
		{"menu.export_data", app.ExportData},
		{"menu.export_handout", app.ExportHandout},
	} {
		run := item.run
		exportMenu.AddText(i18n.T(item.label), nil, func(_ *menu.CallbackData) {
			go func() {
				if err := run(); err != nil {
					app.Log(fmt.Sprintf("[MENU] export: %v", err))
				}
			}()
		})
	}
	fileMenu.AddSeparator()
	fileMenu.AddText(i18n.T("menu.quit"), keys.CmdOrCtrl("q"), func(_ *menu.CallbackData) {
		app.window.Quit()
	})

	viewMenu := appMenu.AddSubmenu(i18n.T("menu.view"))
	viewMenu.AddText(i18n.T("menu.grid"), keys.CmdOrCtrl("g"), func(_ *menu.CallbackData) {
		app.HandleKey("g")
	})
	viewMenu.AddText(i18n.T("menu.fullscreen"), keys.CmdOrCtrl("f"), func(_ *menu.CallbackData) {
		app.window.ToggleFullscreen()
	})
	viewMenu.AddText(i18n.T("menu.laser"), keys.CmdOrCtrl("l"), func(_ *menu.CallbackData) {
		app.HandleKey("l")
	})
	styleMenu := viewMenu.AddSubmenu(i18n.T("menu.style"))
	for _, st := range deck.Styles {
		name := string(st)
		styleMenu.AddText(name, nil, func(_ *menu.CallbackData) {
			app.SetActiveStyle(name)
		})
	}

	helpMenu := appMenu.AddSubmenu(i18n.T("menu.help"))
	helpMenu.AddText(i18n.T("menu.about"), nil, func(_ *menu.CallbackData) {
		go app.ShowAbout()
	})
	return appMenu
}
