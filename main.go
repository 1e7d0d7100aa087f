package main

import (
	"embed"
	"log"

	"appcontrol/internal/app"
	"appcontrol/internal/config"
	"appcontrol/internal/infrastructure/logging"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	appLogger := logging.New(cfg.Log.Level, cfg.Log.Development)

	// Create an instance of the app structure
	application := app.NewApp(cfg, appLogger)

	err = wails.Run(&options.App{
		Title:             "App Control",
		Width:             480,
		Height:            320,
		MinWidth:          320,
		MinHeight:         240,
		DisableResize:     false,
		Fullscreen:        false,
		Frameless:         false,
		StartHidden:       false,
		HideWindowOnClose: false,
		BackgroundColour:  &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Menu:             windowMenu(application),
		Logger:           logging.NewWailsLoggerAdapter(appLogger),
		LogLevel:         wailsLogLevel(cfg.Log.Level),
		OnStartup:        application.Startup,
		OnDomReady:       application.DomReady,
		OnBeforeClose:    application.BeforeClose,
		OnShutdown:       application.Shutdown,
		WindowStartState: options.Normal,
		Bind: []interface{}{
			application,
		},
		// Windows platform specific options
		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			ZoomFactor:           1.0,
		},
		// Mac platform specific options
		Mac: &mac.Options{
			TitleBar: mac.TitleBarDefault(),
			About: &mac.AboutInfo{
				Title:   "App Control",
				Message: "Minimize, close and exit the application from the frontend",
			},
		},
	})

	if err != nil {
		log.Fatal(err)
	}
}

// windowMenu mirrors the bound commands so they are reachable without the frontend
func windowMenu(application *app.App) *menu.Menu {
	appMenu := menu.NewMenu()
	windowMenu := appMenu.AddSubmenu("Window")

	windowMenu.AddText("Minimize", keys.CmdOrCtrl("m"), func(_ *menu.CallbackData) {
		if _, err := application.MinimizeApp(); err != nil {
			application.GetLogger().Warn("Minimize from menu failed", "error", err.Error())
		}
	})
	windowMenu.AddText("Close", keys.CmdOrCtrl("w"), func(_ *menu.CallbackData) {
		if _, err := application.CloseApp(); err != nil {
			application.GetLogger().Warn("Close from menu failed", "error", err.Error())
		}
	})
	windowMenu.AddSeparator()
	windowMenu.AddText("Exit", keys.CmdOrCtrl("q"), func(_ *menu.CallbackData) {
		if _, err := application.ExitApp(nil); err != nil {
			application.GetLogger().Warn("Exit from menu failed", "error", err.Error())
		}
	})

	return appMenu
}

func wailsLogLevel(level string) logger.LogLevel {
	switch logging.ParseLevel(level) {
	case logging.LevelDebug:
		return logger.DEBUG
	case logging.LevelWarn:
		return logger.WARNING
	case logging.LevelError:
		return logger.ERROR
	default:
		return logger.INFO
	}
}
