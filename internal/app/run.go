package app

import (
	"context"
	"io"
	"log/slog"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"yashubustudio/profitprophet/prophet"
)

const fyneAppID = "studio.yashubu.profitprophet"

// Run loads the configuration and starts the desktop UI.
func Run() error {
	cfg, err := prophet.LoadConfig("")
	if err != nil {
		return err
	}

	a := fyneapp.NewWithID(fyneAppID)

	var u *uiState
	capture := newLogCapture(logLineLimit, func(text string) {
		if u != nil {
			_ = u.logBind.Set(text)
		}
	})
	logger := slog.New(slog.NewTextHandler(io.MultiWriter(os.Stdout, capture), nil))

	svc := prophet.NewService(logger)
	u = buildUI(a, svc, cfg, "", logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go capture.run(ctx, logDebounceInterval)

	u.w.SetOnClosed(func() {
		if err := prophet.SaveConfig(u.configPath, u.cfg); err != nil {
			logger.Warn("save config failed", slog.Any("error", err))
		}
	})
	logger.Info("profitprophet ready", slog.Int("fields", len(cfg.Fields)))
	u.w.ShowAndRun()
	return nil
}
