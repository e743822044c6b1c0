package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/profitprophet/prophet"
)

const (
	columnWidth = 160
	rowHeight   = 32
)

type uiState struct {
	service    *prophet.Service
	cfg        prophet.Config
	configPath string
	logger     *slog.Logger

	w          fyne.Window
	reference  *widget.Entry
	candidate  *widget.Entry
	outputDir  *widget.Entry
	weights    []*widget.Entry
	eps        *widget.Entry
	minSamples *widget.Entry
	metric     *widget.Select

	log          *widget.Entry
	progress     *widget.ProgressBar
	summary      *widget.Label
	resTbl       *widget.Table
	statusBind   binding.String
	logBind      binding.String
	progressBind binding.Float
	data         [][]string

	processBtn *widget.Button
	browseBtns []*widget.Button
}

func buildUI(a fyne.App, svc *prophet.Service, cfg prophet.Config, configPath string, logger *slog.Logger) *uiState {
	u := &uiState{service: svc, cfg: cfg, configPath: configPath, logger: logger}
	u.w = a.NewWindow("profitprophet")

	u.statusBind = binding.NewString()
	u.progressBind = binding.NewFloat()
	u.logBind = binding.NewString()

	values := initialValues(cfg)
	u.reference = newPathEntry(values.Reference, "Customer file (.csv)")
	u.candidate = newPathEntry(values.Candidate, "Non-customer file (.csv)")
	u.outputDir = newPathEntry(values.OutputDir, "Output directory")

	u.browseBtns = []*widget.Button{
		widget.NewButtonWithIcon("Browse", theme.FolderOpenIcon(), func() { u.pickFile(u.reference) }),
		widget.NewButtonWithIcon("Browse", theme.FolderOpenIcon(), func() { u.pickFile(u.candidate) }),
		widget.NewButtonWithIcon("Browse", theme.FolderOpenIcon(), func() { u.pickDir(u.outputDir) }),
	}

	files := widget.NewForm(
		widget.NewFormItem("Select Customer File:", container.NewBorder(nil, nil, nil, u.browseBtns[0], u.reference)),
		widget.NewFormItem("Select Non-Customer File:", container.NewBorder(nil, nil, nil, u.browseBtns[1], u.candidate)),
		widget.NewFormItem("Select Output Directory:", container.NewBorder(nil, nil, nil, u.browseBtns[2], u.outputDir)),
	)

	weights := widget.NewForm()
	u.weights = make([]*widget.Entry, len(cfg.Fields))
	for i, f := range cfg.Fields {
		entry := widget.NewEntry()
		entry.SetText(values.Weights[i])
		u.weights[i] = entry
		weights.Append(fmt.Sprintf("%s Weight (%%)", f.Name), entry)
	}

	u.eps = widget.NewEntry()
	u.eps.SetText(values.Eps)
	u.minSamples = widget.NewEntry()
	u.minSamples.SetText(values.MinSamples)
	u.metric = widget.NewSelect([]string{"euclidean", "cosine"}, nil)
	u.metric.SetSelected(values.Metric)
	clustering := widget.NewForm(
		widget.NewFormItem("EPS for DBSCAN", u.eps),
		widget.NewFormItem("Min samples for DBSCAN", u.minSamples),
		widget.NewFormItem("Distance metric", u.metric),
	)

	u.processBtn = widget.NewButtonWithIcon("Process Data", theme.ConfirmIcon(), func() { u.onProcess() })
	u.progress = widget.NewProgressBarWithData(u.progressBind)
	status := widget.NewLabelWithData(u.statusBind)

	u.log = widget.NewEntryWithData(u.logBind)
	u.log.MultiLine = true
	u.log.Wrapping = fyne.TextWrapWord
	u.log.SetPlaceHolder("Log")
	u.log.Disable()

	u.summary = widget.NewLabel("")
	u.summary.Wrapping = fyne.TextWrapWord
	u.resTbl = widget.NewTable(
		func() (int, int) {
			if len(u.data) == 0 {
				return 0, 0
			}
			return len(u.data), len(u.data[0])
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			lbl := obj.(*widget.Label)
			if id.Row >= len(u.data) || id.Col >= len(u.data[id.Row]) {
				lbl.SetText("")
				return
			}
			if id.Row == 0 {
				lbl.TextStyle = fyne.TextStyle{Bold: true}
			} else {
				lbl.TextStyle = fyne.TextStyle{}
			}
			lbl.SetText(truncateText(u.data[id.Row][id.Col], 40))
		},
	)

	left := container.NewVBox(
		widget.NewLabelWithStyle("Input", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		files,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Weighting", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		weights,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Clustering", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		clustering,
		u.processBtn,
		u.progress,
		status,
	)
	logBox := container.NewVScroll(u.log)
	logBox.SetMinSize(fyne.NewSize(200, 140))

	right := container.NewBorder(
		widget.NewLabelWithStyle("Potential customers", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewVBox(u.summary, widget.NewSeparator(), widget.NewLabel("Log"), logBox),
		nil, nil,
		u.resTbl,
	)
	split := container.NewHSplit(container.NewVScroll(left), right)
	split.Offset = 0.4

	u.w.SetContent(split)
	u.w.Resize(fyne.NewSize(1180, 780))
	return u
}

func newPathEntry(text, placeholder string) *widget.Entry {
	e := widget.NewEntry()
	e.SetPlaceHolder(placeholder)
	e.SetText(text)
	return e
}

func (u *uiState) values() formValues {
	v := formValues{
		Reference:  u.reference.Text,
		Candidate:  u.candidate.Text,
		OutputDir:  u.outputDir.Text,
		Weights:    make([]string, len(u.weights)),
		Eps:        u.eps.Text,
		MinSamples: u.minSamples.Text,
		Metric:     u.metric.Selected,
	}
	for i, e := range u.weights {
		v.Weights[i] = e.Text
	}
	return v
}

func (u *uiState) pickFile(target *widget.Entry) {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		target.SetText(rc.URI().Path())
	}, u.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".txt"}))
	fd.Show()
}

func (u *uiState) pickDir(target *widget.Entry) {
	dialog.NewFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil || dir == nil {
			return
		}
		target.SetText(dir.Path())
	}, u.w).Show()
}

func (u *uiState) setBusy(b bool) {
	fyne.Do(func() {
		buttons := append([]*widget.Button{u.processBtn}, u.browseBtns...)
		for _, btn := range buttons {
			if b {
				btn.Disable()
			} else {
				btn.Enable()
			}
		}
	})
}

func (u *uiState) setStatus(text string) {
	_ = u.statusBind.Set(text)
}

func (u *uiState) setProgressValue(value float64) {
	_ = u.progressBind.Set(value)
}

func (u *uiState) showError(err error) {
	msg := prophet.UserMessage(err)
	fyne.Do(func() {
		dialog.ShowError(errors.New(msg), u.w)
	})
}

func (u *uiState) onProcess() {
	job, err := prophet.ParseSettings(rawSettings(u.cfg.Fields, u.values(), u.cfg.Workers))
	if err != nil {
		u.logger.Warn("invalid settings", slog.Any("error", err))
		u.showError(err)
		return
	}
	u.cfg = applyJob(u.cfg, job)
	if err := prophet.SaveConfig(u.configPath, u.cfg); err != nil {
		u.logger.Warn("save config failed", slog.Any("error", err))
	}

	u.setBusy(true)
	u.setProgressValue(0)
	u.setStatus("")
	events := u.service.Start(context.Background(), job)
	go u.consume(events)
}

// consume applies run events to the widgets until the run ends.
func (u *uiState) consume(events <-chan prophet.Event) {
	defer u.setBusy(false)
	for ev := range events {
		switch {
		case ev.Progress != nil:
			u.setProgressValue(float64(ev.Progress.Percent) / 100)
			u.setStatus(ev.Progress.Stage)
		case ev.Err != nil:
			u.setStatus(prophet.UserMessage(ev.Err))
			u.showError(ev.Err)
		case ev.Outcome != nil:
			u.showOutcome(ev.Outcome)
		}
	}
}

func (u *uiState) showOutcome(out *prophet.Outcome) {
	data := previewData(out.Result.Table, previewLimit)
	summary := out.Summary()
	if n := out.Result.Table.Len(); n > previewLimit {
		summary += " (showing first " + strconv.Itoa(previewLimit) + ")"
	}
	fyne.Do(func() {
		u.data = data
		for col := range u.data[0] {
			u.resTbl.SetColumnWidth(col, columnWidth)
		}
		u.resTbl.SetRowHeight(0, rowHeight)
		u.resTbl.Refresh()
		u.summary.SetText(summary)
		dialog.ShowInformation("Process Completed", "Data processing successfully completed!\n"+out.OutputPath, u.w)
	})
}
