package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"stock-report-builder/internal/export"
)

// ExportReport builds a report and writes it to path in the requested
// format. A no-data report is an error here: a one-shot export with
// nothing in it is not worth a file.
func (a *App) ExportReport(ctx context.Context, req ReportRequest, format ExportFormat, path string) error {
	report, err := a.BuildReport(ctx, req)
	if err != nil {
		return err
	}
	if report.NoData {
		if report.Warning != "" {
			return fmt.Errorf("no data found for %s: %s", report.Request.Ticker, report.Warning)
		}
		return fmt.Errorf("no data found for %s", report.Request.Ticker)
	}

	return a.writeReport(report, format, path)
}

func (a *App) writeReport(report *Report, format ExportFormat, path string) error {
	if path == "" {
		path = filepath.Join(a.Config.Export.OutputDir, fmt.Sprintf("%s-report.%s", report.Request.Ticker, format))
	}

	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch format {
	case FormatCSV:
		err = export.WriteCSV(file, report.Series)
	case FormatPDF:
		err = export.PDF(file, report.Document())
	case FormatPPTX:
		err = export.PPTX(file, report.Document())
	default:
		err = errUnknownFormat(string(format))
	}
	if err != nil {
		return err
	}

	a.Logger.Info().Str("ticker", report.Request.Ticker).Str("format", string(format)).Str("path", path).Msg("report exported")
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func errUnknownFormat(format string) error {
	return fmt.Errorf("unknown export format %q (want pptx, pdf, or csv)", format)
}
