package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/savage13/fern/internal/app"
	"github.com/savage13/fern/internal/domain"
	"github.com/savage13/fern/internal/fdsn"
)

var (
	labelStyle  = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func outcomeStyle(o domain.Outcome) lipgloss.Style {
	switch o {
	case domain.OutcomeOK:
		return okStyle
	case domain.OutcomeEmpty:
		return emptyStyle
	default:
		return failedStyle
	}
}

// printDocumentSummary reports the request count and estimated size of doc.
func printDocumentSummary(w io.Writer, doc *domain.Document, budget int64) {
	fmt.Fprintf(w, "%s %d requests, %d lines, estimated %s (budget %s per request)\n",
		labelStyle.Render("chunked:"),
		len(doc.Requests), doc.LineCount(),
		humanize.IBytes(uint64(doc.Size())),
		humanize.IBytes(uint64(budget)))
}

// printReport summarizes a download run.
func printReport(w io.Writer, r *app.Report, pending int) {
	fmt.Fprintf(w, "%s %s  %s  %s  %s\n",
		labelStyle.Render("run "+r.RunID+":"),
		okStyle.Render(fmt.Sprintf("%d ok", r.Count(domain.OutcomeOK))),
		emptyStyle.Render(fmt.Sprintf("%d empty", r.Count(domain.OutcomeEmpty))),
		failedStyle.Render(fmt.Sprintf("%d failed", r.Count(domain.OutcomeFailed))),
		humanize.IBytes(uint64(r.Bytes())))
	if r.Aggregate != nil {
		fmt.Fprintf(w, "%s %d segments, %s\n", labelStyle.Render("unpacked:"),
			len(r.Aggregate.Segments), humanize.IBytes(uint64(r.Aggregate.TotalBytes)))
	}
	if pending > 0 {
		fmt.Fprintf(w, "%s %d requests still pending; run download again to retry\n",
			labelStyle.Render("pending:"), pending)
	}
}

// attemptTable renders journal rows.
func attemptTable(attempts []domain.Attempt) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("STARTED", "RUN", "DATA CENTER", "OUTCOME", "STATUS", "SIZE", "TOOK", "KEY / ERROR").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 3 && row >= 0 && row < len(attempts) {
				return outcomeStyle(attempts[row].Outcome).Padding(0, 1)
			}
			return cellStyle
		})
	for _, a := range attempts {
		detail := a.Key
		if a.Error != "" {
			detail = a.Error
		}
		run := a.RunID
		if len(run) > 8 {
			run = run[:8]
		}
		t.Row(
			humanize.Time(a.Started),
			run,
			a.DataCenter,
			a.Outcome.String(),
			strconv.Itoa(a.Status),
			humanize.IBytes(uint64(a.Bytes)),
			a.Duration.Round(1e6).String(),
			detail,
		)
	}
	return t.Render()
}

// eventTable renders event summaries.
func eventTable(events []domain.Event) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ORIGIN", "LAT", "LON", "DEPTH", "MAG", "TYPE", "AUTHOR", "EVENT ID", "REGION").
		StyleFunc(plainStyle)
	for _, ev := range events {
		author := ev.MagAuthor
		if author == "" {
			author = ev.Author
		}
		t.Row(
			ev.Time.Format(fdsn.QueryTimeLayout),
			strconv.FormatFloat(ev.Latitude, 'f', 3, 64),
			strconv.FormatFloat(ev.Longitude, 'f', 3, 64),
			strconv.FormatFloat(ev.DepthKm, 'f', 1, 64),
			strconv.FormatFloat(ev.Magnitude, 'f', 1, 64),
			ev.MagType,
			author,
			ev.ID,
			ev.Location,
		)
	}
	return t.Render()
}

// stationTable renders station summaries, with their epochs when showTime
// is set.
func stationTable(stations []domain.Station, showTime bool) string {
	headers := []string{"NET", "STA", "LAT", "LON", "ELEV"}
	if showTime {
		headers = append(headers, "START", "END")
	}
	headers = append(headers, "SITE")

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(plainStyle)
	for _, s := range stations {
		row := []string{
			s.Network,
			s.Station,
			strconv.FormatFloat(s.Latitude, 'f', 4, 64),
			strconv.FormatFloat(s.Longitude, 'f', 4, 64),
			strconv.FormatFloat(s.Elevation, 'f', 1, 64),
		}
		if showTime {
			end := "open"
			if !s.End.IsZero() {
				end = s.End.Format(fdsn.QueryTimeLayout)
			}
			row = append(row, s.Start.Format(fdsn.QueryTimeLayout), end)
		}
		t.Row(append(row, s.SiteName)...)
	}
	return t.Render()
}

func plainStyle(row, col int) lipgloss.Style {
	if row == table.HeaderRow {
		return headerStyle
	}
	return cellStyle
}
