// Package pdf genera el reporte de auditoría de correos (traza de EmailLog).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del sistema  │  Fecha de generación         │
//	│  RESUMEN: total / aprobados / rechazados / enviados / fallos │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: ID | Destinatario | Asunto | Cumplimiento | Envío    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/mycrm-api/internal/application/ports"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
)

var _ ports.EmailReportGenerator = (*EmailAuditReport)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// EmailAuditReport implementa ports.EmailReportGenerator usando Maroto v2.
type EmailAuditReport struct {
	systemName string
}

// NewEmailAuditReport construye el generador; systemName va en el encabezado.
func NewEmailAuditReport(systemName string) *EmailAuditReport {
	return &EmailAuditReport{systemName: systemName}
}

// ReportSummary totales del reporte.
type ReportSummary struct {
	Total, Approved, Rejected, Sent, Failed int
}

// Summarize cuenta los registros por estado.
func Summarize(logs []*entity.EmailLog) ReportSummary {
	s := ReportSummary{Total: len(logs)}
	for _, l := range logs {
		switch l.State() {
		case entity.EmailStateFailed:
			s.Failed++
		case entity.EmailStateSent:
			s.Sent++
			s.Approved++
		case entity.EmailStateReviewedApproved:
			s.Approved++
		case entity.EmailStateReviewedRejected:
			s.Rejected++
		}
	}
	return s
}

// GenerateEmailReport genera el PDF y devuelve sus bytes.
func (g *EmailAuditReport) GenerateEmailReport(_ context.Context, logs []*entity.EmailLog, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Email audit report", true).
		WithAuthor(g.systemName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.systemName, generatedAt))
	m.AddRows(summaryRow(Summarize(logs)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(logs)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(systemName string, at time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(systemName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Email audit trail", props.Text{Size: 9, Top: 8, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generated: "+at.Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func summaryRow(s ReportSummary) core.Row {
	cell := func(label string, n int) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Align: align.Center}),
			text.New(strconv.Itoa(n), props.Text{Style: fontstyle.Bold, Size: 11, Top: 4, Align: align.Center}),
		)
	}
	return row.New(12).Add(
		cell("Total", s.Total),
		cell("Approved", s.Approved),
		cell("Rejected", s.Rejected),
		cell("Sent", s.Sent),
		cell("Failed", s.Failed),
		col.New(2),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2, Left: 1,
		}))
	}
	return row.New(8).Add(
		h("ID", 1),
		h("Recipient", 3),
		h("Subject", 4),
		h("Compliance", 2),
		h("Sent", 2),
	)
}

func tableRows(logs []*entity.EmailLog) []core.Row {
	result := make([]core.Row, 0, len(logs))
	for _, l := range logs {
		compliance := "Approved"
		color := (*props.Color)(nil)
		switch l.State() {
		case entity.EmailStateFailed:
			compliance, color = "Failed", colorDanger
		case entity.EmailStateReviewedRejected:
			compliance, color = "Rejected", colorDanger
		}
		sent := "No"
		if l.Sent && l.SentAt != nil {
			sent = l.SentAt.Format("2006-01-02 15:04")
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.FormatInt(l.ID, 10), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(nonEmpty(l.RecipientEmail, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(nonEmpty(l.Subject, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(compliance, props.Text{Size: 8, Top: 1, Left: 1, Color: color})),
			col.New(2).Add(text.New(sent, props.Text{Size: 8, Top: 1, Left: 1})),
		))
	}
	return result
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
