package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mycrm-api/internal/domain/entity"
	"github.com/jhoicas/mycrm-api/internal/infrastructure/pdf"
)

func sampleLogs() []*entity.EmailLog {
	sentAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return []*entity.EmailLog{
		{ID: 1, RecipientEmail: "a@x.io", Subject: "Hola", HIPAACheck: "APPROVED: ok", AICheck: "APPROVED: ok", ComplianceApproved: true, Sent: true, SentAt: &sentAt},
		{ID: 2, RecipientEmail: "b@x.io", Subject: "Oferta", HIPAACheck: "VIOLATION: PHI", AICheck: "APPROVED: ok"},
		{ID: 3, RecipientEmail: "c@x.io", HIPAACheck: "APPROVED", AICheck: "APPROVED", ComplianceApproved: true},
		{ID: 4, Status: entity.EmailStatusFailed, ErrorMessage: "boom"},
	}
}

func TestSummarize_CuentaEstados(t *testing.T) {
	s := pdf.Summarize(sampleLogs())
	assert.Equal(t, pdf.ReportSummary{Total: 4, Approved: 2, Rejected: 1, Sent: 1, Failed: 1}, s)
}

func TestEmailAuditReport_GeneraPDF(t *testing.T) {
	g := pdf.NewEmailAuditReport("MyCRM")
	out, err := g.GenerateEmailReport(context.Background(), sampleLogs(), time.Now())

	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un documento PDF")
}
