package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mycrm-api/internal/application/dto"
	"github.com/jhoicas/mycrm-api/internal/application/email"
	"github.com/jhoicas/mycrm-api/internal/domain"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
)

// EmailHandler generación, envío y consulta de correos personalizados.
type EmailHandler struct {
	uc *email.EmailUseCase
}

// NewEmailHandler construye el handler.
func NewEmailHandler(uc *email.EmailUseCase) *EmailHandler {
	return &EmailHandler{uc: uc}
}

// Generate godoc
// @Summary      Generar correos personalizados
// @Description  Acepta customer_id o customer_ids (número, string, lista o "1,2"). Con un solo
// @Description  cliente cualquier falla se devuelve como error; con varios, cada falla queda
// @Description  registrada como email log con status "failed".
// @Tags         emails
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.GenerateEmailRequest  true  "clientes y plantilla"
// @Success      201   {array}   dto.EmailLogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/emails/generate [post]
func (h *EmailHandler) Generate(c *fiber.Ctx) error {
	return h.generate(c, false)
}

// GenerateBulk POST /api/emails/generate/bulk: siempre con aislamiento por cliente.
func (h *EmailHandler) GenerateBulk(c *fiber.Ctx) error {
	return h.generate(c, true)
}

func (h *EmailHandler) generate(c *fiber.Ctx, forceBulk bool) error {
	var in dto.GenerateEmailRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	ids := in.IDs()
	if len(ids) == 0 {
		return respondError(c, domain.NewValidationError("generar correo", "customer_id or customer_ids is required"))
	}
	if problems := entity.ValidateTemplate(in.TemplateText); len(problems) > 0 {
		return respondError(c, domain.NewValidationError("generar correo", problems...))
	}

	ctx := c.UserContext()
	customers, err := h.uc.ResolveCustomers(ctx, ids)
	if err != nil {
		return respondError(c, err)
	}
	authorID := GetUserID(c)

	if len(customers) == 1 && !forceBulk {
		log, err := h.uc.Generate(ctx, customers[0], in.TemplateText, authorID)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON([]dto.EmailLogResponse{toEmailLogResponse(log)})
	}
	logs := h.uc.GenerateBulk(ctx, customers, in.TemplateText, authorID)
	return c.Status(fiber.StatusCreated).JSON(toEmailLogResponses(logs))
}

// Send godoc
// @Summary      Enviar un correo aprobado
// @Tags         emails
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "ID del email log"
// @Success      200  {object}  dto.SendResult
// @Failure      400  {object}  dto.ErrorResponse  "no aprobado o ya enviado"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/emails/{id}/send [post]
func (h *EmailHandler) Send(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	sent, err := h.uc.Send(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SendResult{EmailLogID: id, Sent: sent})
}

// SendBulk POST /api/emails/send: resultados en el orden recibido (sin duplicados).
func (h *EmailHandler) SendBulk(c *fiber.Ctx) error {
	var in dto.SendEmailsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if len(in.EmailLogIDs) == 0 {
		return respondError(c, domain.NewValidationError("envío masivo", "email_log_ids is required"))
	}
	results := h.uc.SendBulk(c.UserContext(), in.EmailLogIDs)

	out := make([]dto.SendResult, 0, len(results))
	seen := make(map[int64]bool, len(results))
	for _, id := range in.EmailLogIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, dto.SendResult{EmailLogID: id, Sent: results[id]})
	}
	return c.JSON(out)
}

// GetByID GET /api/emails/:id
func (h *EmailHandler) GetByID(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	log, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toEmailLogResponse(log))
}

// List GET /api/emails?limit=20&offset=0
func (h *EmailHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return respondError(c, domain.NewValidationError("listar correos", "limit y offset deben ser enteros"))
	}
	page.DefaultPage()
	logs, err := h.uc.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	from, to := page.Window(len(logs))
	return c.JSON(dto.EmailLogPage{
		Items: toEmailLogResponses(logs[from:to]),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(logs)},
	})
}

// ListSent GET /api/emails/sent
func (h *EmailHandler) ListSent(c *fiber.Ctx) error {
	logs, err := h.uc.ListSent(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toEmailLogResponses(logs))
}

// ListByCustomer GET /api/customers/:id/emails
func (h *EmailHandler) ListByCustomer(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	logs, err := h.uc.ListByCustomer(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toEmailLogResponses(logs))
}

// ListByUser GET /api/users/:id/emails
func (h *EmailHandler) ListByUser(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	logs, err := h.uc.ListByUser(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toEmailLogResponses(logs))
}

// ListMine GET /api/emails/mine: correos generados por el usuario del token.
func (h *EmailHandler) ListMine(c *fiber.Ctx) error {
	logs, err := h.uc.ListByUser(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toEmailLogResponses(logs))
}

// Report godoc
// @Summary      Reporte PDF de auditoría de correos
// @Tags         emails
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/emails/report.pdf [get]
func (h *EmailHandler) Report(c *fiber.Ctx) error {
	pdf, err := h.uc.AuditReport(c.UserContext())
	if errors.Is(err, email.ErrReportUnavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "REPORT_UNAVAILABLE", Message: err.Error()})
	}
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="email-audit.pdf"`)
	return c.Send(pdf)
}

func toEmailLogResponse(l *entity.EmailLog) dto.EmailLogResponse {
	return dto.EmailLogResponse{
		ID:                 l.ID,
		CustomerID:         l.CustomerID,
		UserID:             l.UserID,
		TemplateText:       l.TemplateText,
		Subject:            l.Subject,
		GeneratedEmail:     l.GeneratedEmail,
		RecipientEmail:     l.RecipientEmail,
		HIPAACheck:         l.HIPAACheck,
		AICheck:            l.AICheck,
		ComplianceApproved: l.ComplianceApproved,
		Sent:               l.Sent,
		SentAt:             l.SentAt,
		CreatedAt:          l.CreatedAt,
		Status:             l.Status,
		ErrorMessage:       l.ErrorMessage,
		State:              string(l.State()),
	}
}

func toEmailLogResponses(logs []*entity.EmailLog) []dto.EmailLogResponse {
	out := make([]dto.EmailLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, toEmailLogResponse(l))
	}
	return out
}
