package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/ismailhaddouche/PiControl/internal/apierror"
	"github.com/ismailhaddouche/PiControl/internal/dto"
	"github.com/ismailhaddouche/PiControl/internal/infra"
	"github.com/ismailhaddouche/PiControl/internal/service"
	"github.com/ismailhaddouche/PiControl/internal/worker"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reports    service.ReportService
	employees  service.EmployeeService
	dispatcher *worker.Dispatcher
	pdfPath    string
}

func NewReportHandler(reports service.ReportService, employees service.EmployeeService, dispatcher *worker.Dispatcher, pdfPath string) *ReportHandler {
	return &ReportHandler{reports: reports, employees: employees, dispatcher: dispatcher, pdfPath: pdfPath}
}

// Hours godoc
// @Summary Worked-hours report for one employee: pairs, daily breakdown, total
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param document_id path string true "Employee document ID"
// @Param start query string false "Range start (RFC 3339 or YYYY-MM-DD)"
// @Param end query string false "Range end (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {object} dto.HoursReportResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/reports/hours/{document_id} [get]
func (h *ReportHandler) Hours(c *gin.Context) {
	emp, err := h.employees.Get(c.Request.Context(), c.Param("document_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	pairs, err := h.reports.ComputePairs(c.Request.Context(), emp.DocumentID, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to compute report"))
		return
	}
	perDay, err := h.reports.PerDayBreakdown(c.Request.Context(), emp.DocumentID, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to compute report"))
		return
	}

	var totalSeconds int64
	resp := dto.HoursReportResponse{
		EmployeeID: emp.DocumentID,
		Pairs:      make([]dto.PairResponse, 0, len(pairs)),
		PerDay:     make([]dto.DayHoursResponse, 0, len(perDay)),
	}
	for _, p := range pairs {
		totalSeconds += p.Seconds()
		resp.Pairs = append(resp.Pairs, dto.PairResponse{
			Entry: p.Entry.Timestamp.UTC().Format(time.RFC3339),
			Exit:  p.Exit.Timestamp.UTC().Format(time.RFC3339),
			Hours: float64(p.Seconds()) / 3600.0,
		})
	}
	for _, d := range perDay {
		resp.PerDay = append(resp.PerDay, dto.DayHoursResponse{Date: d.Date, Hours: d.Hours})
	}
	resp.TotalHours = float64(totalSeconds) / 3600.0

	c.JSON(http.StatusOK, resp)
}

// PDF generates the hours report as a PDF and streams it as a download.
func (h *ReportHandler) PDF(c *gin.Context) {
	emp, err := h.employees.Get(c.Request.Context(), c.Param("document_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	path, err := h.generatePDF(c, emp.DocumentID, emp.Name, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to generate PDF"))
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

// Email generates the PDF and queues delivery; the SMTP send happens in the
// worker pool, not in the request.
func (h *ReportHandler) Email(c *gin.Context) {
	var req dto.EmailReportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	emp, err := h.employees.Get(c.Request.Context(), c.Param("document_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	path, err := h.generatePDF(c, emp.DocumentID, emp.Name, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to generate PDF"))
		return
	}

	payload := worker.EmailJobPayload{
		ToEmail: req.ToEmail,
		Subject: fmt.Sprintf("Hours report — %s", emp.Name),
		Body:    fmt.Sprintf("Attached is the worked-hours report for %s (%s).", emp.Name, emp.DocumentID),
		PDFPath: path,
	}
	if err := h.dispatcher.EnqueueEmail(c.Request.Context(), payload); err != nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("failed to queue email delivery"))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": true, "to": req.ToEmail})
}

func (h *ReportHandler) generatePDF(c *gin.Context, documentID, name string, start, end *time.Time) (string, error) {
	ctx := c.Request.Context()
	pairs, err := h.reports.ComputePairs(ctx, documentID, start, end)
	if err != nil {
		return "", err
	}
	perDay, err := h.reports.PerDayBreakdown(ctx, documentID, start, end)
	if err != nil {
		return "", err
	}
	var totalSeconds int64
	for _, p := range pairs {
		totalSeconds += p.Seconds()
	}
	return infra.GenerateHoursPDF(documentID, name, pairs, perDay, float64(totalSeconds)/3600.0, h.pdfPath)
}
