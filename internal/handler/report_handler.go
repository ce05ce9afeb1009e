package handler

import (
	"context"
	"net/http"

	"crowdsight/internal/authz"
	"crowdsight/internal/middleware"
	"crowdsight/internal/model"
	"crowdsight/internal/service"
	"crowdsight/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReportHandler handles report related requests
type ReportHandler struct {
	service service.ReportService
	logger  *logrus.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(s service.ReportService, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{service: s, logger: logger}
}

type listReportsFunc func(ctx context.Context, id authz.Identity, filters model.ReportFilters) (*model.ReportPage, error)

func (h *ReportHandler) CreateReport(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	// Anonymous callers get 401 before body validation
	if err := authz.Check(id, authz.CreateReport).Err(); err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req model.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, "Invalid request: "+err.Error())
		return
	}

	report, err := h.service.Create(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, "Report created successfully", report)
}

func (h *ReportHandler) ListMyReports(c *gin.Context) {
	h.list(c, authz.ListReports, model.DefaultUserLimit, h.service.List)
}

func (h *ReportHandler) ListAllReports(c *gin.Context) {
	h.list(c, authz.AdminListAll, model.DefaultAdminLimit, h.service.AdminList)
}

func (h *ReportHandler) list(c *gin.Context, op authz.Operation, defaultLimit int, fetch listReportsFunc) {
	id := middleware.IdentityFrom(c)
	if err := authz.Check(id, op).Err(); err != nil {
		respondError(c, h.logger, err)
		return
	}

	var params model.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondInvalid(c, "Invalid query: "+err.Error())
		return
	}
	filters, err := params.Filters(defaultLimit)
	if err != nil {
		respondInvalid(c, err.Error())
		return
	}

	page, err := fetch(c.Request.Context(), id, filters)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.RespondPage(c, page.Reports, page.Pagination)
}

func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	h.updateStatus(c, h.service.UpdateStatus)
}

func (h *ReportHandler) AdminUpdateStatus(c *gin.Context) {
	h.updateStatus(c, h.service.AdminUpdateStatus)
}

func (h *ReportHandler) updateStatus(c *gin.Context, update func(context.Context, authz.Identity, int64, string) (*model.Report, error)) {
	reportID, ok := pathID(c)
	if !ok {
		return
	}

	// A missing or malformed body leaves Status empty; the service
	// rejects it after the role check.
	var req model.UpdateStatusRequest
	_ = c.ShouldBindJSON(&req)

	report, err := update(c.Request.Context(), middleware.IdentityFrom(c), reportID, req.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, "Report status updated successfully", report)
}

func (h *ReportHandler) DeleteReport(c *gin.Context) {
	h.delete(c, h.service.Delete)
}

func (h *ReportHandler) AdminDeleteReport(c *gin.Context) {
	h.delete(c, h.service.AdminDelete)
}

func (h *ReportHandler) delete(c *gin.Context, del func(context.Context, authz.Identity, int64) error) {
	reportID, ok := pathID(c)
	if !ok {
		return
	}

	if err := del(c.Request.Context(), middleware.IdentityFrom(c), reportID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, "Report deleted successfully", nil)
}

// RegisterReportRoutes registers the user and admin report routes
func (h *ReportHandler) RegisterReportRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	reports := rg.Group("/reports")
	{
		reports.POST("", h.CreateReport)
		reports.GET("", h.ListMyReports)
		reports.PUT("/:id", h.UpdateStatus)
		reports.DELETE("/:id", h.DeleteReport)

		admin := reports.Group("/admin", adminMW)
		{
			admin.GET("/reports", h.ListAllReports)
			admin.PUT("/reports/:id/status", h.AdminUpdateStatus)
			admin.DELETE("/reports/:id", h.AdminDeleteReport)
		}
	}
}
