package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	apperrors "github.com/metalstreets/contact-backend/services/common/errors"
	"github.com/metalstreets/contact-backend/services/common/logger"
	"github.com/metalstreets/contact-backend/services/intake-service/models"
	"github.com/metalstreets/contact-backend/services/intake-service/services"
)

const (
	LivenessMessage = "Metal Streets Media Contact Form Handler is running"
	LivenessUsage   = "This endpoint accepts POST requests from the contact form"
)

// IntakeController handles the public intake endpoint and the admin export.
type IntakeController struct {
	intake services.IntakeService
	logger *zap.Logger
}

func NewIntakeController(intake services.IntakeService, logger *zap.Logger) *IntakeController {
	return &IntakeController{intake: intake, logger: logger}
}

// Get handles GET /. A query that carries any submission field is a
// hidden-frame submission; anything else (no query, cache busters, unknown
// keys, blank values) is a liveness check.
func (ic *IntakeController) Get(ctx *gin.Context) {
	rec, ok := ic.bind(ctx)
	if !ok {
		return
	}
	if rec.IsEmpty() {
		ctx.JSON(http.StatusOK, apperrors.Payload{
			Status:  apperrors.StatusSuccess,
			Message: LivenessMessage,
			Usage:   LivenessUsage,
		})
		return
	}
	ic.submit(ctx, rec)
}

// Submit handles POST /. Fields come from the query string and the
// form-encoded body; absent fields bind as "".
func (ic *IntakeController) Submit(ctx *gin.Context) {
	rec, ok := ic.bind(ctx)
	if !ok {
		return
	}
	ic.submit(ctx, rec)
}

func (ic *IntakeController) bind(ctx *gin.Context) (models.SubmissionRecord, bool) {
	var rec models.SubmissionRecord
	if err := ctx.ShouldBindWith(&rec, binding.Form); err != nil {
		_ = ctx.Error(apperrors.Wrap(apperrors.ErrBinding, err))
		return rec, false
	}
	return rec, true
}

func (ic *IntakeController) submit(ctx *gin.Context, rec models.SubmissionRecord) {
	res, err := ic.intake.Submit(ctx.Request.Context(), rec)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, apperrors.Success(services.SuccessMessage))
	logger.For(ctx.Request.Context(), ic.logger).Debug("submission responded",
		zap.String("from", string(res.State)),
		zap.String("state", string(models.StateResponded)),
	)
}

// ExportCSV handles GET /admin/submissions.csv
func (ic *IntakeController) ExportCSV(ctx *gin.Context) {
	var buf bytes.Buffer
	if err := ic.intake.Export(ctx.Request.Context(), &buf); err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="submissions.csv"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
