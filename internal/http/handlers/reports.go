package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/http/response"
	"github.com/starpathlabs/constellation-backend/internal/jobs/reportrun"
	"github.com/starpathlabs/constellation-backend/internal/platform/ctxutil"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"github.com/starpathlabs/constellation-backend/internal/reports"
)

const syncGenerateTimeout = 30 * time.Minute

type ReportHandler struct {
	log            *logger.Logger
	jobs           repos.ReportJobRepo
	reportsService *reports.Service
	activities     *reportrun.Activities
	temporalClient temporalsdkclient.Client
	taskQueue      string
}

func NewReportHandler(
	baseLog *logger.Logger,
	jobs repos.ReportJobRepo,
	reportsService *reports.Service,
	activities *reportrun.Activities,
	temporalClient temporalsdkclient.Client,
	taskQueue string,
) *ReportHandler {
	return &ReportHandler{
		log:            baseLog.With("handler", "ReportHandler"),
		jobs:           jobs,
		reportsService: reportsService,
		activities:     activities,
		temporalClient: temporalClient,
		taskQueue:      taskQueue,
	}
}

// Generate enqueues a report job. With Temporal configured the workflow
// owns it; otherwise a background goroutine runs the same activity inline.
func (rh *ReportHandler) Generate(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())

	job := &types.ReportJob{
		ID:     uuid.New(),
		UserID: rd.UserID,
		Status: types.ReportJobStatusQueued,
	}
	if _, err := rh.jobs.Create(c.Request.Context(), nil, job); err != nil {
		response.RespondAPIError(c, err)
		return
	}

	in := reportrun.Input{JobID: job.ID, UserID: rd.UserID}
	if rh.temporalClient != nil {
		if err := reportrun.Start(c.Request.Context(), rh.temporalClient, rh.taskQueue, in); err != nil {
			response.RespondAPIError(c, err)
			return
		}
	} else {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					rh.log.Error("inline report generation panicked", "job_id", in.JobID.String(), "panic", fmt.Sprint(r))
				}
			}()
			ctx, cancel := context.WithTimeout(context.Background(), syncGenerateTimeout)
			defer cancel()
			if _, err := rh.activities.Generate(ctx, in); err != nil {
				rh.log.Error("inline report generation failed", "job_id", in.JobID.String(), "error", err.Error())
			}
		}()
	}

	c.JSON(http.StatusAccepted, gin.H{"job_id": job.ID, "status": job.Status})
}

func (rh *ReportHandler) GetJob(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	jobID, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_identifier", err)
		return
	}
	job, err := rh.jobs.GetByID(c.Request.Context(), nil, jobID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if job == nil || (job.UserID != rd.UserID && !rd.IsAdmin) {
		response.RespondError(c, http.StatusBadRequest, "invalid_identifier", errors.New("unknown job"))
		return
	}
	response.RespondOK(c, job)
}

func (rh *ReportHandler) Latest(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	reportType := c.DefaultQuery("type", types.ReportTypePersonal)

	row, err := rh.reportsService.Latest(c.Request.Context(), rd.UserID, reportType)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if row == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("no report generated yet"))
		return
	}
	response.RespondOK(c, row)
}
