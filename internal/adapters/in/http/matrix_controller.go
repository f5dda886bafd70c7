package http

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/config"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/json_types"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/ports/in"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/utils"
)

type MatrixController struct {
	useCase in.MatrixUseCase
	cfg     *config.Config
}

func NewMatrixController(useCase in.MatrixUseCase, cfg *config.Config) *MatrixController {
	return &MatrixController{
		useCase: useCase,
		cfg:     cfg,
	}
}

func (c *MatrixController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		api.GET("/matrix", c.getMatrix)
		api.POST("/periods", c.createPeriod)
		api.PUT("/periods/:periodId", c.updatePeriod)
		api.DELETE("/periods/:periodId", c.deletePeriod)
		api.PUT("/range", c.putRange)
		api.GET("/settings", c.getSettings)
		api.PUT("/settings", c.putSettings)
	}
}

// parseMatrixRequest собирает параметры построения из query-строки,
// отсутствующие параметры оставляют текущее состояние оркестратора
func (c *MatrixController) parseMatrixRequest(ctx *gin.Context) (in.MatrixRequest, error) {
	req := in.MatrixRequest{}

	startParam := ctx.Query("startDate")
	endParam := ctx.Query("endDate")
	// Половина диапазона - ошибка запроса, а не "оставить как есть"
	if (startParam == "") != (endParam == "") {
		return req, fmt.Errorf("startDate and endDate must be provided together")
	}
	if startParam != "" && endParam != "" {
		startDate, err := utils.ParseDate(startParam)
		if err != nil {
			return req, err
		}
		endDate, err := utils.ParseDate(endParam)
		if err != nil {
			return req, err
		}
		req.Range = &domain.DateRange{
			StartDate: json_types.NewDate(startDate),
			EndDate:   json_types.NewDate(endDate),
		}
	}

	if theme := ctx.Query("theme"); theme != "" {
		req.Theme = domain.Theme(theme)
	}

	if teamsParam := ctx.Query("teams"); teamsParam != "" {
		filter := domain.TeamFilter{Mode: domain.FilterModeOr}
		if mode := ctx.Query("filterMode"); strings.EqualFold(mode, string(domain.FilterModeAnd)) {
			filter.Mode = domain.FilterModeAnd
		}
		for _, raw := range strings.Split(teamsParam, ",") {
			teamID, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				return req, err
			}
			filter.TeamIDs = append(filter.TeamIDs, teamID)
		}
		req.Filter = &filter
	}

	if field := ctx.Query("sortField"); field != "" {
		sort := domain.SortState{
			Field:     domain.SortField(field),
			Direction: domain.SortDirectionAsc,
		}
		if dir := ctx.Query("sortDir"); dir != "" {
			sort.Direction = domain.SortDirection(dir)
		}
		req.Sort = &sort
	}

	return req, nil
}

func (c *MatrixController) getMatrix(ctx *gin.Context) {
	req, err := c.parseMatrixRequest(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, debugInfo, err := c.useCase.BuildMatrix(ctx.Request.Context(), req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"matrix": snapshot,
		"debug":  debugInfo,
	})
}

func (c *MatrixController) createPeriod(ctx *gin.Context) {
	var draft domain.LeavePeriodDraft
	if err := ctx.ShouldBindJSON(&draft); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	period, err := c.useCase.CreateLeavePeriod(ctx.Request.Context(), draft)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"period": period})
}

func (c *MatrixController) updatePeriod(ctx *gin.Context) {
	periodID := ctx.Param("periodId")

	var draft domain.LeavePeriodDraft
	if err := ctx.ShouldBindJSON(&draft); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	period, err := c.useCase.UpdateLeavePeriod(ctx.Request.Context(), periodID, draft)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"period": period})
}

func (c *MatrixController) deletePeriod(ctx *gin.Context) {
	periodID := ctx.Param("periodId")

	if err := c.useCase.RemoveLeavePeriod(ctx.Request.Context(), periodID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (c *MatrixController) putRange(ctx *gin.Context) {
	var rng domain.DateRange
	if err := ctx.ShouldBindJSON(&rng); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := rng.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.useCase.ApplyScheduleRange(ctx.Request.Context(), rng); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"range": rng})
}

func (c *MatrixController) getSettings(ctx *gin.Context) {
	settings, err := c.useCase.Settings(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (c *MatrixController) putSettings(ctx *gin.Context) {
	var settings domain.ScheduleSettings
	if err := ctx.ShouldBindJSON(&settings); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.useCase.ApplySettings(ctx.Request.Context(), settings); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (c *MatrixController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range c.cfg.Auth.BasicClients {
			if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
				subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
