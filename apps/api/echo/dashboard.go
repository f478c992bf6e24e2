package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type dashboardApi struct {
	deps ServerDeps
}

func registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := dashboardApi{deps: deps}

	dg := g.Group("/dashboard", jwt)
	dg.GET("/overview", api.overview)
	dg.GET("/engagement", api.engagement)
	dg.GET("/attendance", api.attendance, managerMiddleware())
	dg.GET("/competency", api.competency, managerMiddleware())
	dg.GET("/leaderboard", api.leaderboard)

	g.GET("/users/:id/radar", api.radar, jwt)
}

func (api *dashboardApi) overview(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.deps.DashSvc.GetOverview(ctx.Request().Context()))
}

func (api *dashboardApi) engagement(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.deps.DashSvc.MonthlyEngagement(ctx.Request().Context()))
}

func (api *dashboardApi) attendance(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.deps.DashSvc.AttendanceReport(ctx.Request().Context()))
}

func (api *dashboardApi) competency(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.deps.DashSvc.CompetencyDistribution(ctx.Request().Context()))
}

func (api *dashboardApi) leaderboard(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.deps.DashSvc.Leaderboard(ctx.Request().Context()))
}

// radar serves the per-user competency radar; non-managers may only request
// their own.
func (api *dashboardApi) radar(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	if id != claims.UserID() && !claims.IsManager {
		return errHttpForbidden
	}
	return ctx.JSON(http.StatusOK, api.deps.DashSvc.CompetencyRadar(ctx.Request().Context(), id))
}
