package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type competencyApi struct {
	deps ServerDeps
}

func registerCompetencyAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := competencyApi{deps: deps}

	pg := g.Group("/plans", jwt)
	pg.GET("/mine", api.minePlans)
	pg.GET("/:id/competencies", api.planCompetencies)

	ug := g.Group("/users/:id/plans", jwt, managerMiddleware())
	ug.GET("", api.userPlans)
}

func (api *competencyApi) minePlans(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return ctx.JSON(http.StatusOK, api.deps.CompetencySvc.PlansWithCompetencies(ctx.Request().Context(), claims.UserID()))
}

func (api *competencyApi) userPlans(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, api.deps.CompetencySvc.PlansWithCompetencies(ctx.Request().Context(), id))
}

func (api *competencyApi) planCompetencies(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, api.deps.CompetencySvc.PlanCompetencies(ctx.Request().Context(), id))
}
