package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/somahub/portal/core/course"
)

type courseApi struct {
	deps ServerDeps
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := courseApi{deps: deps}

	cg := g.Group("/courses", jwt)
	cg.GET("", api.query)
	cg.GET("/mine", api.mine)
	cg.GET("/:id/contents", api.contents)
	cg.GET("/:id/pathway", api.pathway)
	cg.GET("/:id/enrollments", api.enrollments, managerMiddleware())

	lg := g.Group("/library", jwt)
	lg.GET("/assignments", api.assignments)
	lg.GET("/quizzes", api.quizzes)
	lg.GET("/forums", api.forums)
}

// Handlers

func (api *courseApi) query(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	if companyID, err := strconv.Atoi(ctx.QueryParam("companyid")); err == nil {
		return ctx.JSON(http.StatusOK, api.deps.CourseSvc.CompanyCourses(reqCtx, companyID))
	}
	return ctx.JSON(http.StatusOK, api.deps.CourseSvc.Catalog(reqCtx))
}

func (api *courseApi) mine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return ctx.JSON(http.StatusOK, api.deps.CourseSvc.CoursesOf(ctx.Request().Context(), claims.UserID()))
}

func (api *courseApi) contents(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	sections, err := api.deps.CourseSvc.Contents(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "fetching course contents")
	}
	return ctx.JSON(http.StatusOK, sections)
}

// pathway returns the synthetic day/hour learning pathway for a course,
// with per-module presentation styles attached.
func (api *courseApi) pathway(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	sections, err := api.deps.CourseSvc.Contents(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "fetching course contents")
	}

	days := course.OrganizeByDay(sections)
	styles := make(map[string]course.ModuleStyle)
	for _, sec := range sections {
		for _, mod := range sec.Modules {
			if _, ok := styles[mod.ModName]; !ok {
				styles[mod.ModName] = course.ClassifyModule(mod.ModName, mod.Name)
			}
		}
	}
	return ctx.JSON(http.StatusOK, PathwayResponse{Days: days, Styles: styles})
}

func (api *courseApi) enrollments(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	enrollments, err := api.deps.CourseSvc.EnrolledUsers(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "fetching enrollments")
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *courseApi) assignments(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.deps.CourseSvc.AssignmentsOf(ctx.Request().Context(), api.courseIDs(ctx)))
}

func (api *courseApi) quizzes(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.deps.CourseSvc.QuizzesOf(ctx.Request().Context(), api.courseIDs(ctx)))
}

func (api *courseApi) forums(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.deps.CourseSvc.ForumsOf(ctx.Request().Context(), api.courseIDs(ctx)))
}

// courseIDs reads the repeated courseid query param; when absent, the whole
// catalog is in scope.
func (api *courseApi) courseIDs(ctx echo.Context) []int {
	var ids []int
	for _, raw := range ctx.QueryParams()["courseid"] {
		if id, err := strconv.Atoi(raw); err == nil {
			ids = append(ids, id)
		}
	}
	if len(ids) > 0 {
		return ids
	}
	for _, c := range api.deps.CourseSvc.Catalog(ctx.Request().Context()) {
		ids = append(ids, c.ID)
	}
	return ids
}

type PathwayResponse struct {
	Days   []course.DayData              `json:"days"`
	Styles map[string]course.ModuleStyle `json:"styles"`
}
