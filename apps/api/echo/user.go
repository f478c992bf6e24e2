package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/somahub/portal/core"
	"github.com/somahub/portal/core/user"
)

type userApi struct {
	deps ServerDeps
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := userApi{deps: deps}

	// un-authed endpoints
	ag := g.Group("/auth")
	ag.POST("/login", api.login)

	// authed endpoints
	tg := ag.Group("", jwt)
	tg.POST("/token-refresh", api.refreshToken)

	mg := g.Group("/me", jwt)
	mg.GET("", api.me)
	mg.PUT("", api.updateMe)
	mg.GET("/notifications", api.myNotifications)

	ug := g.Group("/users", jwt)
	ug.GET("", api.query, managerMiddleware())

	cg := g.Group("/companies", jwt)
	cg.GET("", api.companies, managerMiddleware())
	cg.GET("/:id/users", api.companyUsers, managerMiddleware())
	cg.GET("/:id/logo", api.companyLogo)
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := authenticate(
		ctx.Request().Context(), data.Username, data.Password,
		api.deps.Gateway, api.deps.UserSvc, api.deps.Conf,
	)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(api.deps.Conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Role: claims.Role})
}

func (api *userApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.deps.UserSvc, api.deps.Conf)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *userApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	usr, err := api.deps.UserSvc.GetByUsername(ctx.Request().Context(), claims.Username)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding user by username")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) updateMe(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data user.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	usr, err := api.deps.UserSvc.Update(ctx.Request().Context(), claims.UserID(), data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) myNotifications(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return ctx.JSON(http.StatusOK, api.deps.EventSvc.Notifications(ctx.Request().Context(), claims.UserID()))
}

func (api *userApi) query(ctx echo.Context) error {
	users := api.deps.UserSvc.All(ctx.Request().Context())
	if role := core.CleanString(ctx.QueryParam("role"), true /* lower */); role != "" {
		filtered := make([]user.User, 0, len(users))
		for _, u := range users {
			if string(u.Role) == role {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) companies(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.deps.UserSvc.Companies(ctx.Request().Context()))
}

func (api *userApi) companyUsers(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, api.deps.UserSvc.CompanyUsers(ctx.Request().Context(), id))
}

func (api *userApi) companyLogo(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, echo.Map{"url": api.deps.UserSvc.CompanyLogo(ctx.Request().Context(), id)})
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required,username_"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string    `json:"token"`
		Role  user.Role `json:"role,omitempty"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}
