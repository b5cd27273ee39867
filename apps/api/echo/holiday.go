package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/holiday"
	"github.com/darasahq/darasa/core/role"
)

type holidayApi struct {
	svc *holiday.Service
}

func registerHolidayAPI(g *echo.Group, jwt, sess echo.MiddlewareFunc, svc *holiday.Service) {
	api := holidayApi{svc: svc}

	hg := g.Group("/levels/:levelID/holidays", jwt, sess)
	hg.GET("", api.list, capabilityMiddleware(role.CanViewHolidays))
	hg.POST("", api.create, capabilityMiddleware(role.CanManageHolidays))
}

// Handlers

func (api *holidayApi) list(ctx echo.Context) error {
	levelID, err := strconv.Atoi(ctx.Param("levelID"))
	if err != nil {
		return errHttpNotFound
	}
	infos, err := api.svc.List(ctx.Request().Context(), levelID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, infos)
}

func (api *holidayApi) create(ctx echo.Context) error {
	levelID, err := strconv.Atoi(ctx.Param("levelID"))
	if err != nil {
		return errHttpNotFound
	}
	var data holiday.NewHoliday
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHoliday")
	}
	data.LevelID = levelID

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	hol, err := api.svc.Register(ctx.Request().Context(), claims.Username, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, hol)
}
