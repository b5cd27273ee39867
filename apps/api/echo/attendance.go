package echoapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/attendance"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, jwt, sess echo.MiddlewareFunc, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance", jwt, sess)
	ag.POST("", api.open)
	ag.GET("/:id", api.retrieve)
	ag.POST("/:id/submit", api.submit)
	ag.POST("/:id/review", api.review)
	ag.POST("/:id/finalize", api.finalize)
	ag.POST("/:id/reopen", api.reopen)
}

// Handlers

func (api *attendanceApi) open(ctx echo.Context) error {
	var data attendance.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.Open(ctx.Request().Context(), actor, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	rec, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *attendanceApi) submit(ctx echo.Context) error {
	return api.transition(ctx, api.svc.Submit)
}

func (api *attendanceApi) review(ctx echo.Context) error {
	return api.transition(ctx, api.svc.Review)
}

func (api *attendanceApi) finalize(ctx echo.Context) error {
	return api.transition(ctx, api.svc.Finalize)
}

func (api *attendanceApi) reopen(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	var data ReopenRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReopenRequest")
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.Reopen(ctx.Request().Context(), actor, id, data.Reason)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

type transitionFunc func(ctx context.Context, actor attendance.Actor, id uuid.UUID) (attendance.Record, error)

func (api *attendanceApi) transition(ctx echo.Context, fn transitionFunc) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	rec, err := fn(ctx.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}
