package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/classroom/internal/domain/assignment"
	"github.com/geocoder89/classroom/internal/domain/user"
	"github.com/geocoder89/classroom/internal/http/middlewares"
	"github.com/geocoder89/classroom/internal/http/views"
	"github.com/geocoder89/classroom/internal/observability"
	"github.com/geocoder89/classroom/internal/service"
	"github.com/gin-gonic/gin"
)

type AssignmentManager interface {
	Submit(ctx context.Context, owner string, req assignment.SubmitRequest) (assignment.Assignment, error)
	FindByID(ctx context.Context, id string) (assignment.Assignment, error)
	Delete(ctx context.Context, id string) error
	Grade(ctx context.Context, id, grade string, requester user.User) (assignment.Assignment, error)
}

type AssignmentsHandler struct {
	store AssignmentManager
	pages *Pages
	prom  *observability.Prom
	log   *slog.Logger
}

func NewAssignmentsHandler(store AssignmentManager, pages *Pages, prom *observability.Prom, log *slog.Logger) *AssignmentsHandler {
	return &AssignmentsHandler{store: store, pages: pages, prom: prom, log: log}
}

type GradeRequest struct {
	Grade string `form:"grade"`
}

// Every route here sits behind RequireAuth, so the current user is present.

func (h *AssignmentsHandler) Submit(ctx *gin.Context) {
	u, _ := middlewares.CurrentUser(ctx)

	var req assignment.SubmitRequest

	if err := BindForm(ctx, &req); err != nil {
		h.pages.Home(ctx, http.StatusOK, formMessage(err))
		return
	}

	cctx, cancel := storeCtx(ctx)
	defer cancel()

	a, err := h.store.Submit(cctx, u.ID, req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.prom.Assignment("submit", "invalid")
			h.pages.Home(ctx, http.StatusOK, formMessage(err))
			return
		}

		h.prom.Assignment("submit", "error")
		h.log.ErrorContext(cctx, "submit assignment failed", "user_id", u.ID, "err", err)
		h.pages.Home(ctx, http.StatusInternalServerError, "Error saving assignment to the database.")
		return
	}

	h.prom.Assignment("submit", "ok")
	h.log.InfoContext(cctx, "assignment submitted", "assignment_id", a.ID, "user_id", u.ID)
	redirectHome(ctx)
}

func (h *AssignmentsHandler) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := storeCtx(ctx)
	defer cancel()

	if err := h.store.Delete(cctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.prom.Assignment("delete", "not_found")
			h.log.InfoContext(cctx, "delete: assignment not found", "assignment_id", id)
		} else {
			h.prom.Assignment("delete", "error")
			h.log.ErrorContext(cctx, "delete assignment failed", "assignment_id", id, "err", err)
		}
		redirectHome(ctx)
		return
	}

	h.prom.Assignment("delete", "ok")
	redirectHome(ctx)
}

func (h *AssignmentsHandler) Detail(ctx *gin.Context) {
	u, _ := middlewares.CurrentUser(ctx)
	id := ctx.Param("id")

	cctx, cancel := storeCtx(ctx)
	defer cancel()

	a, err := h.store.FindByID(cctx, id)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			h.log.ErrorContext(cctx, "load assignment failed", "assignment_id", id, "err", err)
		}
		redirectHome(ctx)
		return
	}

	ctx.HTML(http.StatusOK, views.Detail, DetailView{
		CurrentUser: &u,
		Assignment:  a,
		CanGrade:    u.IsAdmin(),
	})
}

func (h *AssignmentsHandler) Grade(ctx *gin.Context) {
	u, _ := middlewares.CurrentUser(ctx)
	id := ctx.Param("id")

	var req GradeRequest

	if err := BindForm(ctx, &req); err != nil {
		redirectHome(ctx)
		return
	}

	cctx, cancel := storeCtx(ctx)
	defer cancel()

	_, err := h.store.Grade(cctx, id, req.Grade, u)

	var verr *service.ValidationError

	switch {
	case err == nil:
		h.prom.Assignment("grade", "ok")
		h.log.InfoContext(cctx, "assignment graded", "assignment_id", id, "grader_id", u.ID)
	case errors.Is(err, service.ErrPermission):
		h.prom.Assignment("grade", "forbidden")
		h.log.InfoContext(cctx, "grade refused for non-admin", "assignment_id", id, "user_id", u.ID)
	case errors.Is(err, service.ErrNotFound):
		h.prom.Assignment("grade", "not_found")
		h.log.InfoContext(cctx, "grade: assignment not found", "assignment_id", id)
	case errors.As(err, &verr):
		h.prom.Assignment("grade", "invalid")
		h.log.InfoContext(cctx, "grade rejected", "assignment_id", id, "err", err)
	default:
		h.prom.Assignment("grade", "error")
		h.log.ErrorContext(cctx, "grade assignment failed", "assignment_id", id, "err", err)
	}

	redirectHome(ctx)
}
