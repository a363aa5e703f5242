package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/classroom/internal/domain/assignment"
	"github.com/geocoder89/classroom/internal/domain/user"
	"github.com/geocoder89/classroom/internal/http/middlewares"
	"github.com/geocoder89/classroom/internal/http/views"
	"github.com/gin-gonic/gin"
)

// storeTimeout bounds every store call made while serving a request.
const storeTimeout = 3 * time.Second

type AssignmentLister interface {
	ListAll(ctx context.Context) ([]assignment.Assignment, error)
	ListByOwner(ctx context.Context, owner string) ([]assignment.Assignment, error)
}

type HomeView struct {
	CurrentUser    *user.User
	Assignments    []assignment.Assignment
	AllAssignments []assignment.Assignment
	Errors         string
}

type DetailView struct {
	CurrentUser *user.User
	Assignment  assignment.Assignment
	CanGrade    bool
}

type ErrorView struct {
	CurrentUser *user.User
	Message     string
	RequestID   string
}

// Pages renders the shared views. Every handler that re-renders the home
// page on a form error goes through it so the page always has its lists.
type Pages struct {
	assignments AssignmentLister
	log         *slog.Logger
}

func NewPages(assignments AssignmentLister, log *slog.Logger) *Pages {
	return &Pages{assignments: assignments, log: log}
}

func (p *Pages) Home(ctx *gin.Context, status int, errMsg string) {
	view := HomeView{Errors: errMsg}

	cctx, cancel := storeCtx(ctx)
	defer cancel()

	if u, ok := middlewares.CurrentUser(ctx); ok {
		view.CurrentUser = &u

		own, err := p.assignments.ListByOwner(cctx, u.ID)
		if err != nil {
			p.log.ErrorContext(cctx, "load own assignments failed", "user_id", u.ID, "err", err)
			if view.Errors == "" {
				view.Errors = "Error loading task."
			}
		}
		view.Assignments = own
	}

	all, err := p.assignments.ListAll(cctx)
	if err != nil {
		p.log.ErrorContext(cctx, "load all assignments failed", "err", err)
	}
	view.AllAssignments = all

	ctx.HTML(status, views.Index, view)
}

func (p *Pages) Error(ctx *gin.Context, status int, message string) {
	view := ErrorView{
		Message:   message,
		RequestID: middlewares.RequestIDFrom(ctx),
	}
	if u, ok := middlewares.CurrentUser(ctx); ok {
		view.CurrentUser = &u
	}

	ctx.HTML(status, views.Error, view)
}

func (p *Pages) Internal(ctx *gin.Context, message string) {
	p.Error(ctx, http.StatusInternalServerError, message)
}

func redirectHome(ctx *gin.Context) {
	ctx.Redirect(http.StatusFound, "/")
}

// storeCtx follows the client: a disconnect cancels the store call.
func storeCtx(ctx *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request.Context(), storeTimeout)
}
