package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/api/http/handlers"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Campaigns      *handlers.CampaignsHandler
	Schedules      *handlers.SchedulesHandler
	Timesheets     *handlers.TimesheetsHandler
	TaskTimesheets *handlers.TaskTimesheetsHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Post("/logout", cfg.Auth.Logout)
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/change-password", cfg.Auth.ChangePassword)

	users := api.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Post("/", auth.RequireAdmin(), cfg.Users.Create)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", auth.RequireAdmin(), cfg.Users.Delete)

	campaigns := api.Group("/campaigns", cfg.AuthMiddleware.Handle)
	campaigns.Get("/", cfg.Campaigns.List)
	campaigns.Get("/:id", cfg.Campaigns.Get)
	campaigns.Post("/", auth.RequireAdmin(), cfg.Campaigns.Create)
	campaigns.Put("/:id", auth.RequireAdmin(), cfg.Campaigns.Update)
	campaigns.Delete("/:id", auth.RequireAdmin(), cfg.Campaigns.Delete)
	campaigns.Get("/:id/members", auth.RequireCampaignLead(), cfg.Campaigns.Members)
	campaigns.Post("/:id/members", auth.RequireAdmin(), cfg.Campaigns.AssignMember)

	schedules := api.Group("/schedules", cfg.AuthMiddleware.Handle)
	schedules.Get("/", cfg.Schedules.List)
	schedules.Get("/:id", cfg.Schedules.Get)
	schedules.Post("/", auth.RequireAdmin(), cfg.Schedules.Create)
	schedules.Put("/:id", auth.RequireAdmin(), cfg.Schedules.Update)
	schedules.Delete("/:id", auth.RequireAdmin(), cfg.Schedules.Delete)

	timesheets := api.Group("/timesheets", cfg.AuthMiddleware.Handle)
	timesheets.Get("/", cfg.Timesheets.List)
	timesheets.Get("/:id", cfg.Timesheets.Get)
	timesheets.Post("/", cfg.Timesheets.Create)
	timesheets.Put("/:id", cfg.Timesheets.Update)
	timesheets.Delete("/:id", cfg.Timesheets.Delete)
	timesheets.Put("/:id/submit", cfg.Timesheets.Submit)
	timesheets.Put("/:id/approve", auth.RequireCampaignLead(), cfg.Timesheets.Approve)
	timesheets.Put("/:id/reject", auth.RequireCampaignLead(), cfg.Timesheets.Reject)

	tasks := api.Group("/task-timesheets", cfg.AuthMiddleware.Handle)
	tasks.Get("/settings", cfg.TaskTimesheets.Settings)
	tasks.Get("/week", cfg.TaskTimesheets.Week)
	tasks.Get("/campaigns/:campaignId/templates", cfg.TaskTimesheets.ListTemplates)
	tasks.Post("/campaigns/:campaignId/templates", auth.RequireAdmin(), cfg.TaskTimesheets.CreateTemplate)
	tasks.Post("/", cfg.TaskTimesheets.Create)
	tasks.Post("/submit", cfg.TaskTimesheets.SubmitWeek)
	tasks.Put("/:id/entries", cfg.TaskTimesheets.SaveEntry)
	tasks.Put("/:id/approve", auth.RequireCampaignLead(), cfg.TaskTimesheets.Approve)
	tasks.Put("/:id/reject", auth.RequireCampaignLead(), cfg.TaskTimesheets.Reject)
	tasks.Post("/:id/billable-hours", auth.RequireCampaignLead(), cfg.TaskTimesheets.BillableHours)

	reports := api.Group("/reports", cfg.AuthMiddleware.Handle)
	reports.Get("/campaign-summary", auth.RequireCampaignLead(), cfg.Reports.CampaignSummary)
	reports.Get("/organization-summary", auth.RequireAdmin(), cfg.Reports.OrganizationSummary)
	reports.Get("/user-timesheets", cfg.Reports.UserTimesheets)
}
