package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/arkiflo/arkiflo/modules/notification/domain/entities/notification"
	"github.com/arkiflo/arkiflo/modules/notification/services"
	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/httpapi"
	"github.com/arkiflo/arkiflo/pkg/middleware"
	"github.com/arkiflo/arkiflo/pkg/shared"
)

type NotificationView struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func toNotificationView(n *notification.Notification) NotificationView {
	return NotificationView{
		ID:        n.ID().String(),
		Kind:      string(n.Kind()),
		Message:   n.Message(),
		Read:      n.Read(),
		CreatedAt: n.CreatedAt(),
	}
}

func NewNotificationsController(app application.Application) application.Controller {
	return &NotificationsController{
		notificationService: app.Service(services.NotificationService{}).(*services.NotificationService),
	}
}

type NotificationsController struct {
	notificationService *services.NotificationService
}

func (c *NotificationsController) Key() string {
	return "/api/notifications"
}

func (c *NotificationsController) Register(r *mux.Router) {
	router := r.PathPrefix("/api/notifications").Subrouter()
	router.Use(middleware.RequireAuth(), middleware.WithTransaction())
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/unread-count", c.UnreadCount).Methods(http.MethodGet)
	router.HandleFunc("/read-all", c.MarkAllRead).Methods(http.MethodPost)
	router.HandleFunc("/{id}/read", c.MarkRead).Methods(http.MethodPost)
}

func (c *NotificationsController) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := shared.Pagination(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := c.notificationService.My(r.Context(), limit, offset, unreadOnly)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	views := make([]NotificationView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, toNotificationView(n))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": views})
}

// UnreadCount backs the bell badge. Clients poll it on a fixed interval.
func (c *NotificationsController) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := c.notificationService.UnreadCount(r.Context())
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"count": count})
}

func (c *NotificationsController) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	updated, err := c.notificationService.MarkRead(r.Context(), id)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toNotificationView(updated))
}

func (c *NotificationsController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := c.notificationService.MarkAllRead(r.Context()); err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"read": "all"})
}
