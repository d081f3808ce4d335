package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/arkiflo/arkiflo/modules/core/services"
	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/configuration"
	"github.com/arkiflo/arkiflo/pkg/httpapi"
	"github.com/arkiflo/arkiflo/pkg/middleware"
	"github.com/arkiflo/arkiflo/pkg/nav"
)

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func NewAuthController(app application.Application) application.Controller {
	return &AuthController{
		authService: app.Service(services.AuthService{}).(*services.AuthService),
	}
}

type AuthController struct {
	authService *services.AuthService
}

func (c *AuthController) Key() string {
	return "/api/auth"
}

func (c *AuthController) Register(r *mux.Router) {
	router := r.PathPrefix("/api/auth").Subrouter()
	router.Use(middleware.WithTransaction())
	router.HandleFunc("/login", c.Login).Methods(http.MethodPost)
	router.HandleFunc("/logout", c.Logout).Methods(http.MethodPost)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}

	u, sess, err := c.authService.Login(r.Context(), dto.Email, dto.Password)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}

	conf := configuration.Use()
	http.SetCookie(w, &http.Cookie{
		Name:     conf.SidCookieKey,
		Value:    sess.Token,
		Expires:  sess.ExpiresAt,
		Path:     "/",
		HttpOnly: true,
		Secure:   conf.GoAppEnvironment == configuration.Production,
		SameSite: http.SameSiteLaxMode,
	})

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"user":       toUserView(u),
		"navigation": nav.Resolve(u.Role(), u.SeniorManagerView()),
		"home":       nav.Home(u.Role()),
	})
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	cookie, err := r.Cookie(conf.SidCookieKey)
	if err == nil && cookie.Value != "" {
		if err := c.authService.Logout(r.Context(), cookie.Value); err != nil {
			composables.UseLogger(r.Context()).WithError(err).Warn("logout")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     conf.SidCookieKey,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
	})
	httpapi.WriteJSON(w, http.StatusNoContent, nil)
}
