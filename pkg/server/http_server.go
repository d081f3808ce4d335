package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/configuration"
	"github.com/arkiflo/arkiflo/pkg/metrics"
	"github.com/arkiflo/arkiflo/pkg/middleware"
	"github.com/arkiflo/arkiflo/pkg/sidebar"
)

type Options struct {
	App             application.Application
	Logger          *logrus.Logger
	SidebarStore    sidebar.Store
	SessionResolver middleware.SessionResolver
}

// New assembles the router: global middleware, then every registered
// controller, then the ops endpoints.
func New(opts *Options) *HTTPServer {
	conf := configuration.Use()
	r := mux.NewRouter()

	r.Use(
		middleware.RateLimit(),
		middleware.WithLogger(opts.Logger),
		middleware.WithPool(opts.App.DB()),
		middleware.Authorize(opts.SessionResolver),
		middleware.NavItems(opts.SidebarStore),
	)

	for _, controller := range opts.App.Controllers() {
		controller.Register(r)
		opts.Logger.Debugf("registered controller %s", controller.Key())
	}

	if conf.Prometheus.Enabled {
		metrics.NewPrometheusController(conf.Prometheus.Path).Register(r)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	return &HTTPServer{
		log: opts.Logger,
		srv: &http.Server{
			Addr:              conf.SocketAddress,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

type HTTPServer struct {
	log *logrus.Logger
	srv *http.Server
}

func (s *HTTPServer) Start() error {
	s.log.Infof("listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
