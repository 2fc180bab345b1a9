package handler

import (
	"net/http"
	"sync"

	"smashroom/config"
	"smashroom/di"
	"smashroom/shared/logger"
)

var (
	once    sync.Once
	service *di.Service
)

// Handler is the serverless entrypoint. The dependency graph is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)

		logger.SetLogLevel(cfg)

		service = di.InitializeService()
	})

	service.HTTP.ServeHTTP(w, r)
}
