package main

import (
	"net/http"

	"musicman/internal/app/albums"
	"musicman/internal/app/songs"
	"musicman/internal/app/tracklist"
	"musicman/internal/app/users"
	"musicman/internal/auth"
	"musicman/internal/http/middleware"
	"musicman/internal/httpapi"
	"musicman/internal/store"
	"musicman/internal/web"
)

func newHTTPHandler(cfg Config, dataStore *store.Store) (http.Handler, error) {
	tokens := auth.NewTokenManager(cfg.JWTSecret)

	userSvc := users.New(dataStore, tokens)
	albumSvc := albums.New(dataStore)
	songSvc := songs.New(dataStore)
	tracklistSvc := tracklist.New(dataStore)

	api := httpapi.New(userSvc, albumSvc, songSvc, tracklistSvc, cfg.MediaBaseURL)

	renderer, err := web.NewTemplateRenderer()
	if err != nil {
		return nil, err
	}
	site := web.New(userSvc, albumSvc, songSvc, tracklistSvc, renderer)

	apiRoutes := api.Routes()

	root := http.NewServeMux()
	root.Handle("/api/", apiRoutes)
	root.Handle("/health", apiRoutes)
	root.Handle("/", site.Routes())

	var handler http.Handler = root
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = middleware.RequestLogging()(handler)
	handler = middleware.Recovery()(handler)
	return handler, nil
}
