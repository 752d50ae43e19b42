// Package main book-worm-desk API.
//
// @title           book-worm-desk API
// @version         1.0
// @description     University library service (catalog, members, circulation, admin dashboard).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/spoorthi4230-pixel/book-worm-desk/app/echoServer"
	authctrl "github.com/spoorthi4230-pixel/book-worm-desk/app/echoServer/controller/auth"
	bookctrl "github.com/spoorthi4230-pixel/book-worm-desk/app/echoServer/controller/book"
	circctrl "github.com/spoorthi4230-pixel/book-worm-desk/app/echoServer/controller/circulation"
	reportctrl "github.com/spoorthi4230-pixel/book-worm-desk/app/echoServer/controller/report"
	userctrl "github.com/spoorthi4230-pixel/book-worm-desk/app/echoServer/controller/user"
	"github.com/spoorthi4230-pixel/book-worm-desk/app/echoServer/validation"
	"github.com/spoorthi4230-pixel/book-worm-desk/config"
	authrepo "github.com/spoorthi4230-pixel/book-worm-desk/repository/auth"
	bookrepo "github.com/spoorthi4230-pixel/book-worm-desk/repository/book"
	"github.com/spoorthi4230-pixel/book-worm-desk/repository/docstore"
	reportrepo "github.com/spoorthi4230-pixel/book-worm-desk/repository/report"
	txnrepo "github.com/spoorthi4230-pixel/book-worm-desk/repository/txn"
	userrepo "github.com/spoorthi4230-pixel/book-worm-desk/repository/user"
	authsvc "github.com/spoorthi4230-pixel/book-worm-desk/service/auth"
	booksvc "github.com/spoorthi4230-pixel/book-worm-desk/service/book"
	"github.com/spoorthi4230-pixel/book-worm-desk/service/catalog"
	circsvc "github.com/spoorthi4230-pixel/book-worm-desk/service/circulation"
	profilesvc "github.com/spoorthi4230-pixel/book-worm-desk/service/profile"
	reportsvc "github.com/spoorthi4230-pixel/book-worm-desk/service/report"
	"github.com/spoorthi4230-pixel/book-worm-desk/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Error("schema migrate failed", "err", err)
		os.Exit(1)
	}

	// repos
	ar := authrepo.New(db)
	br := bookrepo.New(db)
	ur := userrepo.New(db)
	tr := txnrepo.New(db)
	rr := reportrepo.New(db)
	docs := docstore.NewHTTP(cfg.DocStoreURL, cfg.DocStoreKey)

	// services
	as := authsvc.New(db.Pool, ar, ur, cfg.JWTSecret)
	cat := catalog.New(br, ur)
	bs := booksvc.New(db.Pool, br, tr)
	circ := circsvc.New(db.Pool, cat, br, tr)
	ps := profilesvc.New(ur, docs)
	rs := reportsvc.New(rr, tr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	circC := &circctrl.Controller{Svc: circ, Cat: cat, V: v, Log: log}
	userC := &userctrl.Controller{Svc: ps, V: v, Log: log}
	reportC := &reportctrl.Controller{Svc: rs, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:        authC,
		Book:        bookC,
		Circulation: circC,
		User:        userC,
		Report:      reportC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
