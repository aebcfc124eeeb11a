package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/httpapi"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/internal/web"
)

const usage = `usage: taskboard <command> [flags]

commands:
  serve         run the HTTP server (default)
  create-board  register a board: -name
  create-user   register a user: -username -email -first -last -password
  users         list registered users
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := cfg.NewLogger()

	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}
	store := repository.NewStore(db)

	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "serve":
		err = serve(ctx, cfg, log, store)
	case "create-board":
		err = createBoard(ctx, store, args)
	case "create-user":
		err = createUser(ctx, store, args)
	case "users":
		err = listUsers(ctx, store)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func serve(ctx context.Context, cfg config.Config, log *logrus.Logger, store *repository.Store) error {
	if err := cfg.RequireServer(); err != nil {
		return err
	}
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewAuthenticator(store.Users, issuer)
	boardSvc := service.NewBoardService(store.Boards)
	apiTasks := service.NewTaskService(store, cfg.API.Policy())
	webTasks := service.NewTaskService(store, cfg.Web.Policy())

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), httpapi.RequestLogger(log), httpapi.CORS())

	httpapi.Register(router, httpapi.NewHandler(apiTasks, boardSvc, authenticator))

	pages := web.NewController(webTasks, boardSvc, authenticator)
	pages.SecureCookies(cfg.CookieSecure)
	web.Register(router, pages)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":            cfg.ListenAddr,
			"api_search":      cfg.API.Search,
			"web_search":      cfg.Web.Search,
			"api_owner_check": cfg.API.Owner,
			"web_owner_check": cfg.Web.Owner,
		}).Info("taskboard server started")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}

func createBoard(ctx context.Context, store *repository.Store, args []string) error {
	fs := flag.NewFlagSet("create-board", flag.ExitOnError)
	name := fs.String("name", "", "board name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	board, err := service.NewBoardService(store.Boards).Create(ctx, *name)
	if err != nil {
		return err
	}
	fmt.Printf("board #%d %s\n", board.ID, board.Name)
	return nil
}

func createUser(ctx context.Context, store *repository.Store, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	var in service.UserInput
	fs.StringVar(&in.Username, "username", "", "login name")
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.FirstName, "first", "", "first name")
	fs.StringVar(&in.LastName, "last", "", "last name")
	fs.StringVar(&in.Password, "password", os.Getenv("TASKBOARD_PASSWORD"), "password (defaults to $TASKBOARD_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := service.NewUserService(store.Users).Register(ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("user %s %s\n", user.ID, user.Username)
	return nil
}

func listUsers(ctx context.Context, store *repository.Store) error {
	users, err := service.NewUserService(store.Users).List(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Printf("%s\t%s\t%s %s\t%s\n", u.ID, u.Username, u.FirstName, u.LastName, u.Email)
	}
	return nil
}
