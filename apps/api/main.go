package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	echoapi "github.com/darasahq/darasa/apps/api/echo"
	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/attendance"
	"github.com/darasahq/darasa/core/holiday"
	"github.com/darasahq/darasa/core/session"
	"github.com/darasahq/darasa/core/user"
	logsvc "github.com/darasahq/darasa/services/logger"
	notifsvc "github.com/darasahq/darasa/services/notification"
	"github.com/darasahq/darasa/storage/database"
	dummydb "github.com/darasahq/darasa/storage/database/dummy"
)

func main() {
	conf := core.NewConfig()
	std := log.New(os.Stdout, conf.AppName+" : ", log.LstdFlags|log.Lshortfile)

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// set up repositories
	var (
		usrRepo user.Repository
		attRepo attendance.Repository
		holRepo holiday.Repository
	)
	closeDB := func() {}
	if conf.Debug {
		db, err := dummydb.Open()
		errAndDie(logger, err)
		usrRepo = dummydb.NewUserRepository(db)
		attRepo = dummydb.NewAttendanceRepository(db)
		holRepo = dummydb.NewHolidayRepository(db)
	} else {
		db, err := database.Open(conf)
		errAndDie(logger, err)
		errAndDie(logger, database.Ping(db))
		errAndDie(logger, database.Migrate(db))
		usrRepo = database.NewUserRepository(db)
		attRepo = database.NewAttendanceRepository(db)
		holRepo = database.NewHolidayRepository(db)
		closeDB = func() { _ = db.Close() }
	}
	defer closeDB()

	// set up services
	var notifSvc core.NotificationService
	if conf.Debug {
		notifSvc = notifsvc.NewConsoleService(logger)
	} else {
		notifSvc = notifsvc.NewSendgridService(conf, logger)
	}
	usrSvc := user.NewService(usrRepo)
	holSvc := holiday.NewService(holRepo)
	attSvc := attendance.NewService(attRepo, holSvc, notifSvc)

	// session watchdog; stops with the process
	sessions := session.NewManager(conf.SessionIdleTimeout, loginRedirector{logger: logger})
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go sessions.RunSweeper(sweepCtx, time.Minute)

	app := echoapi.NewServer(&echoapi.Options{
		Addr:          conf.Server.Host,
		Conf:          conf,
		Logger:        logger,
		UserSvc:       usrSvc,
		AttendanceSvc: attSvc,
		HolidaySvc:    holSvc,
		Sessions:      sessions,
	})

	go func() {
		logger.Info("API server listening on " + conf.Server.Host)
		app.Start()
	}()

	// graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	<-shutdown

	stopSweeper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		logger.Error("stopping server", err)
	}
}

// loginRedirector is the API-side navigator: the actual navigation happens on
// the client, which gets the redirect on its next request against the wiped
// session. Here we only record that the session ended.
type loginRedirector struct {
	logger core.Logger
}

func (r loginRedirector) RedirectToLogin(sessionID uuid.UUID) {
	r.logger.Info("session ended, redirecting to login", map[string]interface{}{"session_id": sessionID.String()})
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
