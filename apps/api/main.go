package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/somahub/portal/apps/api/echo"
	"github.com/somahub/portal/core"
	"github.com/somahub/portal/core/competency"
	"github.com/somahub/portal/core/course"
	"github.com/somahub/portal/core/dashboard"
	"github.com/somahub/portal/core/event"
	"github.com/somahub/portal/core/lms"
	"github.com/somahub/portal/core/user"
	logsvc "github.com/somahub/portal/services/logger"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		rollbar := logsvc.NewRollbarLogger(std, conf)
		rollbar.Enable(true)
		logger = rollbar
	}

	gateway := lms.NewClient(conf, logger)
	defaults := course.NewDefaults(conf.MetricsSeed)

	usrSvc := user.NewService(gateway, logger)
	crsSvc := course.NewService(gateway, logger, defaults)
	cmpSvc := competency.NewService(gateway, logger)
	evtSvc := event.NewService(gateway, logger)
	dashSvc := dashboard.NewService(usrSvc, crsSvc, cmpSvc, evtSvc, logger, dashboard.DefaultPolicy(), defaults)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			Gateway:       gateway,
			UserSvc:       usrSvc,
			CourseSvc:     crsSvc,
			CompetencySvc: cmpSvc,
			EventSvc:      evtSvc,
			DashSvc:       dashSvc,
			Validate:      validate,
			Translator:    translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
