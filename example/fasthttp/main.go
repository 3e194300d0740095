package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/jufman/basiclogger"
	"github.com/jufman/basiclogger/compat"
)

// Small log intake service:
//
//	POST /log?level=error   body becomes one event
//	POST /dispatch          sends pending alerts now
//	GET  /stats             logger counters as JSON
func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "listen address")
	settingsPath := flag.String("settings", "LogSettings.json", "settings file")
	flag.Parse()

	logger, err := basiclogger.NewBuilder().
		SettingsFile(*settingsPath).
		Observer(basiclogger.NewConsoleObserver(os.Stdout, basiclogger.LevelError)).
		InternalErrorsToStderr(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load logger: %v\n", err)
		os.Exit(1)
	}

	server := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			route(logger, ctx)
		},
		Logger: compat.NewFastHTTPAdapter(logger,
			compat.WithFastHTTPPrefix("intake: "),
			compat.WithLevelDetector(connectionLevel),
		),
		Name:               "basiclogger-intake",
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       5 * time.Second,
		MaxRequestBodySize: 64 << 10,
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		_ = server.Shutdown()
	}()

	logger.Logf(basiclogger.LevelSystem, "Intake listening on %s", *addr)
	if err := server.ListenAndServe(*addr); err != nil {
		logger.Critical("intake stopped:", err)
	}
	_ = logger.Unload()
}

func route(logger *basiclogger.Logger, ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/log":
		if !ctx.IsPost() {
			ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
			return
		}
		level := basiclogger.LevelInfo
		if raw := ctx.QueryArgs().Peek("level"); len(raw) > 0 {
			parsed, err := basiclogger.ParseLevel(string(raw))
			if err != nil {
				ctx.Error(err.Error(), fasthttp.StatusBadRequest)
				return
			}
			level = parsed
		}
		logger.LogEvent(string(ctx.PostBody()), level)
		ctx.SetStatusCode(fasthttp.StatusAccepted)

	case "/dispatch":
		if err := logger.DispatchAlerts(); err != nil {
			ctx.Error(err.Error(), fasthttp.StatusServiceUnavailable)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusNoContent)

	case "/stats":
		body, err := json.Marshal(logger.Stats())
		if err != nil {
			ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
			return
		}
		ctx.SetContentType("application/json")
		ctx.SetBody(body)

	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

// connectionLevel keeps noisy client disconnects out of the alert mail
func connectionLevel(msg string) (basiclogger.Level, bool) {
	if strings.Contains(msg, "connection reset") || strings.Contains(msg, "broken pipe") {
		return basiclogger.LevelInfo, true
	}
	return compat.DetectLevel(msg)
}
