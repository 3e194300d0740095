package main

import (
	"fmt"
	"os"

	"github.com/panjf2000/gnet/v2"

	"github.com/jufman/basiclogger"
	"github.com/jufman/basiclogger/compat"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
	logger *basiclogger.Logger
}

func (es *echoServer) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	es.logger.Logf(basiclogger.LevelInfo, "connection opened from %s", c.RemoteAddr())
	return nil, gnet.None
}

func (es *echoServer) OnClose(c gnet.Conn, err error) gnet.Action {
	if err != nil {
		es.logger.Logf(basiclogger.LevelError, "connection from %s closed: %v", c.RemoteAddr(), err)
	}
	return gnet.None
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	// Settings are read from LogSettings.json next to the binary
	logger := basiclogger.New()
	if err := logger.Load(""); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Unload()

	gnetAdapter := compat.NewGnetAdapter(logger, compat.WithFatalHandler(func(msg string) {
		_ = logger.Unload()
		os.Exit(1)
	}))

	// Configure gnet server with the logger
	err := gnet.Run(
		&echoServer{logger: logger},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		logger.Critical("gnet server stopped:", err)
	}
}
