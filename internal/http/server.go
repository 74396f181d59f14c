package http

import (
	"context"
	stdhttp "net/http"
	"time"
)

// NewServer crea el *http.Server con los timeouts del config aplicados.
func NewServer(addr string, handler stdhttp.Handler, readTimeout, writeTimeout time.Duration) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
}

// Shutdown drena conexiones en curso con el deadline dado.
func Shutdown(srv *stdhttp.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
