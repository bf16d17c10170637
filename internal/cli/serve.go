package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"outliner-cli/internal/webtui"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive outliner in a browser (xterm.js over a websocket)",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The spawned TUI gets an absolute scene path so it does not depend on its cwd.
			scene, err := filepath.Abs(app.cfg.Scene)
			if err != nil {
				return writeErr(cmd, err)
			}
			tuiArgs := []string{"--scene", scene}
			if app.cfg.File != "" {
				tuiArgs = append(tuiArgs, "--config", app.cfg.File)
			}

			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:   addr,
				Args:   tuiArgs,
				Scene:  filepath.Base(scene),
				Logger: app.logger,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			hs := &http.Server{
				Addr:              srv.Addr(),
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = hs.Shutdown(shutdownCtx)
			}()

			fmt.Fprintf(cmd.ErrOrStderr(), "outliner: serving http://%s/terminal\n", srv.Addr())
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("OUTLINER_ADDR", "127.0.0.1:3334"), "Listen address")
	return cmd
}
