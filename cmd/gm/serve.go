package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gomedic/internal/app"
	"gomedic/internal/server"
	"gomedic/internal/storage"
	gomedicsdk "gomedic/sdk/go"
)

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a read-only view of the record over HTTP",
		Long: `Serves persons, activities, the event log and a change stream. The record is reloaded
whenever another gm process saves it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(ctx context.Context, rt *app.Runtime) error {
				if addr == "" {
					addr = rt.Config.Server.Addr
				}
				if basePath == "" {
					basePath = rt.Config.Server.BasePath
				}
				feed := server.NewFeed(rt.Engine.Store.Projection())
				feed.Attach(ctx, rt.Engine.Store)
				if w, ok := rt.Storage.(storage.Watcher); ok {
					changes, err := w.Watch(ctx)
					if err != nil {
						return err
					}
					go reloadOnChange(ctx, rt, changes)
				}

				handler, err := server.New(server.Config{Feed: feed, Repo: rt.Repo, Metrics: rt.Metrics, BasePath: basePath})
				if err != nil {
					return err
				}
				srv := &http.Server{Addr: addr, Handler: handler}
				go func() {
					<-ctx.Done()
					sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					srv.Shutdown(sctx)
				}()
				fmt.Printf("Serving GoMedic API on http://%s%s (OpenAPI at %s/openapi.json, Swagger UI at /docs, metrics at /metrics)\n", addr, basePath, basePath)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "API base path (default from config)")
	return cmd
}

// reloadOnChange is the only writer of the store while serving.
func reloadOnChange(ctx context.Context, rt *app.Runtime, changes <-chan struct{}) {
	for range changes {
		if err := rt.Engine.Load(ctx); err != nil {
			rt.Logger.Warn("reload failed, keeping current record", "error", err)
			continue
		}
		rt.Logger.Info("record reloaded",
			"persons", rt.Engine.Store.Persons().Len(),
			"activities", rt.Engine.Store.Activities().Len(),
			"version", rt.Engine.Store.Version())
	}
}

func peekCmd() *cobra.Command {
	var url string
	var watch bool
	cmd := &cobra.Command{
		Use:   "peek",
		Short: "Show the record as served by a running gm serve",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				cfg, err := loadConfig(viper.GetString("workspace"))
				if err != nil {
					return err
				}
				url = "http://" + cfg.Server.Addr
			}
			client := gomedicsdk.New(url)
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if watch {
				return client.Watch(ctx, func(c gomedicsdk.Change) error {
					if viper.GetBool("json") {
						return writeJSON(out, c)
					}
					fmt.Fprintf(out, "version %d\n", c.Version)
					renderPersons(out, sdkPersons(c.Persons))
					renderActivities(out, sdkActivities(c.Activities))
					return nil
				})
			}
			st, err := client.Status(ctx)
			if err != nil {
				return err
			}
			persons, err := client.Persons(ctx, "", "")
			if err != nil {
				return err
			}
			activities, err := client.Activities(ctx, "start")
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(gomedicsdk.Change{Version: st.Version, Persons: persons, Activities: activities})
			}
			fmt.Fprintf(out, "version %d: %d persons, %d activities\n", st.Version, st.Persons, st.Activities)
			renderPersons(out, sdkPersons(persons))
			renderActivities(out, sdkActivities(activities))
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "server URL (default from server.addr)")
	cmd.Flags().BoolVar(&watch, "watch", false, "follow the change stream")
	return cmd
}
