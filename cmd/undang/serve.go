package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/undangapp/undang/internal/auth"
	"github.com/undangapp/undang/internal/config"
	"github.com/undangapp/undang/internal/db"
	"github.com/undangapp/undang/internal/handler"
	"github.com/undangapp/undang/internal/metrics"
	"github.com/undangapp/undang/internal/notify"
	"github.com/undangapp/undang/internal/slug"
	"github.com/undangapp/undang/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			sessionManager := auth.NewSessionManager(database, cfg.DB.Driver, cfg.SessionLifetime, cfg.InsecureCookies)

			ctx := context.Background()
			oidcProvider, err := auth.NewProvider(ctx, cfg)
			if err != nil {
				return err
			}

			userStore := store.NewUserStore(database)
			invitationStore := store.NewInvitationStore(database)
			rsvpStore := store.NewRSVPStore(database)
			guestbookStore := store.NewGuestbookStore(database)
			tokenStore := auth.NewSQLTokenStore(database)

			validator := slug.NewValidator(slug.ReservedWords)
			allocator := slug.NewAllocator(validator, invitationStore)
			allocator.AssumeTakenOnError = cfg.Slug.AssumeTakenOnError

			mailer, err := notify.New(cfg)
			if err != nil {
				return err
			}
			var notifyCh chan notify.Message
			if mailer != nil {
				notifyCh = make(chan notify.Message, 256)
				go runNotifyWorker(ctx, notifyCh, mailer)
			}

			go updateGauges(ctx, invitationStore, userStore)

			authHandlers := auth.NewHandlers(oidcProvider, sessionManager, userStore, cfg.AdminEmail)
			authMiddleware := auth.NewMiddleware(sessionManager, userStore)

			router := handler.NewRouter(handler.Deps{
				SessionManager:  sessionManager,
				AuthHandlers:    authHandlers,
				AuthMiddleware:  authMiddleware,
				InvitationStore: invitationStore,
				RSVPStore:       rsvpStore,
				GuestbookStore:  guestbookStore,
				UserStore:       userStore,
				TokenStore:      tokenStore,
				Allocator:       allocator,
				Validator:       validator,
				NotifyCh:        notifyCh,
				BaseURL:         cfg.BaseURL,
			})

			log.Printf("listening on %s", cfg.HTTP.Addr)
			return http.ListenAndServe(cfg.HTTP.Addr, router)
		},
	}
}

// runNotifyWorker reads queued notification messages and delivers them.
// On context cancellation it drains remaining messages before returning.
func runNotifyWorker(ctx context.Context, ch <-chan notify.Message, mailer notify.Mailer) {
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := mailer.Send(ctx, msg); err != nil {
				log.Printf("notify send error: %v", err)
				metrics.NotifyErrorsTotal.Inc()
			}
		case <-ctx.Done():
			// Drain remaining messages.
			for {
				select {
				case msg, ok := <-ch:
					if !ok {
						return
					}
					if err := mailer.Send(context.Background(), msg); err != nil {
						log.Printf("notify drain error: %v", err)
						metrics.NotifyErrorsTotal.Inc()
					}
				default:
					return
				}
			}
		}
	}
}

// updateGauges refreshes the invitation and user totals once a minute.
func updateGauges(ctx context.Context, invitations *store.InvitationStore, users *store.UserStore) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		if n, err := invitations.Count(ctx); err == nil {
			metrics.InvitationsTotal.Set(float64(n))
		}
		if n, err := users.Count(ctx); err == nil {
			metrics.UsersTotal.Set(float64(n))
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
