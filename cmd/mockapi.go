package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var (
	mockAPIPort int
	mockAPIDir  string
)

// mockAPICmd serves the three fixed documents locally so development does
// not depend on the hosted mock endpoints. Point the upstream URLs in
// config.yml at this server.
var mockAPICmd = &cobra.Command{
	Use:   "mock-api",
	Short: "Serve the mock credential and user documents",
	Run: func(cmd *cobra.Command, args []string) {
		router := chi.NewRouter()

		serveDoc := func(name string) http.HandlerFunc {
			path := filepath.Join(mockAPIDir, name)
			return func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				http.ServeFile(w, r, path)
			}
		}

		router.Get("/login", serveDoc("login.json"))
		router.Get("/users", serveDoc("users.json"))
		router.Get("/user-details", serveDoc("user-details.json"))

		addr := fmt.Sprintf(":%d", mockAPIPort)
		slog.Info("mock document server listening", "address", addr, "dir", mockAPIDir)
		if err := http.ListenAndServe(addr, router); err != nil {
			slog.Error("mock document server failed", "error", err)
		}
	},
}
