package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/Harmony-Global/harmony-admin/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Auth Handler", func() {
	var (
		store   *mockStore
		service *Service
		handler *Handler
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		gw := &mockGateway{document: credentialDocument{
			Email:    "admin@harmony.co",
			Password: "password123",
		}}
		store = newMockStore()
		sessions := NewSessionContext(context.Background(), store, slogger)
		service = NewService(gw, store, sessions, testLoginURL, slogger)
		service.now = func() time.Time { return time.UnixMilli(1700000000000) }
		handler = NewHandler(service)
	})

	postLogin := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		return rec
	}

	Describe("POST /auth/login", func() {
		It("returns the session on valid credentials", func() {
			rec := postLogin(`{"email":"admin@harmony.co","password":"password123"}`)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var result LoginResult
			Expect(json.Unmarshal(rec.Body.Bytes(), &result)).To(Succeed())
			Expect(result.Status).To(BeTrue())
			Expect(result.Data.Token).To(Equal("auth-token-1700000000000"))
		})

		It("returns 401 with the structured result on a mismatch", func() {
			rec := postLogin(`{"email":"admin@harmony.co","password":"wrong"}`)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))

			var result LoginResult
			Expect(json.Unmarshal(rec.Body.Bytes(), &result)).To(Succeed())
			Expect(result.Status).To(BeFalse())
			Expect(result.Message).To(Equal("Invalid email or password"))
		})

		It("rejects a malformed body", func() {
			rec := postLogin(`{not json`)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects missing fields before calling the service", func() {
			rec := postLogin(`{"email":"admin@harmony.co"}`)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			var body map[string]any
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body["message"]).To(Equal("password is required"))
		})
	})

	Describe("POST /auth/logout", func() {
		It("clears the session and returns no content", func() {
			service.Login(context.Background(), LoginDTO{Email: "admin@harmony.co", Password: "password123"})

			req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
			rec := httptest.NewRecorder()
			handler.Logout(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(service.CurrentSession()).To(BeNil())
		})
	})

	Describe("GET /auth/me", func() {
		It("returns the current session when logged in", func() {
			service.Login(context.Background(), LoginDTO{Email: "admin@harmony.co", Password: "password123"})

			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			rec := httptest.NewRecorder()
			handler.Me(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var session Session
			Expect(json.Unmarshal(rec.Body.Bytes(), &session)).To(Succeed())
			Expect(session.Name).To(Equal("admin"))
		})

		It("returns 401 when no session is held", func() {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			rec := httptest.NewRecorder()
			handler.Me(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("AuthMiddleware", func() {
		var protected http.Handler

		BeforeEach(func() {
			protected = handler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Session-Email", internal.SessionEmailFromContext(r.Context()))
				w.WriteHeader(http.StatusOK)
			}))
		})

		It("rejects requests without a bearer token", func() {
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("rejects a token that does not match the session", func() {
			service.Login(context.Background(), LoginDTO{Email: "admin@harmony.co", Password: "password123"})

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			req.Header.Set("Authorization", "Bearer auth-token-other")
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("passes through with the session token and annotates the context", func() {
			result := service.Login(context.Background(), LoginDTO{Email: "admin@harmony.co", Password: "password123"})

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			req.Header.Set("Authorization", "Bearer "+result.Data.Token)
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("X-Session-Email")).To(Equal("admin@harmony.co"))
		})
	})
})
