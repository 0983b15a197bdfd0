package directory

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Directory Handler", func() {
	var (
		gw     *mockGateway
		store  *mockStore
		router *chi.Mux
	)

	detail := UserDetail{
		ID:           7,
		Organization: "Lendsqr",
		FirstName:    "Grace",
		LastName:     "Effiom",
		FullName:     "Grace Effiom",
		Status:       StatusPending,
		Email:        "grace@lendstar.com",
	}

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		gw = &mockGateway{documents: map[string]any{
			testUsersURL:   userListDocument{Status: true, Data: sampleUsers()},
			testDetailsURL: userDetailDocument{Status: true, Data: []UserDetail{detail}},
		}}
		store = newMockStore()
		service := NewService(gw, store, Endpoints{
			UsersURL:       testUsersURL,
			UserDetailsURL: testDetailsURL,
		}, slogger)
		handler := NewHandler(service)

		router = chi.NewRouter()
		router.Get("/users", handler.ListUsers)
		router.Get("/users/stats", handler.GetStats)
		router.Get("/users/{id}", handler.GetUser)
		router.Patch("/users/{id}/blacklist", handler.BlacklistUser)
		router.Patch("/users/{id}/activate", handler.ActivateUser)
	})

	doRequest := func(method, target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	Describe("GET /users", func() {
		It("returns the full first page with pagination metadata", func() {
			rec := doRequest(http.MethodGet, "/users")

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp ListResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Data).To(HaveLen(5))
			Expect(resp.Page).To(Equal(1))
			Expect(resp.PageSize).To(Equal(DefaultPageSize))
			Expect(resp.PageCount).To(Equal(1))
			Expect(resp.Total).To(Equal(5))
			Expect(resp.ActiveFilter).To(BeEmpty())
		})

		It("applies filters and reports the active filter field", func() {
			rec := doRequest(http.MethodGet, "/users?organization=lendsqr")

			var resp ListResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Data).To(HaveLen(2))
			Expect(resp.Total).To(Equal(2))
			Expect(resp.ActiveFilter).To(Equal("organization"))
		})

		It("clamps an out-of-range page to the last page", func() {
			rec := doRequest(http.MethodGet, "/users?page=99&page_size=2")

			var resp ListResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Page).To(Equal(3))
			Expect(resp.PageCount).To(Equal(3))
			Expect(resp.Data).To(HaveLen(1))
		})

		It("returns an empty data array when the upstream is down", func() {
			gw.err = errors.New("connection refused")

			rec := doRequest(http.MethodGet, "/users")

			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp ListResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Data).To(BeEmpty())
			Expect(resp.Total).To(Equal(0))
		})
	})

	Describe("GET /users/{id}", func() {
		It("returns the detail record with its source", func() {
			rec := doRequest(http.MethodGet, "/users/7")

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp DetailResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Source).To(Equal(SourceNetwork))
			Expect(resp.Data.FullName).To(Equal("Grace Effiom"))
		})

		It("rejects a non-numeric id", func() {
			rec := doRequest(http.MethodGet, "/users/abc")

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects a non-positive id", func() {
			rec := doRequest(http.MethodGet, "/users/0")

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 404 when the record is unknown everywhere", func() {
			gw.err = errors.New("connection refused")

			rec := doRequest(http.MethodGet, "/users/7")

			Expect(rec.Code).To(Equal(http.StatusNotFound))

			var body map[string]any
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body["message"]).To(Equal("User not found"))
		})
	})

	Describe("PATCH /users/{id}/blacklist", func() {
		It("returns the blacklisted record from the local source", func() {
			rec := doRequest(http.MethodPatch, "/users/7/blacklist")

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp DetailResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Source).To(Equal(SourceLocal))
			Expect(resp.Data.Status).To(Equal(StatusBlacklisted))
		})

		It("persists the edit for later offline reads", func() {
			doRequest(http.MethodPatch, "/users/7/blacklist")

			gw.err = errors.New("connection refused")
			rec := doRequest(http.MethodGet, "/users/7")

			var resp DetailResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Source).To(Equal(SourceCache))
			Expect(resp.Data.Status).To(Equal(StatusBlacklisted))
		})

		It("returns 404 for a record that cannot be resolved", func() {
			gw.documents[testDetailsURL] = userDetailDocument{Status: true, Data: []UserDetail{}}

			rec := doRequest(http.MethodPatch, "/users/42/blacklist")

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("PATCH /users/{id}/activate", func() {
		It("reactivates a previously blacklisted record", func() {
			doRequest(http.MethodPatch, "/users/7/blacklist")

			rec := doRequest(http.MethodPatch, "/users/7/activate")

			var resp DetailResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Data.Status).To(Equal(StatusActive))
		})
	})

	Describe("GET /users/stats", func() {
		It("returns the dashboard counters", func() {
			rec := doRequest(http.MethodGet, "/users/stats")

			Expect(rec.Code).To(Equal(http.StatusOK))

			var stats Stats
			Expect(json.Unmarshal(rec.Body.Bytes(), &stats)).To(Succeed())
			Expect(stats.TotalUsers).To(Equal(5))
			Expect(stats.ActiveUsers).To(Equal(2))
		})
	})
})
