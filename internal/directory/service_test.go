package directory

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"

	"github.com/Harmony-Global/harmony-admin/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// mockGateway serves canned documents per URL and can be switched to fail.
type mockGateway struct {
	documents map[string]any
	err       error
}

func (m *mockGateway) GetJSON(_ context.Context, url string, out any) error {
	if m.err != nil {
		return m.err
	}
	doc, ok := m.documents[url]
	if !ok {
		return errors.New("no document for " + url)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// mockStore is an in-memory record store with switchable failures.
type mockStore struct {
	records  map[string][]byte
	getErr   error
	setErr   error
	setCalls int
}

func newMockStore() *mockStore {
	return &mockStore{records: map[string][]byte{}}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	value, found := m.records[key]
	return value, found, nil
}

func (m *mockStore) Set(_ context.Context, key string, value []byte) error {
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	m.records[key] = value
	return nil
}

func (m *mockStore) Remove(_ context.Context, key string) error {
	delete(m.records, key)
	return nil
}

const (
	testUsersURL   = "http://upstream/users"
	testDetailsURL = "http://upstream/user-details"
)

var _ = Describe("Directory Service", func() {
	var (
		gw      *mockGateway
		store   *mockStore
		service *Service
		ctx     context.Context
	)

	networkDetail := UserDetail{
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
		gw = &mockGateway{documents: map[string]any{}}
		store = newMockStore()
		service = NewService(gw, store, Endpoints{
			UsersURL:       testUsersURL,
			UserDetailsURL: testDetailsURL,
		}, slogger)
		ctx = context.Background()
	})

	Describe("ListUsers", func() {
		It("returns the list document's data", func() {
			gw.documents[testUsersURL] = userListDocument{Status: true, Data: sampleUsers()}

			users := service.ListUsers(ctx)

			Expect(users).To(HaveLen(5))
		})

		It("returns an empty list when the document has no data field", func() {
			gw.documents[testUsersURL] = map[string]any{"status": true}

			users := service.ListUsers(ctx)

			Expect(users).ToNot(BeNil())
			Expect(users).To(BeEmpty())
		})

		It("degrades to an empty list when the fetch fails", func() {
			gw.err = errors.New("connection refused")

			users := service.ListUsers(ctx)

			Expect(users).ToNot(BeNil())
			Expect(users).To(BeEmpty())
		})
	})

	Describe("GetUser", func() {
		Context("when the network returns a matching record", func() {
			BeforeEach(func() {
				gw.documents[testDetailsURL] = userDetailDocument{Status: true, Data: []UserDetail{networkDetail}}
			})

			It("returns the network record and updates the cache", func() {
				detail, source, err := service.GetUser(ctx, 7)

				Expect(err).ToNot(HaveOccurred())
				Expect(source).To(Equal(SourceNetwork))
				Expect(*detail).To(Equal(networkDetail))

				cached, found := store.records["user_7"]
				Expect(found).To(BeTrue())
				var snapshot UserDetail
				Expect(json.Unmarshal(cached, &snapshot)).To(Succeed())
				Expect(snapshot).To(Equal(networkDetail))
			})

			It("prefers the network record over an older cached snapshot", func() {
				stale := networkDetail
				stale.Status = StatusBlacklisted
				raw, _ := json.Marshal(stale)
				store.records["user_7"] = raw

				detail, source, err := service.GetUser(ctx, 7)

				Expect(err).ToNot(HaveOccurred())
				Expect(source).To(Equal(SourceNetwork))
				Expect(detail.Status).To(Equal(StatusPending))
			})

			It("still returns the record when the cache write fails", func() {
				store.setErr = errors.New("quota exceeded")

				detail, source, err := service.GetUser(ctx, 7)

				Expect(err).ToNot(HaveOccurred())
				Expect(source).To(Equal(SourceNetwork))
				Expect(detail.ID).To(Equal(int64(7)))
			})
		})

		Context("when the network fails", func() {
			BeforeEach(func() {
				gw.err = errors.New("connection refused")
			})

			It("falls back to the cached snapshot", func() {
				raw, _ := json.Marshal(networkDetail)
				store.records["user_7"] = raw

				detail, source, err := service.GetUser(ctx, 7)

				Expect(err).ToNot(HaveOccurred())
				Expect(source).To(Equal(SourceCache))
				Expect(*detail).To(Equal(networkDetail))
			})

			It("reports not found when the cache has no snapshot either", func() {
				_, _, err := service.GetUser(ctx, 7)

				Expect(err).To(Equal(internal.ErrUserNotFound))
			})

			It("treats a broken store read as a miss", func() {
				store.getErr = errors.New("store unavailable")

				_, _, err := service.GetUser(ctx, 7)

				Expect(err).To(Equal(internal.ErrUserNotFound))
			})

			It("treats a corrupt snapshot as a miss", func() {
				store.records["user_7"] = []byte("{not json")

				_, _, err := service.GetUser(ctx, 7)

				Expect(err).To(Equal(internal.ErrUserNotFound))
			})
		})

		Context("when the record is absent from a successful response", func() {
			It("falls back to the cached snapshot", func() {
				gw.documents[testDetailsURL] = userDetailDocument{Status: true, Data: []UserDetail{}}
				raw, _ := json.Marshal(networkDetail)
				store.records["user_7"] = raw

				detail, source, err := service.GetUser(ctx, 7)

				Expect(err).ToNot(HaveOccurred())
				Expect(source).To(Equal(SourceCache))
				Expect(detail.ID).To(Equal(int64(7)))
			})
		})
	})

	Describe("SetStatus", func() {
		It("returns a copy with the new status and leaves the input untouched", func() {
			original := networkDetail

			updated := service.SetStatus(ctx, 7, &original, StatusBlacklisted)

			Expect(updated.Status).To(Equal(StatusBlacklisted))
			Expect(original.Status).To(Equal(StatusPending))
		})

		It("writes through so the edit survives a later fallback read", func() {
			original := networkDetail
			service.SetStatus(ctx, 7, &original, StatusBlacklisted)

			gw.err = errors.New("connection refused")
			detail, source, err := service.GetUser(ctx, 7)

			Expect(err).ToNot(HaveOccurred())
			Expect(source).To(Equal(SourceCache))
			Expect(detail.Status).To(Equal(StatusBlacklisted))
		})

		It("still returns the updated copy when persistence fails", func() {
			store.setErr = errors.New("quota exceeded")
			original := networkDetail

			updated := service.SetStatus(ctx, 7, &original, StatusActive)

			Expect(updated.Status).To(Equal(StatusActive))
			Expect(store.setCalls).To(Equal(1))
		})
	})

	Describe("Stats", func() {
		It("counts totals, active users and product holders", func() {
			gw.documents[testUsersURL] = userListDocument{Status: true, Data: sampleUsers()}

			stats := service.Stats(ctx)

			Expect(stats.TotalUsers).To(Equal(5))
			Expect(stats.ActiveUsers).To(Equal(2))
			Expect(stats.UsersWithLoans).To(Equal(3))
			Expect(stats.UsersWithSavings).To(Equal(3))
		})

		It("is all zeroes when the list is unavailable", func() {
			gw.err = errors.New("connection refused")

			stats := service.Stats(ctx)

			Expect(stats).To(Equal(Stats{}))
		})
	})
})
