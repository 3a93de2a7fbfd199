package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/redhat-data-and-ai/accountsync/pkg/accounts"
	"github.com/redhat-data-and-ai/accountsync/pkg/cache"
	"github.com/redhat-data-and-ai/accountsync/pkg/cache/inmemory"
	"github.com/redhat-data-and-ai/accountsync/pkg/clients/mocks"
	"github.com/redhat-data-and-ai/accountsync/pkg/common/structs"
	"github.com/redhat-data-and-ai/accountsync/pkg/config"
	"github.com/redhat-data-and-ai/accountsync/pkg/store"
)

var _ = Describe("Admin API", func() {
	var (
		ctrl      *gomock.Controller
		client    *mocks.MockClient
		dataStore *store.Store
		handler   http.Handler
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	decodeError := func(rec *httptest.ResponseRecorder) ErrorResponse {
		var resp ErrorResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		return resp
	}

	seed := func(uids ...string) {
		for _, uid := range uids {
			Expect(dataStore.Account.Set(context.Background(), &structs.Account{UID: uid})).To(Succeed())
		}
	}

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		client = mocks.NewMockClient(ctrl)

		c, err := cache.New(&cache.Config{
			Driver: cache.DriverMemory,
			InMemory: &inmemory.Config{
				DefaultExpiration: int32(-1),
				CleanupInterval:   int32(-1),
			},
		})
		Expect(err).NotTo(HaveOccurred())
		dataStore = store.New(c)

		manager := accounts.NewManager(client, dataStore.Account, accounts.Options{Domain: "example.com"})
		handler = NewServer(manager, config.API{Address: ":0"}).Handler()
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	It("reports health and echoes the request id", func() {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(requestIDHeader, "req-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get(requestIDHeader)).To(Equal("req-123"))
	})

	It("generates a request id when none is sent", func() {
		rec := do(http.MethodGet, "/healthz", "")
		Expect(rec.Header().Get(requestIDHeader)).NotTo(BeEmpty())
	})

	Context("When loading the account list", func() {
		It("loads every page and lists the accounts", func() {
			gomock.InOrder(
				client.EXPECT().ListAccounts(gomock.Any(), "example.com", "").
					Return(&structs.DirectoryUserPage{
						Users:         []*structs.DirectoryUser{{PrimaryEmail: "bob@example.com"}},
						NextPageToken: "next",
					}, nil),
				client.EXPECT().ListAccounts(gomock.Any(), "example.com", "next").
					Return(&structs.DirectoryUserPage{
						Users: []*structs.DirectoryUser{{PrimaryEmail: "alice@example.com"}},
					}, nil),
			)

			rec := do(http.MethodPost, "/accounts/load", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(MatchJSON(`{"count": 2}`))

			rec = do(http.MethodGet, "/accounts", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			var list AccountList
			Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(Succeed())
			Expect(list.Count).To(Equal(2))
			Expect(list.Accounts[0].UID).To(Equal("alice"))
			Expect(list.Accounts[1].UID).To(Equal("bob"))
		})

		It("reports a partial load with the number of cached accounts", func() {
			gomock.InOrder(
				client.EXPECT().ListAccounts(gomock.Any(), "example.com", "").
					Return(&structs.DirectoryUserPage{
						Users:         []*structs.DirectoryUser{{PrimaryEmail: "bob@example.com"}},
						NextPageToken: "next",
					}, nil),
				client.EXPECT().ListAccounts(gomock.Any(), "example.com", "next").
					Return(nil, errors.New("rate limited")),
			)

			rec := do(http.MethodPost, "/accounts/load", "")
			Expect(rec.Code).To(Equal(http.StatusBadGateway))
			resp := decodeError(rec)
			Expect(resp.Kind).To(Equal("remote"))
			Expect(resp.Partial).To(BeTrue())
			Expect(resp.Count).NotTo(BeNil())
			Expect(*resp.Count).To(Equal(1))
		})

		It("reloads even when the cache is populated", func() {
			seed("stale")
			client.EXPECT().ListAccounts(gomock.Any(), "example.com", "").
				Return(&structs.DirectoryUserPage{
					Users: []*structs.DirectoryUser{{PrimaryEmail: "alice@example.com"}},
				}, nil).Times(1)

			rec := do(http.MethodPost, "/accounts/reload", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(MatchJSON(`{"count": 1}`))
		})

		It("clears the cache", func() {
			seed("alice")

			rec := do(http.MethodDelete, "/accounts", "")
			Expect(rec.Code).To(Equal(http.StatusNoContent))

			count, err := dataStore.Account.Count(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(0))
		})
	})

	Context("When looking up an account", func() {
		It("serves cached accounts case-insensitively", func() {
			seed("alice")

			rec := do(http.MethodGet, "/accounts/ALICE@example.com", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"uid":"alice"`))
		})

		It("returns 404 for a cache miss", func() {
			seed("alice")

			rec := do(http.MethodGet, "/accounts/bob", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(decodeError(rec).Kind).To(Equal("not_found"))
		})

		It("fetches live with the full address when the cache is empty", func() {
			client.EXPECT().GetAccount(gomock.Any(), "bob@example.com").
				Return(&structs.DirectoryUser{PrimaryEmail: "bob@example.com", OrgUnitPath: "/personeel"}, nil)

			rec := do(http.MethodGet, "/accounts/bob", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"isStaff":true`))
		})
	})

	Context("When adding an account", func() {
		It("creates the account and its alias", func() {
			seed("bob")
			gomock.InOrder(
				client.EXPECT().InsertAccount(gomock.Any(), gomock.Any()).Return(nil),
				client.EXPECT().InsertAlias(gomock.Any(), "alice@example.com", "al@example.com").Return(nil),
			)

			rec := do(http.MethodPost, "/accounts",
				`{"uid":"alice","givenName":"Alice","mailAlias":"al@example.com","password":"s3cret"}`)
			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(rec.Body.String()).To(ContainSubstring(`"mail":"alice@example.com"`))

			exists, err := dataStore.Account.Exists(context.Background(), "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})

		It("rejects a request without a password", func() {
			rec := do(http.MethodPost, "/accounts", `{"uid":"alice"}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects an invalid uid", func() {
			rec := do(http.MethodPost, "/accounts", `{"uid":"alice@example.com","password":"pw"}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeError(rec).Kind).To(Equal("invalid"))
		})

		It("flags a failed alias as partial", func() {
			seed("bob")
			client.EXPECT().InsertAccount(gomock.Any(), gomock.Any()).Return(nil)
			client.EXPECT().InsertAlias(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("alias taken"))

			rec := do(http.MethodPost, "/accounts",
				`{"uid":"alice","mailAlias":"al@example.com","password":"s3cret"}`)
			Expect(rec.Code).To(Equal(http.StatusBadGateway))
			Expect(decodeError(rec).Partial).To(BeTrue())
		})
	})

	Context("When deleting an account or changing its password", func() {
		It("deletes by full address", func() {
			seed("alice", "bob")
			client.EXPECT().DeleteAccount(gomock.Any(), "alice@example.com").Return(nil)

			rec := do(http.MethodDelete, "/accounts/alice", "")
			Expect(rec.Code).To(Equal(http.StatusNoContent))

			count, err := dataStore.Account.Count(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})

		It("changes the password", func() {
			client.EXPECT().UpdateAccount(gomock.Any(), "alice@example.com", &structs.DirectoryUser{Password: "n3w"}).
				Return(nil)

			rec := do(http.MethodPut, "/accounts/alice@example.com/password", `{"password":"n3w"}`)
			Expect(rec.Code).To(Equal(http.StatusNoContent))
		})

		It("maps remote failures to 502", func() {
			client.EXPECT().DeleteAccount(gomock.Any(), "alice@example.com").Return(errors.New("forbidden"))

			rec := do(http.MethodDelete, "/accounts/alice@example.com", "")
			Expect(rec.Code).To(Equal(http.StatusBadGateway))
			Expect(decodeError(rec).Error).To(ContainSubstring("delete account"))
		})
	})

	Context("When working with snapshots", func() {
		It("exports and restores the cache", func() {
			seed("alice", "bob")

			rec := do(http.MethodGet, "/snapshot", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			snapshot := rec.Body.String()
			Expect(snapshot).To(ContainSubstring(`"accounts"`))

			Expect(do(http.MethodDelete, "/accounts", "").Code).To(Equal(http.StatusNoContent))

			rec = do(http.MethodPut, "/snapshot", snapshot)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(MatchJSON(`{"count": 2}`))
		})

		It("rejects a malformed document", func() {
			rec := do(http.MethodPut, "/snapshot", `not json`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("reports skipped records as partial", func() {
			rec := do(http.MethodPut, "/snapshot", `{"accounts":[{"uid":"alice"},{"uid":""}]}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			resp := decodeError(rec)
			Expect(resp.Partial).To(BeTrue())
			Expect(*resp.Count).To(Equal(1))
		})
	})
})
