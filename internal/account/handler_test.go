package account

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(store Store) (*Handler, *CredentialService) {
	svc := newTestService(store)
	return NewHandler(svc, zap.NewNop().Sugar()), svc
}

func TestHandler_Register(t *testing.T) {
	h, _ := newTestHandler(newMemStore())
	register := http.HandlerFunc(h.Register)

	apitest.Handler(register).
		Post("/users").
		JSON(`{"name":"alice","password":"hunter2"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Present("$.accessToken")).
		End()

	apitest.Handler(register).
		Post("/users").
		JSON(`{"name":"alice","password":"hunter2"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.message", "could not create user")).
		Assert(jsonpath.NotPresent("$.accessToken")).
		End()

	apitest.Handler(register).
		Post("/users").
		JSON(`{"name":"a","password":"1"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Len("$.errors", 2)).
		Assert(jsonpath.Equal("$.errors[0].field", "name")).
		End()

	apitest.Handler(register).
		Post("/users").
		Body(`{not json`).
		Expect(t).
		Status(http.StatusBadRequest).
		End()
}

func TestHandler_Login(t *testing.T) {
	h, svc := newTestHandler(newMemStore())
	token, err := svc.Register(context.Background(), "alice", "hunter2")
	require.NoError(t, err)
	login := http.HandlerFunc(h.Login)

	apitest.Handler(login).
		Post("/sessions").
		JSON(`{"name":"alice","password":"hunter2"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal("$.accessToken", token)).
		End()

	for _, body := range []string{
		`{"name":"alice","password":"wrong"}`,
		`{"name":"nobody","password":"hunter2"}`,
	} {
		apitest.Handler(login).
			Post("/sessions").
			JSON(body).
			Expect(t).
			Status(http.StatusNotFound).
			Body(`{"notFound":true,"message":"Verify username and password"}`).
			End()
	}
}

func TestHandler_LoginUnreadableBody(t *testing.T) {
	h, _ := newTestHandler(newMemStore())
	login := http.HandlerFunc(h.Login)

	for _, body := range []string{``, `{not json`, `["alice"]`, `{"name":1}`} {
		apitest.Handler(login).
			Post("/sessions").
			Body(body).
			Expect(t).
			Status(http.StatusNotFound).
			Body(`{"notFound":true,"message":"Verify username and password"}`).
			End()
	}
}

func TestHandler_LoginStoreFailureHidesCause(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("pq: password authentication failed for user postgres")
	h, _ := newTestHandler(store)

	apitest.Handler(http.HandlerFunc(h.Login)).
		Post("/sessions").
		JSON(`{"name":"alice","password":"hunter2"}`).
		Expect(t).
		Status(http.StatusInternalServerError).
		Body(`{"notFound":true,"message":"Internal Server Error"}`).
		End()
}
