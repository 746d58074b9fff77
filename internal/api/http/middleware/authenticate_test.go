package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/dtroode/todo-server/internal/api/http/context"
	"github.com/dtroode/todo-server/internal/api/http/response"
	"github.com/dtroode/todo-server/internal/apierrors"
	"github.com/dtroode/todo-server/internal/mocks"
	"github.com/dtroode/todo-server/internal/model"
	"github.com/dtroode/todo-server/internal/testutil"
)

type gateFixture struct {
	tokens   *mocks.TokenService
	resolver *mocks.SubjectResolver
	engine   *gin.Engine
	seen     *model.Principal
}

func newGateFixture(t *testing.T, full bool) *gateFixture {
	t.Helper()
	lg := testutil.MakeNoopLogger()
	f := &gateFixture{
		tokens:   mocks.NewTokenService(t),
		resolver: mocks.NewSubjectResolver(t),
		engine:   testutil.NewTestEngine(),
	}
	cm := httpcontext.NewManager()
	gate := NewAuthenticate(f.tokens, f.resolver, cm, response.NewErrorWriter(lg, false), lg)

	handler := gate.Lightweight()
	if full {
		handler = gate.Full()
	}
	f.engine.GET("/protected", handler, func(c *gin.Context) {
		p, ok := cm.GetPrincipalFromContext(c.Request.Context())
		if ok {
			f.seen = &p
		}
		c.Status(http.StatusOK)
	})
	return f
}

func TestAuthenticate_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		checkErr error
		wantCode apierrors.Code
		wantHTTP int
	}{
		{
			name:     "missing header",
			header:   "",
			wantCode: apierrors.CodeMissingToken,
			wantHTTP: http.StatusUnauthorized,
		},
		{
			name:     "not a bearer scheme",
			header:   "Basic dXNlcjpwYXNz",
			wantCode: apierrors.CodeMissingToken,
			wantHTTP: http.StatusUnauthorized,
		},
		{
			name:     "bearer without token",
			header:   "Bearer ",
			wantCode: apierrors.CodeMissingToken,
			wantHTTP: http.StatusUnauthorized,
		},
		{
			name:     "revoked token",
			header:   "Bearer tok",
			checkErr: model.ErrRevokedToken,
			wantCode: apierrors.CodeRevokedToken,
			wantHTTP: http.StatusUnauthorized,
		},
		{
			name:     "expired token",
			header:   "Bearer tok",
			checkErr: model.ErrExpiredToken,
			wantCode: apierrors.CodeExpiredToken,
			wantHTTP: http.StatusUnauthorized,
		},
		{
			name:     "malformed token",
			header:   "Bearer tok",
			checkErr: model.ErrMalformedToken,
			wantCode: apierrors.CodeMalformedToken,
			wantHTTP: http.StatusUnauthorized,
		},
		{
			name:     "unexpected checker failure",
			header:   "Bearer tok",
			checkErr: errors.New("boom"),
			wantCode: apierrors.CodeInternal,
			wantHTTP: http.StatusInternalServerError,
		},
	}

	for _, full := range []bool{true, false} {
		for _, tt := range tests {
			name := tt.name
			if full {
				name = "full/" + name
			} else {
				name = "lightweight/" + name
			}
			t.Run(name, func(t *testing.T) {
				f := newGateFixture(t, full)
				if tt.checkErr != nil {
					f.tokens.On("CheckToken", mock.Anything, "tok").Return(uuid.Nil, tt.checkErr)
				}

				headers := map[string]string{}
				if tt.header != "" {
					headers["Authorization"] = tt.header
				}
				rec := testutil.PerformRequest(f.engine, http.MethodGet, "/protected", nil, headers)

				assert.Equal(t, tt.wantHTTP, rec.Code)
				body := testutil.DecodeJSON(t, rec)
				assert.Equal(t, string(tt.wantCode), body["code"])
				assert.Nil(t, f.seen)
				f.resolver.AssertNotCalled(t, "ResolveSubject", mock.Anything, mock.Anything)
			})
		}
	}
}

func TestAuthenticate_Full_Admits(t *testing.T) {
	f := newGateFixture(t, true)
	user := model.PublicUser{ID: uuid.New(), Email: "a@x.com", Name: "A"}
	f.tokens.On("CheckToken", mock.Anything, "tok").Return(user.ID, nil)
	f.resolver.On("ResolveSubject", mock.Anything, user.ID).Return(user, nil)

	rec := testutil.PerformRequest(f.engine, http.MethodGet, "/protected", nil, testutil.BearerHeader("tok"))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.seen)
	assert.Equal(t, user.ID, f.seen.UserID)
	assert.Equal(t, "tok", f.seen.Token)
	require.NotNil(t, f.seen.User)
	assert.Equal(t, user, *f.seen.User)
}

func TestAuthenticate_Full_UnknownSubject(t *testing.T) {
	f := newGateFixture(t, true)
	id := uuid.New()
	f.tokens.On("CheckToken", mock.Anything, "tok").Return(id, nil)
	f.resolver.On("ResolveSubject", mock.Anything, id).Return(model.PublicUser{}, apierrors.NewErrUnknownSubject())

	rec := testutil.PerformRequest(f.engine, http.MethodGet, "/protected", nil, testutil.BearerHeader("tok"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(apierrors.CodeUnknownSubject), testutil.DecodeJSON(t, rec)["code"])
	assert.Nil(t, f.seen)
}

func TestAuthenticate_Full_StoreFailureIsNotABypass(t *testing.T) {
	f := newGateFixture(t, true)
	id := uuid.New()
	f.tokens.On("CheckToken", mock.Anything, "tok").Return(id, nil)
	f.resolver.On("ResolveSubject", mock.Anything, id).Return(model.PublicUser{}, context.DeadlineExceeded)

	rec := testutil.PerformRequest(f.engine, http.MethodGet, "/protected", nil, testutil.BearerHeader("tok"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Nil(t, f.seen)
}

func TestAuthenticate_Lightweight_Admits(t *testing.T) {
	f := newGateFixture(t, false)
	id := uuid.New()
	f.tokens.On("CheckToken", mock.Anything, "tok").Return(id, nil)

	rec := testutil.PerformRequest(f.engine, http.MethodGet, "/protected", nil, map[string]string{"Authorization": "bearer tok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.seen)
	assert.Equal(t, id, f.seen.UserID)
	assert.Nil(t, f.seen.User)
	f.resolver.AssertNotCalled(t, "ResolveSubject", mock.Anything, mock.Anything)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer abc", want: "abc", ok: true},
		{header: "bearer abc", want: "abc", ok: true},
		{header: "Bearer   abc  ", want: "abc", ok: true},
		{header: "Bearer", ok: false},
		{header: "Token abc", ok: false},
		{header: "abc", ok: false},
		{header: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "/", nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			got, ok := BearerToken(req)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
