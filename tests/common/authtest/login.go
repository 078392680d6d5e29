//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"shop-order-engine/internal/handler/dto/request"
	"shop-order-engine/internal/handler/dto/response"
	"shop-order-engine/tests/common/dbtest"
	"shop-order-engine/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res response.LoginResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	require.NotEmpty(t, res.AccessToken, "login response carried no access token")

	return res.AccessToken
}

func CreateAndLogin(t *testing.T, db dbtest.DBLike, router *gin.Engine, email string, isStaff bool) string {
	t.Helper()
	dbtest.CreateTestUser(t, db, email, isStaff)
	return LoginUser(t, router, email, "password123")
}
