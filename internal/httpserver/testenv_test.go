package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/recyclemart/ewaste-market/internal/hash"
	"github.com/recyclemart/ewaste-market/internal/models"
	"github.com/recyclemart/ewaste-market/internal/repo"
	"github.com/recyclemart/ewaste-market/internal/service"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Auth   *AuthHTTP
	Buy    *BuyHTTP
	Sell   *SellHTTP
	Coupon *CouponHTTP
}

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Item{}, &models.Coupon{}))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := initTestDB(t)
	rp := &repo.GormRepo{DB: db}
	secret := []byte("test-jwt-secret")

	authSvc := &service.AuthService{Repo: rp, JWTSecret: secret}
	listingSvc := &service.ListingService{Repo: rp}
	couponSvc := &service.CouponService{Repo: rp}

	return &testEnv{
		T:      t,
		E:      echo.New(),
		DB:     db,
		Auth:   &AuthHTTP{Svc: authSvc},
		Buy:    &BuyHTTP{Svc: listingSvc},
		Sell:   &SellHTTP{Svc: listingSvc},
		Coupon: &CouponHTTP{Svc: couponSvc},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// asUser stamps the context the way the gate middleware does after a
// successful token check.
func asUser(c echo.Context, u *models.User) {
	c.Set("user_id", u.ID.String())
	c.Set("email", u.Email)
	c.Set("role", u.Role)
}

func (env *testEnv) createUser(name, email, role string) *models.User {
	env.T.Helper()

	pwHash, err := hash.HashPassword("password")
	require.NoError(env.T, err)

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	require.NoError(env.T, env.DB.Create(user).Error)
	return user
}

func (env *testEnv) createItem(owner uuid.UUID, deviceType, brand, condition, status string, price float64) *models.Item {
	env.T.Helper()

	item := &models.Item{
		UserID:         owner,
		DeviceType:     deviceType,
		Brand:          brand,
		Model:          brand + "-model",
		Condition:      condition,
		EstimatedPrice: price,
		Weight:         1.2,
		Status:         status,
	}
	require.NoError(env.T, env.DB.Create(item).Error)
	return item
}
