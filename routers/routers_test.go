package routers

import (
	"GoldShop/config"
	"GoldShop/lock"
	"GoldShop/middleware"
	"GoldShop/models"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	deps   *Dependencies
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.Default()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Checkout.FlatShipping = "50"
	cfg.Checkout.FreeShippingOver = "1000"
	cfg.Uploads.Dir = t.TempDir()

	deps, err := NewDependencies(cfg, db, rdb, lock.NewLocalLocker(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewDependencies: %v", err)
	}
	router, err := SetupRouters(deps)
	if err != nil {
		t.Fatalf("SetupRouters: %v", err)
	}
	return &testServer{t: t, router: router, deps: deps}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func decodeArray(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	var out []interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d; body %s", w.Code, want, w.Body.String())
	}
}

func expectMoney(t *testing.T, got interface{}, want string) {
	t.Helper()
	s := fmt.Sprint(got)
	d, err := decimal.NewFromString(s)
	if err != nil || !d.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("amount = %v, want %s", got, want)
	}
}

func idOf(t *testing.T, v interface{}) uint {
	t.Helper()
	f, ok := v.(float64)
	if !ok || f <= 0 {
		t.Fatalf("not an id: %v", v)
	}
	return uint(f)
}

func (s *testServer) signup(email, phone, password string) uint {
	s.t.Helper()
	w := s.do(http.MethodPost, "/users/signup", "", gin.H{
		"fullName": "Asha Rao",
		"email":    email,
		"phone":    phone,
		"password": password,
	})
	expectStatus(s.t, w, http.StatusCreated)
	return idOf(s.t, decodeObject(s.t, w)["id"])
}

func (s *testServer) login(identifier, password string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/users/login", "", gin.H{
		"identifier": identifier,
		"password":   password,
	})
	expectStatus(s.t, w, http.StatusOK)
	token, _ := decodeObject(s.t, w)["token"].(string)
	if token == "" || w.Header().Get("Authorization") != "Bearer "+token {
		s.t.Fatalf("login returned no token: %s", w.Body.String())
	}
	return token
}

func (s *testServer) adminToken() string {
	s.t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("admin-pass1"), bcrypt.MinCost)
	if err != nil {
		s.t.Fatal(err)
	}
	admin := models.User{
		FullName: "Shop Admin",
		Email:    "admin@goldshop.test",
		Password: string(hashed),
		Role:     middleware.AdminRole,
	}
	if err := s.deps.Users.Create(context.Background(), &admin); err != nil {
		s.t.Fatalf("create admin: %v", err)
	}
	return s.login("admin@goldshop.test", "admin-pass1")
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	userID := s.signup("asha@example.com", "9000000000", "secret123")
	token := s.login("9000000000", "secret123")

	w := s.do(http.MethodPost, "/users/addresses", token, gin.H{
		"name":    "Asha Rao",
		"mobile":  "9000000000",
		"pincode": "600001",
		"flat":    "4B",
		"city":    "Chennai",
		"state":   "TN",
		"cod":     true,
	})
	expectStatus(t, w, http.StatusCreated)
	address := decodeObject(t, w)["address"].(map[string]interface{})
	addressID := idOf(t, address["id"])
	if address["addressType"] != string(models.AddressHome) {
		t.Fatalf("addressType = %v, want home", address["addressType"])
	}

	w = s.do(http.MethodGet, fmt.Sprintf("/users/addresses?userId=%d", userID), token, nil)
	expectStatus(t, w, http.StatusOK)
	if n := len(decodeArray(t, w)); n != 1 {
		t.Fatalf("addresses = %d, want 1", n)
	}

	w = s.do(http.MethodPost, "/cart/add", token, gin.H{
		"userId":   userID,
		"name":     "Temple Chain",
		"price":    "1200.50",
		"quantity": 2,
		"purity":   "22K",
	})
	expectStatus(t, w, http.StatusCreated)

	w = s.do(http.MethodGet, fmt.Sprintf("/cart/%d", userID), token, nil)
	expectStatus(t, w, http.StatusOK)
	cart := decodeObject(t, w)
	expectMoney(t, cart["subtotal"], "2401")

	w = s.do(http.MethodPost, "/checkout", token, gin.H{
		"userId":           userID,
		"addressId":        addressID,
		"paymentMethod":    "cod",
		"expectedDelivery": "2026-11-01",
	})
	expectStatus(t, w, http.StatusCreated)
	placed := decodeObject(t, w)
	orderID := idOf(t, placed["orderId"])
	expectMoney(t, placed["subtotal"], "2401")
	expectMoney(t, placed["shipping"], "0")
	expectMoney(t, placed["totalAmount"], "2401")

	w = s.do(http.MethodGet, fmt.Sprintf("/cart/%d", userID), token, nil)
	expectStatus(t, w, http.StatusOK)
	if items := decodeObject(t, w)["items"].([]interface{}); len(items) != 0 {
		t.Fatalf("cart not cleared: %v", items)
	}

	w = s.do(http.MethodGet, fmt.Sprintf("/orders/list/%d", userID), token, nil)
	expectStatus(t, w, http.StatusOK)
	orders := decodeObject(t, w)["orders"].([]interface{})
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	order := orders[0].(map[string]interface{})
	if order["status"] != string(models.StatusProcessing) {
		t.Fatalf("status = %v", order["status"])
	}
	if summary := order["orderSummary"].([]interface{}); len(summary) != 1 {
		t.Fatalf("orderSummary = %v", summary)
	}

	// nothing left to buy
	w = s.do(http.MethodPost, "/checkout", token, gin.H{
		"userId":        userID,
		"addressId":     addressID,
		"paymentMethod": "cod",
	})
	expectStatus(t, w, http.StatusBadRequest)
	if kind := decodeObject(t, w)["kind"]; kind != "validation" {
		t.Fatalf("kind = %v", kind)
	}

	w = s.do(http.MethodPost, "/orders/update-status", token, gin.H{"orderId": orderID, "status": "shipped"})
	expectStatus(t, w, http.StatusForbidden)

	admin := s.adminToken()
	w = s.do(http.MethodPost, "/orders/update-status", admin, gin.H{"orderId": orderID, "status": "shipped"})
	expectStatus(t, w, http.StatusOK)
	w = s.do(http.MethodPost, "/orders/update-status", admin, gin.H{"orderId": orderID, "status": "processing"})
	expectStatus(t, w, http.StatusConflict)
	w = s.do(http.MethodPost, "/orders/update-status", admin, gin.H{"orderId": orderID + 100, "status": "shipped"})
	expectStatus(t, w, http.StatusNotFound)

	w = s.do(http.MethodGet, "/orders/all", admin, nil)
	expectStatus(t, w, http.StatusOK)
	if n := len(decodeArray(t, w)); n != 1 {
		t.Fatalf("all orders = %d, want 1", n)
	}

	w = s.do(http.MethodGet, "/orders/export", admin, nil)
	expectStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("Content-Type = %q", ct)
	}

	w = s.do(http.MethodPost, "/orders/reconcile", admin, nil)
	expectStatus(t, w, http.StatusOK)
	expectMoney(t, decodeObject(t, w)["reconciled"], "0")
}

func TestCheckoutRejections(t *testing.T) {
	s := newTestServer(t)
	userID := s.signup("ravi@example.com", "9111111111", "secret123")
	token := s.login("ravi@example.com", "secret123")

	w := s.do(http.MethodPost, "/users/addresses", token, gin.H{
		"name": "Ravi", "mobile": "9111111111", "pincode": "560001", "city": "Bengaluru", "state": "KA",
		"addressType": "work",
	})
	expectStatus(t, w, http.StatusCreated)
	addressID := idOf(t, decodeObject(t, w)["address"].(map[string]interface{})["id"])

	w = s.do(http.MethodPost, "/cart/add", token, gin.H{"name": "Stud", "price": "300", "quantity": 1})
	expectStatus(t, w, http.StatusCreated)

	tests := []struct {
		name   string
		body   gin.H
		status int
	}{
		{"unknown payment method", gin.H{"addressId": addressID, "paymentMethod": "barter"}, http.StatusBadRequest},
		{"missing address", gin.H{"addressId": addressID + 50, "paymentMethod": "card"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.body["userId"] = userID
			w := s.do(http.MethodPost, "/checkout", token, tt.body)
			expectStatus(t, w, tt.status)
		})
	}

	w = s.do(http.MethodGet, fmt.Sprintf("/orders/list/%d", userID), token, nil)
	expectStatus(t, w, http.StatusOK)
	if orders := decodeObject(t, w)["orders"].([]interface{}); len(orders) != 0 {
		t.Fatalf("rejected checkouts created orders: %v", orders)
	}

	// below the free shipping threshold the flat rate applies; the address
	// was saved without a cod flag and the method arrives upper-cased
	w = s.do(http.MethodPost, "/checkout", token, gin.H{"userId": userID, "addressId": addressID, "paymentMethod": " COD "})
	expectStatus(t, w, http.StatusCreated)
	placed := decodeObject(t, w)
	expectMoney(t, placed["shipping"], "50")
	expectMoney(t, placed["totalAmount"], "350")
}

func TestActingUserAndLogout(t *testing.T) {
	s := newTestServer(t)
	first := s.signup("one@example.com", "9222222222", "secret123")
	second := s.signup("two@example.com", "9333333333", "secret123")
	token := s.login("one@example.com", "secret123")

	w := s.do(http.MethodGet, fmt.Sprintf("/cart/%d", second), token, nil)
	expectStatus(t, w, http.StatusForbidden)
	w = s.do(http.MethodGet, fmt.Sprintf("/cart/%d", first), token, nil)
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodPut, fmt.Sprintf("/users/%d", first), token, gin.H{"fullName": "Renamed"})
	expectStatus(t, w, http.StatusOK)
	if name := decodeObject(t, w)["user"].(map[string]interface{})["fullName"]; name != "Renamed" {
		t.Fatalf("fullName = %v", name)
	}
	w = s.do(http.MethodPut, fmt.Sprintf("/users/%d", first), token, gin.H{"password": "newsecret99"})
	expectStatus(t, w, http.StatusOK)
	_ = s.login("one@example.com", "newsecret99")

	w = s.do(http.MethodPost, "/users/login", "", gin.H{"identifier": "one@example.com", "password": "secret123"})
	expectStatus(t, w, http.StatusUnauthorized)

	w = s.do(http.MethodGet, "/users/all", token, nil)
	expectStatus(t, w, http.StatusForbidden)

	w = s.do(http.MethodPost, "/users/logout", token, nil)
	expectStatus(t, w, http.StatusOK)
	// the revoked token no longer authenticates
	w = s.do(http.MethodPost, "/users/logout", token, nil)
	expectStatus(t, w, http.StatusUnauthorized)

	w = s.do(http.MethodPost, "/users/signup", "", gin.H{
		"fullName": "Dup", "email": "two@example.com", "password": "secret123",
	})
	expectStatus(t, w, http.StatusBadRequest)

	admin := s.adminToken()
	w = s.do(http.MethodGet, "/users/all", admin, nil)
	expectStatus(t, w, http.StatusOK)
	users := decodeArray(t, w)
	if len(users) != 3 {
		t.Fatalf("users = %d, want 3", len(users))
	}
	for _, u := range users {
		if _, leaked := u.(map[string]interface{})["password"]; leaked {
			t.Fatal("password in user listing")
		}
	}

	w = s.do(http.MethodDelete, fmt.Sprintf("/users/%d", second), admin, nil)
	expectStatus(t, w, http.StatusOK)
	w = s.do(http.MethodDelete, fmt.Sprintf("/users/%d", second), admin, nil)
	expectStatus(t, w, http.StatusNotFound)

	w = s.do(http.MethodPost, "/users/addresses", "", gin.H{
		"userId": second, "name": "Gone", "mobile": "1", "pincode": "1", "city": "c", "state": "s",
	})
	expectStatus(t, w, http.StatusForbidden)
}

func multipartRequest(t *testing.T, path, token string, fields map[string]string, fileField string, files ...string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range files {
		part, err := mw.CreateFormFile(fileField, name)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = part.Write([]byte("not really an image"))
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestProductUploads(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	fields := map[string]string{"title": "Bangle", "price": "999.99", "stock": "4", "purity": "22K", "featured": "true"}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, multipartRequest(t, "/products/add", "", fields, "image_urls", "bangle.png"))
	expectStatus(t, w, http.StatusUnauthorized)

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, multipartRequest(t, "/products/add", admin, fields, "image_urls", "bangle.gif"))
	expectStatus(t, w, http.StatusBadRequest)

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, multipartRequest(t, "/products/add", admin, fields, "image_urls", "bangle.png", "side.jpg"))
	expectStatus(t, w, http.StatusCreated)
	product := decodeObject(t, w)["product"].(map[string]interface{})
	productID := idOf(t, product["id"])
	urls := product["image_urls"].([]interface{})
	if len(urls) != 2 {
		t.Fatalf("image_urls = %v", urls)
	}
	stored := filepath.Join(s.deps.Uploads.Dir(), strings.TrimPrefix(urls[0].(string), "/uploads/"))
	if _, err := os.Stat(stored); err != nil {
		t.Fatalf("uploaded image missing: %v", err)
	}

	w = s.do(http.MethodGet, urls[0].(string), "", nil)
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodGet, "/products/all", "", nil)
	expectStatus(t, w, http.StatusOK)
	if n := len(decodeArray(t, w)); n != 1 {
		t.Fatalf("products = %d, want 1", n)
	}

	w = s.do(http.MethodPost, "/cart/add", "", gin.H{"userId": 7, "productId": productID, "quantity": 1})
	expectStatus(t, w, http.StatusCreated)
	line := decodeObject(t, w)
	if line["name"] != "Bangle" {
		t.Fatalf("cart line not filled from catalog: %v", line)
	}
	expectMoney(t, line["price"], "999.99")

	w = s.do(http.MethodDelete, fmt.Sprintf("/products/%d", productID), admin, nil)
	expectStatus(t, w, http.StatusOK)
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Fatalf("image not removed: %v", err)
	}
	w = s.do(http.MethodGet, fmt.Sprintf("/products/%d", productID), "", nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestLoanAndSellerUploads(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()

	loanFields := map[string]string{"fullname": "Meena", "mobile": "9444444444", "bank": "SBI", "loanamount": "50000"}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, multipartRequest(t, "/loan/add", "", loanFields, "image",
		"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg", "f.jpg"))
	expectStatus(t, w, http.StatusBadRequest)

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, multipartRequest(t, "/loan/add", "", loanFields, "image", "a.jpg"))
	expectStatus(t, w, http.StatusCreated)
	loanID := idOf(t, decodeObject(t, w)["id"])

	w = s.do(http.MethodGet, "/loan/all", "", nil)
	expectStatus(t, w, http.StatusUnauthorized)
	w = s.do(http.MethodGet, "/loan/all", admin, nil)
	expectStatus(t, w, http.StatusOK)
	if n := len(decodeArray(t, w)); n != 1 {
		t.Fatalf("loans = %d, want 1", n)
	}
	w = s.do(http.MethodDelete, fmt.Sprintf("/loan/%d", loanID), admin, nil)
	expectStatus(t, w, http.StatusOK)
	w = s.do(http.MethodDelete, fmt.Sprintf("/loan/%d", loanID), admin, nil)
	expectStatus(t, w, http.StatusNotFound)

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, multipartRequest(t, "/seller/add", "", map[string]string{
		"name": "Old necklace", "purity": "18K", "price": "21000",
	}, "images", "front.png"))
	expectStatus(t, w, http.StatusCreated)
	listingID := idOf(t, decodeObject(t, w)["data"].(map[string]interface{})["id"])

	w = s.do(http.MethodGet, "/seller/all", "", nil)
	expectStatus(t, w, http.StatusOK)
	if n := len(decodeArray(t, w)); n != 1 {
		t.Fatalf("listings = %d, want 1", n)
	}
	w = s.do(http.MethodDelete, fmt.Sprintf("/seller/%d", listingID), admin, nil)
	expectStatus(t, w, http.StatusOK)
}

func TestCheckoutOptionsFromConfig(t *testing.T) {
	cfg := config.Default().Checkout
	cfg.LockTTLSeconds = 20
	cfg.EnrichConcurrency = 3
	cfg.FinishTimeoutSeconds = 45

	opts := checkoutOptions(cfg)
	if opts.LockTTL != 20*time.Second || opts.EnrichConcurrency != 3 || opts.FinishTimeout != 45*time.Second {
		t.Fatalf("checkoutOptions = %+v", opts)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/healthz", "", nil)
	expectStatus(t, w, http.StatusOK)
}
