package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-grooming-manager/internal/adapters/auth/jwtauth"
	"pet-grooming-manager/internal/router"
)

type identity struct {
	userID    string
	companyID string
	role      string
	token     string
}

var (
	owner    = identity{userID: "owner-1", companyID: "co-1"}
	employee = identity{userID: "emp-1", companyID: "co-1", role: "employee"}
	stranger = identity{userID: "owner-2", companyID: "co-2"}
)

func TestHTTP_EndToEnd_PackageLifecycle(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// 1) Catálogo: servicio y tipo de paquete con 2 usos
	serviceID := createID(t, ts.URL, "/services", owner, map[string]any{
		"name":             "Bath",
		"base_price":       "40.00",
		"duration_minutes": 60,
	})
	typeID := createID(t, ts.URL, "/package-types", owner, map[string]any{
		"name":          "Basic",
		"validity_days": 30,
		"price":         "70.00",
		"services": []map[string]any{
			{"service_id": serviceID, "included_uses": 2},
		},
	})

	// 2) Cliente y mascota
	customerID := createID(t, ts.URL, "/customers", owner, map[string]any{
		"name":  "Ana",
		"email": "ana@example.com",
		"phone": "+5491100000000",
	})
	petID := createID(t, ts.URL, "/customers/"+customerID+"/pets", owner, map[string]any{
		"name":    "Luna",
		"species": "dog",
		"breed":   "Poodle",
	})

	// 3) Venta
	var pkg packageBody
	{
		st, body := doReq(t, ts.URL, "POST", "/packages", owner, map[string]any{
			"customer_id":     customerID,
			"package_type_id": typeID,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 purchase, got %d body=%s", st, string(body))
		}
		decode(t, body, &pkg)
		if pkg.RemainingUses != 2 || pkg.Status != "active" || !pkg.Usable {
			t.Fatalf("unexpected purchased package: %+v", pkg)
		}
	}

	// 4) Dos usos lo consumen, el tercero choca
	for i := 0; i < 2; i++ {
		st, body := doReq(t, ts.URL, "POST", "/packages/"+pkg.ID+"/usages", owner, map[string]any{
			"pet_id":     petID,
			"service_id": serviceID,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 usage %d, got %d body=%s", i, st, string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/packages/"+pkg.ID+"/usages", owner, map[string]any{
			"pet_id":     petID,
			"service_id": serviceID,
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 on exhausted package, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/packages/"+pkg.ID, owner, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get package, got %d", st)
		}
		var got packageBody
		decode(t, body, &got)
		if got.RemainingUses != 0 || got.Status != "consumed" || got.Usable {
			t.Fatalf("expected consumed package, got %+v", got)
		}
	}

	// 5) Renovación: una sola vez
	var renewed packageBody
	{
		st, body := doReq(t, ts.URL, "POST", "/packages/"+pkg.ID+"/renew", owner, nil)
		if st != http.StatusCreated {
			t.Fatalf("expected 201 renew, got %d body=%s", st, string(body))
		}
		decode(t, body, &renewed)
		if renewed.RemainingUses != 2 || renewed.RenewedFromID == nil || *renewed.RenewedFromID != pkg.ID {
			t.Fatalf("unexpected successor: %+v", renewed)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/packages/"+pkg.ID+"/renew", owner, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 on second renew, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/packages/"+renewed.ID+"/chain", owner, nil)
		var chain []packageBody
		decode(t, body, &chain)
		if st != http.StatusOK || len(chain) != 2 || chain[0].ID != pkg.ID {
			t.Fatalf("unexpected chain: %d %s", st, string(body))
		}
	}

	// 6) Tablero
	{
		st, body := doReq(t, ts.URL, "GET", "/dashboard/metrics", owner, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 metrics, got %d", st)
		}
		var m struct {
			ActivePackages              int     `json:"active_packages"`
			OperationallyActivePackages int     `json:"operationally_active_packages"`
			ChurnRate                   float64 `json:"churn_rate"`
		}
		decode(t, body, &m)
		if m.ActivePackages != 1 || m.OperationallyActivePackages != 1 || m.ChurnRate != 0 {
			t.Fatalf("unexpected metrics: %s", string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/dashboard/revenue", owner, nil)
		var rows []struct {
			Name     string `json:"name"`
			Packages int    `json:"packages"`
		}
		decode(t, body, &rows)
		if st != http.StatusOK || len(rows) != 1 || rows[0].Name != "Basic" || rows[0].Packages != 1 {
			t.Fatalf("unexpected revenue: %d %s", st, string(body))
		}
	}

	// 7) Otra empresa no ve nada
	{
		st, _ := doReq(t, ts.URL, "GET", "/packages/"+renewed.ID, stranger, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 across tenants, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/packages/"+renewed.ID+"/usages", stranger, map[string]any{
			"pet_id":     petID,
			"service_id": serviceID,
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 usage across tenants, got %d", st)
		}
	}
}

func TestHTTP_RequiresAuthAndRole(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	if st, _ := doReq(t, ts.URL, "GET", "/health", identity{}, nil); st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/customers", identity{}, nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/services", employee, nil); st != http.StatusOK {
		t.Fatalf("employee should read the catalog, got %d", st)
	}
	st, _ := doReq(t, ts.URL, "POST", "/services", employee, map[string]any{
		"name":       "Nails",
		"base_price": "10",
	})
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 for employee writing catalog, got %d", st)
	}
}

func TestHTTP_SignupLoginWithJWT(t *testing.T) {
	mgr := jwtauth.NewManager(jwtauth.Config{Secret: "0123456789abcdef-test", Issuer: "test", TTL: time.Hour})
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: mgr, Tokens: mgr}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "POST", "/signup", identity{}, map[string]any{
		"company_name": "Guau SRL",
		"owner_name":   "Sofía",
		"owner_email":  "sofia@guau.com",
		"password":     "supersecret",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 signup, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "POST", "/auth/login", identity{}, map[string]any{
		"email":    "sofia@guau.com",
		"password": "supersecret",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
	}
	var login struct {
		Token string `json:"token"`
	}
	decode(t, body, &login)
	if login.Token == "" {
		t.Fatalf("missing token: %s", string(body))
	}

	if st, _ := doReq(t, ts.URL, "GET", "/me", identity{token: login.Token}, nil); st != http.StatusOK {
		t.Fatalf("expected 200 /me with token, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/me", owner, nil); st != http.StatusUnauthorized {
		t.Fatalf("debug headers must be ignored when a verifier is configured, got %d", st)
	}
}

type packageBody struct {
	ID            string  `json:"id"`
	RemainingUses int     `json:"remaining_uses"`
	Status        string  `json:"status"`
	Usable        bool    `json:"usable"`
	RenewedFromID *string `json:"renewed_from_id"`
}

func createID(t *testing.T, baseURL, path string, who identity, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", path, who, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 POST %s, got %d body=%s", path, st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("POST %s: missing id body=%s", path, string(body))
	}
	return resp.ID
}

func decode(t *testing.T, body []byte, out any) {
	t.Helper()
	if err := json.Unmarshal(body, out); err != nil {
		t.Fatalf("decode %s: %v", string(body), err)
	}
}

func doReq(t *testing.T, baseURL, method, path string, who identity, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if who.userID != "" {
		req.Header.Set("X-Debug-User-ID", who.userID)
		req.Header.Set("X-Debug-Company-ID", who.companyID)
		if who.role != "" {
			req.Header.Set("X-Debug-Role", who.role)
		}
	}
	if who.token != "" {
		req.Header.Set("Authorization", "Bearer "+who.token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
