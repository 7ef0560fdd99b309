package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	intconfig "quickride/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
)

var busColumns = []string{
	"id", "state", "route_name", "route_link", "busname", "bus_type",
	"start_time", "end_time", "duration", "price", "star_rating", "seats_available",
}

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	prev := intconfig.Active()
	intconfig.Configure(intconfig.Env{DBDriver: intconfig.DriverMySQL, DBTable: "redbus_details"})
	intconfig.DB = db
	t.Cleanup(func() {
		intconfig.DB = nil
		intconfig.Configure(prev)
		db.Close()
	})

	return NewRouter(intconfig.Env{}), mock
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func parseHTML(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(w.Body)
	if err != nil {
		t.Fatalf("html parse error: %v", err)
	}
	return doc
}

func expectOptions(mock sqlmock.Sqlmock, state string) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT state FROM redbus_details")).
		WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow("Kerala").AddRow("Telangana"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT route_name FROM redbus_details WHERE state = ?")).
		WithArgs(state).
		WillReturnRows(sqlmock.NewRows([]string{"route_name"}).AddRow("Kochi to Chennai").AddRow("Kozhikode to Bangalore"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT MIN(price), MAX(price) FROM redbus_details WHERE state = ?")).
		WithArgs(state).
		WillReturnRows(sqlmock.NewRows([]string{"min", "max"}).AddRow(300.0, 1800.0))
}

func TestHomeTab(t *testing.T) {
	r, _ := setupRouter(t)

	w := get(r, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	doc := parseHTML(t, w)
	if !strings.Contains(doc.Find("h1").Text(), "Welcome to REDBUS!") {
		t.Fatalf("missing title, got %q", doc.Find("h1").Text())
	}
	if n := doc.Find("ul.features li").Length(); n != 4 {
		t.Fatalf("expected 4 features, got %d", n)
	}
	if active := strings.TrimSpace(doc.Find("nav.menu a.active").Text()); active != "Home" {
		t.Fatalf("expected Home tab active, got %q", active)
	}
}

func TestFindTabDefaultsAndResults(t *testing.T) {
	r, mock := setupRouter(t)
	expectOptions(mock, "Kerala")
	mock.ExpectQuery("FROM redbus_details WHERE 1=1 AND state = \\? AND bus_type = \\? AND price BETWEEN \\? AND \\?").
		WithArgs("Kerala", "A/C", 300.0, 1800.0).
		WillReturnRows(sqlmock.NewRows(busColumns).
			AddRow(1, "Kerala", "Kochi to Chennai", "https://www.redbus.in/bus-tickets/kochi-to-chennai", "KSRTC Swift", "A/C", "21:00:00", "06:30:00", "09h 30m", 850.0, 4.2, 12))

	w := get(r, "/find")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	doc := parseHTML(t, w)

	if got := doc.Find("select#state option[selected]").Text(); got != "Kerala" {
		t.Fatalf("expected first state selected, got %q", got)
	}
	if n := doc.Find("select#route option").Length(); n != 2 {
		t.Fatalf("expected 2 routes, got %d", n)
	}
	if v, _ := doc.Find("input[name=bus_type][checked]").Attr("value"); v != "A/C" {
		t.Fatalf("expected A/C checked, got %q", v)
	}
	if v, _ := doc.Find("input[name=price_max]").Attr("value"); v != "1800" {
		t.Fatalf("expected price max prefilled, got %q", v)
	}

	rows := doc.Find("table.buses tbody tr")
	if rows.Length() != 1 {
		t.Fatalf("expected 1 result row, got %d", rows.Length())
	}
	cells := rows.First().Find("td")
	if cells.Eq(0).Text() != "Kochi to Chennai" || cells.Eq(3).Text() != "21:00" || cells.Eq(6).Text() != "INR 850.00" {
		t.Fatalf("unexpected row cells: %q", cells.Text())
	}
	href, _ := doc.Find(".exports a").First().Attr("href")
	if !strings.HasPrefix(href, "/api/buses/export.csv?") || !strings.Contains(href, "state=Kerala") {
		t.Fatalf("unexpected export link %q", href)
	}
	if doc.Find(".error").Length() != 0 {
		t.Fatalf("unexpected error banner: %s", doc.Find(".error").Text())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindTabStoreFailureShowsMessage(t *testing.T) {
	r, mock := setupRouter(t)
	boom := errors.New("Access denied for user 'root'@'localhost'")
	mock.ExpectQuery("SELECT DISTINCT state").WillReturnError(boom)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT MIN(price), MAX(price) FROM redbus_details")).WillReturnError(boom)
	mock.ExpectQuery("FROM redbus_details WHERE 1=1 AND bus_type = \\?").
		WithArgs("A/C").
		WillReturnError(boom)

	w := get(r, "/find")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	doc := parseHTML(t, w)
	banners := doc.Find(".error")
	if banners.Length() != 1 || !strings.Contains(banners.Text(), "Data loading error: Access denied") {
		t.Fatalf("expected one data loading banner, got %q", banners.Text())
	}
	if !strings.Contains(doc.Find("p.empty").Text(), "No results found for the selected filters.") {
		t.Fatalf("expected empty-result message")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindTabInvalidInputSkipsSearch(t *testing.T) {
	r, mock := setupRouter(t)
	expectOptions(mock, "Kerala")

	w := get(r, "/find?state=Kerala&seats=99")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	doc := parseHTML(t, w)
	if !strings.Contains(doc.Find(".error").Text(), "seats: must be between 0 and 50") {
		t.Fatalf("expected validation banner, got %q", doc.Find(".error").Text())
	}
	if doc.Find("table.buses").Length() != 0 {
		t.Fatalf("no table expected on invalid input")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindTabStateSwitchResetsRoutesAndPrice(t *testing.T) {
	r, mock := setupRouter(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT state FROM redbus_details")).
		WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow("Kerala").AddRow("Telangana"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT route_name FROM redbus_details WHERE state = ?")).
		WithArgs("Telangana").
		WillReturnRows(sqlmock.NewRows([]string{"route_name"}).AddRow("Hyderabad to Vijayawada"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT MIN(price), MAX(price) FROM redbus_details WHERE state = ?")).
		WithArgs("Telangana").
		WillReturnRows(sqlmock.NewRows([]string{"min", "max"}).AddRow(100.0, 5000.0))
	mock.ExpectQuery("FROM redbus_details WHERE 1=1 AND state = \\? AND bus_type = \\? AND price BETWEEN \\? AND \\? ORDER BY").
		WithArgs("Telangana", "A/C", 100.0, 5000.0).
		WillReturnRows(sqlmock.NewRows(busColumns).
			AddRow(4, "Telangana", "Hyderabad to Vijayawada", "", "TSRTC Garuda", "A/C", "07:00:00", "12:30:00", "05h 30m", 720.0, 4.0, 20))

	// Kerala's form resubmitted after picking Telangana.
	w := get(r, "/find?prev_state=Kerala&state=Telangana&route=Kochi+to+Chennai&bus_type=A%2FC&price_min=300&price_max=1800")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	doc := parseHTML(t, w)
	if v, _ := doc.Find("input[name=prev_state]").Attr("value"); v != "Telangana" {
		t.Fatalf("expected prev_state to follow the new state, got %q", v)
	}
	if n := doc.Find("select#route option[selected]").Length(); n != 0 {
		t.Fatalf("expected no route selected, got %d", n)
	}
	if v, _ := doc.Find("input[name=price_min]").Attr("value"); v != "100" {
		t.Fatalf("expected price min reset to 100, got %q", v)
	}
	if n := doc.Find("table.buses tbody tr").Length(); n != 1 {
		t.Fatalf("expected 1 result row, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindTabDropsRoutesOfOtherStates(t *testing.T) {
	r, mock := setupRouter(t)
	expectOptions(mock, "Kerala")
	mock.ExpectQuery("FROM redbus_details WHERE 1=1 AND state = \\? AND route_name IN \\(\\?\\) AND bus_type = \\?").
		WithArgs("Kerala", "Kochi to Chennai", "A/C", 300.0, 1800.0).
		WillReturnRows(sqlmock.NewRows(busColumns))

	w := get(r, "/find?state=Kerala&route=Kochi+to+Chennai&route=Hyderabad+to+Vijayawada")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	doc := parseHTML(t, w)
	if got := doc.Find("select#route option[selected]").Text(); got != "Kochi to Chennai" {
		t.Fatalf("unexpected selected routes %q", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListBusesJSON(t *testing.T) {
	r, mock := setupRouter(t)
	mock.ExpectQuery("WHERE 1=1 AND state = \\? AND route_name IN \\(\\?, \\?\\) AND bus_type NOT LIKE \\? AND bus_type NOT LIKE \\? AND seats_available >= \\? AND start_time >= \\?").
		WithArgs("Kerala", "Kochi to Chennai", "Kozhikode to Bangalore", "%Sleeper%", "%Semi-Sleeper%", 5, "06:00").
		WillReturnRows(sqlmock.NewRows(busColumns).
			AddRow(3, "Kerala", "Kochi to Chennai", "", "Volvo Multi-Axle", "Volvo Multi-Axle A/C Seater", "07:00:00", "15:00:00", "08h 00m", 1200.0, 4.6, 20))

	w := get(r, "/api/buses?state=Kerala&route=Kochi+to+Chennai&route=Kozhikode+to+Bangalore&bus_type=others&seats=5&start_time=06:00")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data []struct {
			ID      int64  `json:"id"`
			BusType string `json:"bus_type"`
		} `json:"data"`
		Count       int      `json:"count"`
		QueryErrors []string `json:"query_errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Count != 1 || resp.Data[0].ID != 3 || len(resp.QueryErrors) != 0 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListBusesStoreFailureIsEmptyWithMessage(t *testing.T) {
	r, mock := setupRouter(t)
	mock.ExpectQuery("FROM redbus_details").WillReturnError(errors.New("server has gone away"))

	w := get(r, "/api/buses?bus_type=A/C")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"data":[]`) || !strings.Contains(body, "Data loading error: server has gone away") {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestListBusesValidationError(t *testing.T) {
	r, _ := setupRouter(t)

	w := get(r, "/api/buses?price_min=10")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "validation_error") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestFilterOptionsJSON(t *testing.T) {
	r, mock := setupRouter(t)
	expectOptions(mock, "Telangana")

	w := get(r, "/api/filters?state=Telangana")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Options struct {
			SelectedState string   `json:"selected_state"`
			Routes        []string `json:"routes"`
			PriceMax      float64  `json:"price_max"`
			SeatsMax      int      `json:"seats_max"`
		} `json:"options"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Options.SelectedState != "Telangana" || len(resp.Options.Routes) != 2 || resp.Options.PriceMax != 1800 || resp.Options.SeatsMax != 50 {
		t.Fatalf("unexpected options %+v", resp.Options)
	}
}

func TestExportCSVDownload(t *testing.T) {
	r, mock := setupRouter(t)
	mock.ExpectQuery("FROM redbus_details WHERE 1=1 AND bus_type = \\?").
		WithArgs("NON A/C").
		WillReturnRows(sqlmock.NewRows(busColumns).
			AddRow(9, "Goa", "Goa to Pune", "", "Neeta Travels", "NON A/C", "18:00:00", "05:00:00", "11h 00m", 650.0, 0.0, 7))

	w := get(r, "/api/buses/export.csv?bus_type=NON+A/C")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") || !strings.Contains(cd, ".csv") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	if !strings.Contains(w.Body.String(), "Goa to Pune") {
		t.Fatalf("csv missing row: %s", w.Body.String())
	}
}

func TestExportPDFStoreFailure(t *testing.T) {
	r, mock := setupRouter(t)
	mock.ExpectQuery("FROM redbus_details").WillReturnError(errors.New("timeout"))

	w := get(r, "/api/buses/export.pdf")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestExportMisconfiguredTable(t *testing.T) {
	r, _ := setupRouter(t)
	intconfig.Configure(intconfig.Env{DBDriver: intconfig.DriverMySQL, DBTable: "redbus details"})

	w := get(r, "/api/buses/export.csv")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "listing table is misconfigured") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestSystemEndpoints(t *testing.T) {
	r, _ := setupRouter(t)

	if w := get(r, "/api/health"); w.Code != http.StatusOK {
		t.Fatalf("health returned %d", w.Code)
	}
	w := get(r, "/api/routes")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/api/buses/export.pdf") {
		t.Fatalf("routes listing unexpected: %d %s", w.Code, w.Body.String())
	}
	if w := get(r, "/metrics"); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "quickride_http_requests_total") {
		t.Fatalf("metrics endpoint unexpected: %d", w.Code)
	}
	if w := get(r, "/nope"); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDBCheck(t *testing.T) {
	r, mock := setupRouter(t)
	mock.ExpectQuery("information_schema\\.tables").WithArgs("redbus_details").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("redbus_details"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM redbus_details")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1284))

	w := get(r, "/api/db-check")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"listings":1284`) {
		t.Fatalf("unexpected db-check response %d %s", w.Code, w.Body.String())
	}
}
