package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroverde/avotrace/internal/inventory"
	"github.com/agroverde/avotrace/internal/lots"
	"github.com/agroverde/avotrace/internal/models"
	"github.com/agroverde/avotrace/internal/orders"
	"github.com/agroverde/avotrace/internal/rapport"
	"github.com/agroverde/avotrace/internal/server"
	"github.com/agroverde/avotrace/internal/tracking"
	"github.com/agroverde/avotrace/internal/uploads"
	"github.com/agroverde/avotrace/internal/users"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 50, G: 130, B: 50, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	fetch := func(ctx context.Context, url string) ([]byte, error) { return buf.Bytes(), nil }

	rapportSvc := rapport.NewService(
		rapport.NewMemoryStore(),
		uploads.NewMemory(),
		rapport.NewMemoryPDFStore(),
		fetch,
		&rapport.MemoryTrigger{},
	)
	srv := server.New(
		lots.NewService(lots.NewMemoryStore()),
		rapportSvc,
		orders.NewService(orders.NewMemoryStore()),
		tracking.NewService(tracking.NewMemoryStore()),
		users.NewService(users.NewMemoryStore(), uploads.NewMemory()),
		inventory.NewService(inventory.NewMemoryStore()),
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func validLot() models.QualityControlLot {
	return models.QualityControlLot{
		LotNumber: "AV-2026-001",
		FormData: models.LotFormData{
			Product:  "Avocat",
			Variety:  "Hass",
			Campaign: "2026",
			Palettes: []models.Palette{{Number: 1, BoxCount: 80, GrossWeight: 340, NetWeight: 320}},
		},
		Calibres: []string{"12", "14"},
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsExposed(t *testing.T) {
	ts := newTestServer(t)
	// Generate at least one instrumented request first.
	resp, err := http.Get(ts.URL + "/api/lots")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "avotrace_http_requests_total")
}

func TestLotLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/api/lots", validLot())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[models.QualityControlLot](t, resp)
	assert.Equal(t, models.LotStatusDraft, created.Status)
	assert.Equal(t, 80, created.FormData.Results.TotalBoxes)

	resp = postJSON(t, ts, "/api/lots/"+created.ID+"/submit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	submitted := decodeBody[models.QualityControlLot](t, resp)
	assert.Equal(t, models.LotStatusSubmitted, submitted.Status)
	assert.Equal(t, models.PhaseChief, submitted.Phase)

	// A rejection without a comment is a validation failure.
	resp = postJSON(t, ts, "/api/lots/"+created.ID+"/approve", map[string]any{
		"chiefEmail": "chef@agroverde.ma",
		"approved":   false,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts, "/api/lots/"+created.ID+"/approve", map[string]any{
		"chiefEmail": "chef@agroverde.ma",
		"comment":    "calibrage conforme",
		"approved":   true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	approved := decodeBody[models.QualityControlLot](t, resp)
	assert.Equal(t, models.LotStatusChiefApproved, approved.Status)
}

func TestLotNotFoundIs404(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/lots/does-not-exist")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrderInvalidTransitionIs409(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/api/orders", models.AvocadoOrder{
		ClientName:        "Import BV",
		Items:             []models.OrderItem{{Caliber: "12", Quantity: 10, Type: "bio", ProcessingTime: "48h"}},
		RequestedDelivery: time.Now().Add(72 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decodeBody[models.AvocadoOrder](t, resp)

	// pending -> completed skips processing.
	resp = postJSON(t, ts, "/api/orders/"+order.ID+"/status", map[string]string{"status": models.OrderStatusCompleted})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestOrderCheckItemOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/api/orders", models.AvocadoOrder{
		ClientName:        "Import BV",
		Items:             []models.OrderItem{{Caliber: "12", Quantity: 10, Type: "bio", ProcessingTime: "48h"}},
		RequestedDelivery: time.Now().Add(72 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decodeBody[models.AvocadoOrder](t, resp)

	resp = postJSON(t, ts, "/api/orders/"+order.ID+"/check-item", map[string]any{
		"itemKey": "bio-12-48h",
		"checked": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	checked := decodeBody[models.AvocadoOrder](t, resp)
	assert.True(t, checked.CheckedItems["bio-12-48h"])
}

func saveCalibreForm(t *testing.T, imageCount int) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("lotNumber", "AV-2026-001"))
	require.NoError(t, mw.WriteField("calibre", "12"))
	require.NoError(t, mw.WriteField("calibres", "12"))
	require.NoError(t, mw.WriteField("mode", models.ResultModeManual))
	require.NoError(t, mw.WriteField("poids", "240"))
	require.NoError(t, mw.WriteField("firmness", "0.7"))
	for i := 0; i < imageCount; i++ {
		fw, err := mw.CreateFormFile("images", fmt.Sprintf("photo_%02d.jpg", i+1))
		require.NoError(t, err)
		_, err = fw.Write([]byte("jpeg-bytes"))
		require.NoError(t, err)
	}
	fw, err := mw.CreateFormFile("pureeImage", "puree.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("puree-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestSaveCalibreOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := saveCalibreForm(t, 11)
	resp, err := http.Post(ts.URL+"/api/rapports/lot-1/save-calibre", contentType, body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, contentType = saveCalibreForm(t, models.ImagesPerCalibre)
	resp, err = http.Post(ts.URL+"/api/rapports/lot-1/save-calibre", contentType, body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeBody[struct {
		Rapport     *models.QualityRapport `json:"rapport"`
		AllComplete bool                   `json:"allComplete"`
	}](t, resp)
	assert.True(t, result.AllComplete)
	assert.Len(t, result.Rapport.Images["12"], models.ImagesPerCalibre)
}

func fullTracking() models.AvocadoTracking {
	date := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	return models.AvocadoTracking{
		LotNumber: "AV-2026-001",
		Harvest:   models.HarvestRecord{Date: date, Producer: "Coop Souss", Variety: "Hass", GrossKg: 1500},
		Transport: models.TransportRecord{Date: date, Carrier: "TransFruit"},
		Sorting:   models.SortingRecord{Date: date, AcceptedKg: 1400, RejectedKg: 100},
		Packaging: models.PackagingRecord{Date: date, BoxType: "4kg", BoxCount: 350},
		Storage:   models.StorageRecord{Date: date, Room: "F2"},
		Export:    models.ExportRecord{Date: date, Destination: "Rotterdam"},
		Delivery:  models.DeliveryRecord{Date: date, Client: "Import BV", Received: true},
	}
}

func TestTrackingCertificateDownload(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/api/tracking/submit", fullTracking())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	submitted := decodeBody[models.AvocadoTracking](t, resp)

	resp, err := http.Get(ts.URL + "/api/tracking/" + submitted.ID + "/certificate")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	var pdf bytes.Buffer
	_, err = pdf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF")))
}

func TestTrackingDraftSavesWithoutValidation(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/api/tracking/draft", models.AvocadoTracking{LotNumber: "AV-2026-009", LastStep: 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	draft := decodeBody[models.AvocadoTracking](t, resp)
	assert.Equal(t, models.TrackingStatusDraft, draft.Status)
	assert.Equal(t, 3, draft.LastStep)
}

func TestUsersSections(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/users/sections?role=controller")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sections := decodeBody[struct {
		Role     string   `json:"role"`
		Sections []string `json:"sections"`
	}](t, resp)
	assert.Contains(t, sections.Sections, "rapports")

	resp, err = http.Get(ts.URL + "/api/users/sections?role=superuser")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInventoryConsumeOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/api/inventory", models.InventoryItem{Caliber: "14", BoxType: "4kg", Quantity: 50, Unit: "caisse"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	item := decodeBody[models.InventoryItem](t, resp)

	resp = postJSON(t, ts, "/api/inventory/"+item.ID+"/consume", map[string]any{"quantity": 30, "note": "expédition"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	after := decodeBody[models.InventoryItem](t, resp)
	assert.Equal(t, 20, after.Quantity)

	resp = postJSON(t, ts, "/api/inventory/"+item.ID+"/consume", map[string]any{"quantity": 25})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMalformedJSONIs400(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/api/lots", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func boxFileForm(t *testing.T, name string, size int) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(make([]byte, size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestBoxFileUploadOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	// A document above the calibre image ceiling still fits in a box.
	body, contentType := boxFileForm(t, "facture.pdf", 6<<20)
	resp, err := http.Post(ts.URL+"/api/users/uid-7/boxes/box-3/files", contentType, body)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	result := decodeBody[struct {
		URL string `json:"url"`
	}](t, resp)
	assert.Equal(t, "mem://users/uid-7/boxes/box-3/files/facture.pdf", result.URL)

	body, contentType = boxFileForm(t, "archive.zip", 11<<20)
	resp, err = http.Post(ts.URL+"/api/users/uid-7/boxes/box-3/files", contentType, body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
