//go:build integration

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/aevon-lab/toppick/internal/core/reportdef"
	"github.com/aevon-lab/toppick/internal/core/storage"
	"github.com/aevon-lab/toppick/internal/report"
	"github.com/aevon-lab/toppick/internal/server"
	"github.com/stretchr/testify/require"
)

// fixtureInserts gives Canada a tie between tracks 9 and 10, Brazil a
// winner (404) without a track row, and one customer without a country.
var fixtureInserts = []string{
	`INSERT INTO artists (ArtistId, Name) VALUES (1, 'AC/DC'), (2, 'Accept')`,
	`INSERT INTO albums (AlbumId, Title, ArtistId) VALUES (1, 'For Those About To Rock We Salute You', 1), (2, 'Balls to the Wall', 2)`,
	`INSERT INTO genres (GenreId, Name) VALUES (1, 'Rock'), (2, 'Metal')`,
	`INSERT INTO tracks (TrackId, Name, AlbumId, GenreId) VALUES
		(1, 'For Those About To Rock (We Salute You)', 1, 1),
		(9, 'Evil Walks', 1, 1),
		(10, 'Balls to the Wall', 2, 2)`,
	`INSERT INTO customers (CustomerId, FirstName, LastName, Country) VALUES
		(1, 'Luis', 'Goncalves', 'Brazil'),
		(2, 'Francois', 'Tremblay', 'Canada'),
		(3, 'Mark', 'Philips', 'Canada'),
		(4, 'Nobody', 'Anywhere', NULL)`,
	`INSERT INTO invoices (InvoiceId, CustomerId, BillingCity, BillingCountry) VALUES
		(1, 1, 'Sao Paulo', 'Brazil'),
		(2, 2, 'Montreal', 'Canada'),
		(3, 3, 'Edmonton', 'Canada'),
		(4, 4, NULL, NULL)`,
	`INSERT INTO invoice_items (InvoiceLineId, InvoiceId, TrackId, UnitPrice, Quantity) VALUES
		(1, 1, 404, 0.99, 1),
		(2, 1, 404, 0.99, 1),
		(3, 1, 1, 0.99, 3),
		(4, 2, 9, 0.99, 1),
		(5, 3, 10, 0.99, 1),
		(6, 4, 10, 0.99, 1),
		(7, 4, 10, 0.99, 1)`,
}

type integrationHarness struct {
	baseURL    string
	client     *http.Client
	cancel     context.CancelFunc
	serverDone chan error
	source     storage.Source
}

func (h *integrationHarness) close(t *testing.T) {
	t.Helper()

	h.cancel()
	select {
	case <-h.serverDone:
	case <-time.After(5 * time.Second):
		t.Log("server shutdown timed out")
	}

	require.NoError(t, h.source.Close())
}

func seedFixture(t *testing.T, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, stmt := range fixtureInserts {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
}

func startHarness(t *testing.T, source storage.Source) *integrationHarness {
	t.Helper()

	repo, err := reportdef.NewFileSystemRepository(filepath.Join(projectRoot(t), "config", "reports"))
	require.NoError(t, err)
	repo.EnsureDefault()

	svc := report.NewService(source, repo, report.Options{WorkerCount: 4, VerifyPushdown: true})

	port := freePort(t)
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	httpServer := server.New(addr, source, "release")
	svc.RegisterRoutes(httpServer.Engine)

	ctx, cancel := context.WithCancel(context.Background())
	serverDone := make(chan error, 1)
	go func() { serverDone <- httpServer.Run(ctx) }()

	baseURL := "http://" + addr
	waitForHealthy(t, baseURL)

	return &integrationHarness{
		baseURL:    baseURL,
		client:     &http.Client{Timeout: 30 * time.Second},
		cancel:     cancel,
		serverDone: serverDone,
		source:     source,
	}
}

type reportRow struct {
	GroupKey           string  `json:"group_key"`
	ItemKey            string  `json:"item_key"`
	Count              int64   `json:"count"`
	Score              string  `json:"score"`
	DisplayName        *string `json:"display_name"`
	SecondaryAttribute *string `json:"secondary_attribute"`
}

type reportBody struct {
	RunID            string      `json:"run_id"`
	Groups           int         `json:"groups"`
	Rows             []reportRow `json:"rows"`
	PushdownVerified *bool       `json:"pushdown_verified"`
}

func getReport(t *testing.T, h *integrationHarness, path string) (int, reportBody) {
	t.Helper()

	status, raw := getJSON(t, h.client, h.baseURL+path)
	var body reportBody
	if status == http.StatusOK {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return status, body
}

func rowsByGroup(rows []reportRow) map[string]reportRow {
	out := make(map[string]reportRow, len(rows))
	for _, r := range rows {
		out[r.GroupKey] = r
	}
	return out
}

func waitForHealthy(t *testing.T, baseURL string) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("server did not become healthy at %s", baseURL)
}

func getJSON(t *testing.T, client *http.Client, endpoint string) (int, []byte) {
	t.Helper()

	resp, err := client.Get(endpoint)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func projectRoot(t *testing.T) string {
	t.Helper()

	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)
	return root
}
