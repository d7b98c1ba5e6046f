package handler_test

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"path/filepath"
	"sync"
	"testing"

	"github.com/msomdec/factcheck/internal/extract"
	"github.com/msomdec/factcheck/internal/handler"
	"github.com/msomdec/factcheck/internal/repository/sqlite"
	"github.com/msomdec/factcheck/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

const sampleCritique = "**Credibility Score:** 8/10\n**Verdict:** Reliable\n\n### Analysis\nSolid sourcing."

// stubAnalyzer returns a fixed critique, or err when set.
type stubAnalyzer struct {
	mu       sync.Mutex
	response string
	err      error
	inputs   []string
}

func (s *stubAnalyzer) Analyze(_ context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, text)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type testServices struct {
	db       *sqlite.DB
	auth     *service.AuthService
	analysis *service.AnalysisService
	history  *service.HistoryService
	analyzer *stubAnalyzer
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	analyzer := &stubAnalyzer{response: sampleCritique}
	history := service.NewHistoryService(db.Users())
	return &testServices{
		db:       db,
		auth:     service.NewAuthService(db.Users(), testJWTSecret, 4),
		analysis: service.NewAnalysisService(extract.New(0), analyzer, history, nil),
		history:  history,
		analyzer: analyzer,
	}
}

func newTestAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	return newTestServices(t).auth
}

func (s *testServices) mux() *http.ServeMux {
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, s.auth, s.analysis, s.history, false)
	return mux
}

// loginToken registers username and returns a session token for it.
func (s *testServices) loginToken(t *testing.T, username string) string {
	t.Helper()
	ctx := context.Background()
	if _, err := s.auth.Register(ctx, username, "pw1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, err := s.auth.Login(ctx, username, "pw1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return token
}

func noRedirectClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse // don't follow redirects automatically
		},
	}
}

var _ service.Analyzer = (*stubAnalyzer)(nil)
