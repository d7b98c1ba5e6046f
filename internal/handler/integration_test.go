package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/msomdec/factcheck/internal/domain"
)

// articleServer serves a page with enough visible text to pass extraction.
func articleServer(t *testing.T) *httptest.Server {
	t.Helper()
	body := strings.Repeat("The council approved the budget after a long debate.  ", 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/story":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprintf(w, `<html><head><title>Budget passes</title><script>var tracking = 1;</script></head>
<body><article><h1>Budget passes</h1><p>%s</p></article></body></html>`, body)
		case "/empty":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, `<html><body><div id="app"></div><script>render()</script></body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestIntegration_RegisterLoginAnalyzeHistoryLogout(t *testing.T) {
	svc := newTestServices(t)
	srv := httptest.NewServer(svc.mux())
	defer srv.Close()
	client := noRedirectClient(t)

	// 1. Register alice.
	resp, err := client.PostForm(srv.URL+"/register", url.Values{
		"username":         {"alice"},
		"password":         {"pw1"},
		"confirm_password": {"pw1"},
	})
	if err != nil {
		t.Fatalf("POST /register: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("register: expected 303 redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("register: expected redirect to /login, got %s", loc)
	}

	// 2. Registering again is rejected.
	resp, err = client.PostForm(srv.URL+"/register", url.Values{
		"username":         {"alice"},
		"password":         {"pw2"},
		"confirm_password": {"pw2"},
	})
	if err != nil {
		t.Fatalf("POST /register again: %v", err)
	}
	if body := readBody(t, resp); resp.StatusCode != http.StatusConflict || !strings.Contains(body, "Username already exists") {
		t.Fatalf("duplicate register: expected 409 with message, got %d", resp.StatusCode)
	}

	// 3. Wrong password.
	resp, err = client.PostForm(srv.URL+"/login", url.Values{
		"username": {"alice"},
		"password": {"pw2"},
	})
	if err != nil {
		t.Fatalf("POST /login wrong: %v", err)
	}
	if body := readBody(t, resp); resp.StatusCode != http.StatusUnauthorized || !strings.Contains(body, "Invalid username or password.") {
		t.Fatalf("wrong password: expected 401 with message, got %d", resp.StatusCode)
	}

	// 4. Login.
	resp, err = client.PostForm(srv.URL+"/login", url.Values{
		"username": {"alice"},
		"password": {"pw1"},
	})
	if err != nil {
		t.Fatalf("POST /login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login: expected 303 redirect, got %d", resp.StatusCode)
	}

	// 5. Analyze pasted text.
	resp, err = client.PostForm(srv.URL+"/analyze", url.Values{
		"mode": {"text"},
		"text": {"Some pasted article."},
	})
	if err != nil {
		t.Fatalf("POST /analyze: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analyze: expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "band-reliable") || !strings.Contains(body, "Solid sourcing.") {
		t.Fatal("analyze: expected rendered critique with score band")
	}

	// 6. History lists the analysis.
	resp, err = client.Get(srv.URL + "/history")
	if err != nil {
		t.Fatalf("GET /history: %v", err)
	}
	body = readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, domain.SourcePastedText) || !strings.Contains(body, domain.KindNewsAnalysis) {
		t.Fatal("history: expected the pasted-text entry")
	}

	// 7. Logout, then protected pages redirect to login.
	resp, err = client.PostForm(srv.URL+"/logout", nil)
	if err != nil {
		t.Fatalf("POST /logout: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("logout: expected 303 redirect, got %d", resp.StatusCode)
	}

	resp, err = client.Get(srv.URL + "/history")
	if err != nil {
		t.Fatalf("GET /history after logout: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("history after logout: expected 303, got %d", resp.StatusCode)
	}
}

func TestIntegration_RegisterPasswordMismatch(t *testing.T) {
	srv := httptest.NewServer(newTestServices(t).mux())
	defer srv.Close()

	resp, err := noRedirectClient(t).PostForm(srv.URL+"/register", url.Values{
		"username":         {"alice"},
		"password":         {"pw1"},
		"confirm_password": {"pw2"},
	})
	if err != nil {
		t.Fatalf("POST /register: %v", err)
	}
	if body := readBody(t, resp); resp.StatusCode != http.StatusUnprocessableEntity || !strings.Contains(body, "Passwords do not match.") {
		t.Fatalf("expected 422 mismatch, got %d", resp.StatusCode)
	}
}

func postJSON(t *testing.T, client *http.Client, target string, payload any) *http.Response {
	t.Helper()
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := client.Post(target, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", target, err)
	}
	return resp
}

func TestIntegration_JSONAnalyzeURL(t *testing.T) {
	svc := newTestServices(t)
	srv := httptest.NewServer(svc.mux())
	defer srv.Close()
	articles := articleServer(t)
	client := noRedirectClient(t)

	resp := postJSON(t, client, srv.URL+"/api/auth/register", map[string]string{"username": "bob", "password": "pw"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}

	resp = postJSON(t, client, srv.URL+"/api/auth/login", map[string]string{"username": "bob", "password": "pw"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}

	storyURL := articles.URL + "/story"
	resp = postJSON(t, client, srv.URL+"/api/analyze", map[string]string{"url": storyURL})
	var out struct {
		Analysis struct {
			Source   string `json:"source"`
			Markdown string `json:"markdown"`
			Critique struct {
				Score   int    `json:"score"`
				Verdict string `json:"verdict"`
				Band    string `json:"band"`
			} `json:"critique"`
		} `json:"analysis"`
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analyze: expected 200, got %d: %s", resp.StatusCode, readBody(t, resp))
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode analysis: %v", err)
	}
	resp.Body.Close()

	if out.Analysis.Source != storyURL {
		t.Fatalf("expected source %s, got %s", storyURL, out.Analysis.Source)
	}
	if out.Analysis.Critique.Score != 8 || out.Analysis.Critique.Verdict != "Reliable" || out.Analysis.Critique.Band != domain.BandReliable {
		t.Fatalf("unexpected critique %+v", out.Analysis.Critique)
	}
	if len(svc.analyzer.inputs) != 1 || strings.Contains(svc.analyzer.inputs[0], "tracking") {
		t.Fatalf("analyzer should receive visible text only, got %q", svc.analyzer.inputs)
	}

	// Extraction failure maps to 422 and is not recorded.
	resp = postJSON(t, client, srv.URL+"/api/analyze", map[string]string{"url": articles.URL + "/empty"})
	if body := readBody(t, resp); resp.StatusCode != http.StatusUnprocessableEntity || !strings.Contains(body, "paste the text") {
		t.Fatalf("empty page: expected 422, got %d: %s", resp.StatusCode, body)
	}

	resp, err := client.Get(srv.URL + "/api/history")
	if err != nil {
		t.Fatalf("GET /api/history: %v", err)
	}
	var hist struct {
		History []struct {
			Type  string `json:"type"`
			Input string `json:"input"`
		} `json:"history"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	resp.Body.Close()
	if len(hist.History) != 1 || hist.History[0].Input != storyURL || hist.History[0].Type != domain.KindNewsAnalysis {
		t.Fatalf("unexpected history %+v", hist.History)
	}

	resp, err = client.Get(srv.URL + "/api/auth/me")
	if err != nil {
		t.Fatalf("GET /api/auth/me: %v", err)
	}
	var me struct {
		User struct {
			Username     string `json:"username"`
			HistoryCount int    `json:"historyCount"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	resp.Body.Close()
	if me.User.Username != "bob" || me.User.HistoryCount != 1 {
		t.Fatalf("unexpected me %+v", me.User)
	}
}

func TestIntegration_JSONGenerationFailure(t *testing.T) {
	svc := newTestServices(t)
	svc.analyzer.err = fmt.Errorf("%w: upstream 503", domain.ErrGeneration)
	token := svc.loginToken(t, "alice")
	srv := httptest.NewServer(svc.mux())
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/analyze", strings.NewReader(`{"text":"pasted"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /api/analyze: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Sorry, I couldn't generate a response") {
		t.Fatalf("expected fallback message, got %s", body)
	}

	entries, err := svc.history.List(req.Context(), "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("failed generation should not be recorded, got %d entries", len(entries))
	}
}

func TestIntegration_JSONRequiresAuth(t *testing.T) {
	srv := httptest.NewServer(newTestServices(t).mux())
	defer srv.Close()

	for _, path := range []string{"/api/history", "/api/auth/me"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, resp.StatusCode)
		}
	}
}

func TestIntegration_AnalyzeStream(t *testing.T) {
	svc := newTestServices(t)
	token := svc.loginToken(t, "alice")
	srv := httptest.NewServer(svc.mux())
	defer srv.Close()

	form := url.Values{"mode": {"text"}, "text": {"Pasted article body."}}
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/analyze/stream", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /analyze/stream: %v", err)
	}
	body := readBody(t, resp)

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected event stream, got %s", ct)
	}
	if !strings.Contains(body, "Analyzing article") {
		t.Fatal("expected a progress status patch")
	}
	if !strings.Contains(body, "Solid sourcing.") {
		t.Fatal("expected the rendered critique in the stream")
	}

	entries, err := svc.history.List(req.Context(), "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
}

func TestIntegration_AnalyzeStreamExtractionError(t *testing.T) {
	svc := newTestServices(t)
	token := svc.loginToken(t, "alice")
	srv := httptest.NewServer(svc.mux())
	defer srv.Close()
	articles := articleServer(t)

	form := url.Values{"mode": {"url"}, "url": {articles.URL + "/missing"}}
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/analyze/stream", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /analyze/stream: %v", err)
	}
	body := readBody(t, resp)

	if !strings.Contains(body, "Fetching article") {
		t.Fatal("expected a fetching status patch")
	}
	if !strings.Contains(body, "Could not fetch the URL") {
		t.Fatalf("expected fetch error in stream, got %s", body)
	}
	if len(svc.analyzer.inputs) != 0 {
		t.Fatal("analyzer should not run after extraction failure")
	}
}

func TestIntegration_RegisterPasswordTooLong(t *testing.T) {
	srv := httptest.NewServer(newTestServices(t).mux())
	defer srv.Close()
	client := noRedirectClient(t)

	resp := postJSON(t, client, srv.URL+"/api/auth/register", map[string]string{
		"username": "carol",
		"password": strings.Repeat("x", 73),
	})
	if body := readBody(t, resp); resp.StatusCode != http.StatusUnprocessableEntity || !strings.Contains(body, "at most 72 bytes") {
		t.Fatalf("expected 422 with length message, got %d: %s", resp.StatusCode, body)
	}

	long := strings.Repeat("x", 73)
	resp, err := client.PostForm(srv.URL+"/register", url.Values{
		"username":         {"carol"},
		"password":         {long},
		"confirm_password": {long},
	})
	if err != nil {
		t.Fatalf("POST /register: %v", err)
	}
	if body := readBody(t, resp); resp.StatusCode != http.StatusUnprocessableEntity || !strings.Contains(body, "at most 72 bytes") {
		t.Fatalf("form: expected 422 with length message, got %d", resp.StatusCode)
	}
}
