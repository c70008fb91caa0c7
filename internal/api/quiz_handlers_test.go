package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"knowmark/internal/role"
)

const quizBody = `{
	"name": "Pop quiz",
	"parts": [
		{"id": "0e3742e7-e27e-4e8b-a4c2-674c0cd1a715", "kind": "content",
		 "title": "Intro", "text": "Read this first."},
		{"id": "3f8c5a8e-6f04-4f0f-9f06-2b4f2df1c001", "kind": "question",
		 "title": "Q1", "text": "Is water wet?",
		 "question": {"kind": "bool", "answer": true, "timeLimit": 30}}
	]
}`

func TestCreateQuizHandlerRequiresAuthor(t *testing.T) {
	sec := testSecurity(t)
	r := setupRouter(t, sec)

	anon := doJSON(t, r, http.MethodPost, "/api/v1/quiz", quizBody)
	if anon.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without cookie, got %d", anon.Code)
	}

	normal := cookieFor(t, sec, uuid.New(), role.Normal)
	denied := doJSON(t, r, http.MethodPost, "/api/v1/quiz", quizBody, normal)
	if denied.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for normal user, got %d: %s", denied.Code, denied.Body.String())
	}

	author := cookieFor(t, sec, uuid.New(), role.Author)
	created := doJSON(t, r, http.MethodPost, "/api/v1/quiz", quizBody, author)
	if created.Code != http.StatusCreated {
		t.Errorf("expected 201 for author, got %d: %s", created.Code, created.Body.String())
	}
}

func TestGetQuizHandler(t *testing.T) {
	sec := testSecurity(t)
	r := setupRouter(t, sec)

	author := cookieFor(t, sec, uuid.New(), role.Author)
	created := doJSON(t, r, http.MethodPost, "/api/v1/quiz", quizBody, author)
	id := bodyID(t, created)

	// Reading a quiz needs no authentication.
	w := doJSON(t, r, http.MethodGet, "/api/v1/quiz/"+id.String(), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !contains(w.Body.String(), "Pop quiz") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}

	missing := doJSON(t, r, http.MethodGet, "/api/v1/quiz/"+uuid.NewString(), "")
	if missing.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", missing.Code)
	}
}

func TestListQuizzesHandlerPaging(t *testing.T) {
	sec := testSecurity(t)
	r := setupRouter(t, sec)
	author := cookieFor(t, sec, uuid.New(), role.Author)

	for i := 0; i < 3; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/v1/quiz", quizBody, author)
		if w.Code != http.StatusCreated {
			t.Fatalf("seed quiz %d failed: %d", i, w.Code)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/quiz?len=2&page=1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := countJSONArray(t, w.Body.Bytes()); got != 1 {
		t.Errorf("expected 1 quiz on the second page of 2, got %d", got)
	}

	// Short aliases behave the same.
	short := doJSON(t, r, http.MethodGet, "/api/v1/quiz?l=2&p=0", "")
	if got := countJSONArray(t, short.Body.Bytes()); got != 2 {
		t.Errorf("expected 2 quizzes on the first page, got %d", got)
	}
}

func TestDeleteQuizHandlerOwnership(t *testing.T) {
	sec := testSecurity(t)
	r := setupRouter(t, sec)

	ownerID := uuid.New()
	owner := cookieFor(t, sec, ownerID, role.Author)
	created := doJSON(t, r, http.MethodPost, "/api/v1/quiz", quizBody, owner)
	id := bodyID(t, created)

	// A different author cannot delete someone else's quiz.
	other := cookieFor(t, sec, uuid.New(), role.Author)
	denied := doJSON(t, r, http.MethodDelete, "/api/v1/quiz/"+id.String(), "", other)
	if denied.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for non-owner, got %d: %s", denied.Code, denied.Body.String())
	}

	w := doJSON(t, r, http.MethodDelete, "/api/v1/quiz/"+id.String(), "", owner)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d: %s", w.Code, w.Body.String())
	}

	again := doJSON(t, r, http.MethodDelete, "/api/v1/quiz/"+id.String(), "", owner)
	if again.Code != http.StatusNotFound {
		t.Errorf("expected 404 after deletion, got %d", again.Code)
	}
}

func TestDeleteQuizHandlerAdminOverride(t *testing.T) {
	sec := testSecurity(t)
	r := setupRouter(t, sec)

	owner := cookieFor(t, sec, uuid.New(), role.Author)
	created := doJSON(t, r, http.MethodPost, "/api/v1/quiz", quizBody, owner)
	id := bodyID(t, created)

	admin := cookieFor(t, sec, uuid.New(), role.Admin)
	w := doJSON(t, r, http.MethodDelete, "/api/v1/quiz/"+id.String(), "", admin)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d: %s", w.Code, w.Body.String())
	}
}
