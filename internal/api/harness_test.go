package api

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"knowmark/internal/class"
	"knowmark/internal/config"
	"knowmark/internal/db"
	"knowmark/internal/quiz"
	"knowmark/internal/security"
	"knowmark/internal/user"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&user.User{},
		&quiz.Quiz{},
		&class.Class{},
		&class.Participant{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	db.DB = dbConn
	resetTables(t)
	return dbConn
}

func resetTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{"participants", "classes", "quizzes", "users"} {
		if err := db.DB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to reset %s: %v", table, err)
		}
	}
}

// testSecurity builds in-memory key material with a small RSA pair so
// tests never touch disk or pay for 4096-bit generation.
func testSecurity(t *testing.T) *security.Security {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("generate test key: %v", err)
	}
	private := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("encode test public key: %v", err)
	}
	public := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	sec := &security.Security{
		JWTKeys: security.KeySet{Public: public, Private: private},
	}
	copy(sec.Salt[:], "0123456789abcdef")
	return sec
}

func setupRouter(t *testing.T, sec *security.Security, adminNames ...string) *gin.Engine {
	t.Helper()
	setupTestDB(t)
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.AdminUsernames = adminNames
	cfg.PublicContent = t.TempDir()
	return SetupRouter(cfg, sec, nil)
}

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

func countJSONArray(t *testing.T, data []byte) int {
	t.Helper()
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("expected a JSON array, got %s: %v", data, err)
	}
	return len(items)
}
