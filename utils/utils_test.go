package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-1", "secret", time.Hour)
	require.NoError(t, err)

	userID, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestTokenRejects(t *testing.T) {
	expired, err := GenerateToken("user-1", "secret", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "expired", token: expired, secret: "secret"},
		{name: "garbage", token: "not-a-jwt", secret: "secret"},
		{name: "no secret", token: expired, secret: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateToken(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}

	_, err = GenerateToken("user-1", "", time.Hour)
	assert.Error(t, err)
}

func TestRespondError(t *testing.T) {
	var logBuf strings.Builder
	rec := httptest.NewRecorder()

	RespondError(rec, &logBuf, "Outfit not found", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Outfit not found", body["error"])
	assert.Equal(t, "Outfit not found;\n", logBuf.String())
}

func TestPresignImageURLsWithoutSigner(t *testing.T) {
	got := PresignImageURLs(context.Background(), nil, []string{"https://cdn.example.com/a.jpg", "outfits/b.jpg"})
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "outfits/b.jpg"}, got)
}
